package video

import (
	"gocv.io/x/gocv"
)

//StreamFrames reads every frame of src and sends it through framesC, so frames can be annotated while the next ones are decoded.
//Because this function is the only one who writes to framesC, it closes it before returning.
//Closing done stops the stream early; the receiver owns (and must close) every Mat it gets.
func StreamFrames(src FrameReader, framesC chan<- *Frame, done <-chan struct{}) {
	defer close(framesC)

	for index := 0; ; index++ {
		select {
		case <-done:
			return
		default:
		}

		mat := gocv.NewMat()
		if !src.Read(&mat) || mat.Empty() { //finished to read all frames
			mat.Close()
			return
		}

		select {
		case framesC <- &Frame{Index: index, Mat: mat}:
		case <-done:
			mat.Close()
			return
		}
	}
}
