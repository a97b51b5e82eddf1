package video

import (
	"log"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/imavis/jta-annotations/pkg/annotation"
	"github.com/imavis/jta-annotations/pkg/overlay"
	"github.com/imavis/jta-annotations/pkg/pose"
)

//Codec of the written videos
const Codec = "mp4v"

//Annotations are the overlays of a video: either indexed poses or document detections
type Annotations struct {
	Poses      *pose.Sequence
	Detections [][]annotation.Detection
}

//Len returns the number of annotated frames
func (a Annotations) Len() int {
	if a.Poses != nil {
		return a.Poses.Len()
	}
	return len(a.Detections)
}

func (a Annotations) render(r *overlay.Renderer, canvas overlay.Canvas, frameIndex int) overlay.Canvas {
	if a.Poses != nil {
		return r.Frame(canvas, a.Poses.Frame(frameIndex))
	}
	if frameIndex < len(a.Detections) {
		return r.Detections(canvas, a.Detections[frameIndex])
	}
	return canvas.Clone()
}

//VisualizeOptions are the settings of an annotated video
type VisualizeOptions struct {
	FPS      float64
	Progress bool
}

//Visualize reads the video (or image sequence) at srcPath, draws the annotations of every frame and writes the result to dstPath.
//Frames without annotations are written untouched. Returns the number of written frames.
func Visualize(srcPath, dstPath string, ann Annotations, r *overlay.Renderer, opts VisualizeOptions) (int, error) {
	src, err := OpenSource(srcPath)
	if err != nil {
		return 0, errors.Wrap(err, "Visualize")
	}
	defer src.Close()

	var bar *pb.ProgressBar
	if opts.Progress && ann.Len() > 0 {
		bar = pb.StartNew(ann.Len())
		defer bar.Finish()
	}

	framesC := make(chan *Frame)
	done := make(chan struct{})
	go StreamFrames(src, framesC, done)
	//runs before src.Close: the producer may be inside src.Read until it closes framesC
	defer stopStream(framesC, done)

	var videoWriter *gocv.VideoWriter
	defer func() {
		if videoWriter != nil {
			videoWriter.Close()
		}
	}()

	writtenFramesCounter := 0

mainLoop:
	for {
		select {
		case frame, ok := <-framesC:
			if !ok { //sender closed chan
				break mainLoop
			}

			if videoWriter == nil { //output size is known only once the first frame is decoded
				videoWriter, err = gocv.VideoWriterFile(dstPath, Codec, opts.FPS, frame.Mat.Cols(), frame.Mat.Rows(), true)
				if err != nil {
					frame.Mat.Close()
					return writtenFramesCounter, errors.Wrapf(err, "Visualize: '%s'", dstPath)
				}
			}

			canvas := NewMatCanvas(frame.Mat)
			annotated := ann.render(r, canvas, frame.Index).(*MatCanvas)
			err = videoWriter.Write(annotated.Mat())
			annotated.Close()
			canvas.Close()
			if err != nil {
				return writtenFramesCounter, errors.Wrapf(err, "Visualize: writing frame %d", frame.Index)
			}

			writtenFramesCounter++
			if bar != nil && frame.Index < ann.Len() {
				bar.Increment()
			}
		}
	}

	if writtenFramesCounter == 0 {
		return 0, errors.Errorf("Visualize: no frames read from '%s'", srcPath)
	}
	if writtenFramesCounter != ann.Len() {
		log.Printf("Visualize: Warning, '%s' has %d frames but %d are annotated", srcPath, writtenFramesCounter, ann.Len())
	}

	return writtenFramesCounter, nil
}

//stopStream stops a StreamFrames producer and waits for it to return, releasing the frames it still sends
func stopStream(framesC <-chan *Frame, done chan<- struct{}) {
	close(done)
	for frame := range framesC {
		frame.Mat.Close()
	}
}

//FramesToVideo writes the numbered images of dir, in file number order, to a video at dstPath. Returns the number of written frames.
func FramesToVideo(dir, dstPath string, fps float64) (int, error) {
	seq, err := OpenImageSequence(dir)
	if err != nil {
		return 0, errors.Wrap(err, "FramesToVideo")
	}
	defer seq.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	var videoWriter *gocv.VideoWriter
	written := 0
	for seq.Read(&frame) {
		if videoWriter == nil {
			videoWriter, err = gocv.VideoWriterFile(dstPath, Codec, fps, frame.Cols(), frame.Rows(), true)
			if err != nil {
				return 0, errors.Wrapf(err, "FramesToVideo: '%s'", dstPath)
			}
			defer videoWriter.Close()
		}

		if err := videoWriter.Write(frame); err != nil {
			return written, errors.Wrapf(err, "FramesToVideo: writing frame %d", written)
		}
		written++
	}

	if written < seq.Len() {
		log.Printf("FramesToVideo: Warning, could only decode %d of %d images in '%s'", written, seq.Len(), dir)
	}

	return written, nil
}
