package video

import (
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/imavis/jta-annotations/pkg/utils"
)

//FrameReader is a source of decoded frames. *gocv.VideoCapture satisfies it.
type FrameReader interface {
	//Read decodes the next frame into m, false when no frame is left
	Read(m *gocv.Mat) bool
	Close() error
}

//Frame is a decoded frame and its position in the source
type Frame struct {
	Index int
	Mat   gocv.Mat
}

//ImageSequence reads the numbered image files of a sequence directory as frames
type ImageSequence struct {
	paths []string
	next  int
}

//OpenImageSequence lists the frames of dir ordered by file number
func OpenImageSequence(dir string) (*ImageSequence, error) {
	paths, err := utils.FrameSequence(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "OpenImageSequence: '%s'", dir)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("OpenImageSequence: no frames in '%s'", dir)
	}

	return &ImageSequence{paths: paths}, nil
}

//Len returns the number of frames in the sequence
func (s *ImageSequence) Len() int { return len(s.paths) }

func (s *ImageSequence) Read(m *gocv.Mat) bool {
	if s.next >= len(s.paths) {
		return false
	}

	img := gocv.IMRead(s.paths[s.next], gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return false
	}

	img.CopyTo(m)
	s.next++
	return true
}

func (s *ImageSequence) Close() error { return nil }

//OpenSource opens a video file, or an image sequence when path is a directory
func OpenSource(path string) (FrameReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "OpenSource")
	}
	if info.IsDir() {
		return OpenImageSequence(path)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "OpenSource: '%s'", path)
	}
	return capture, nil
}
