package video

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/imavis/jta-annotations/pkg/overlay"
)

//MatCanvas draws overlay primitives on an OpenCV matrix
type MatCanvas struct {
	mat gocv.Mat
}

//NewMatCanvas wraps m. The canvas owns m: closing the canvas closes m.
func NewMatCanvas(m gocv.Mat) *MatCanvas {
	return &MatCanvas{mat: m}
}

//Mat returns the underlying matrix
func (c *MatCanvas) Mat() gocv.Mat { return c.mat }

func (c *MatCanvas) Close() error { return c.mat.Close() }

func (c *MatCanvas) Clone() overlay.Canvas {
	return &MatCanvas{mat: c.mat.Clone()}
}

func (c *MatCanvas) Rectangle(r image.Rectangle, clr color.RGBA, thickness int) {
	gocv.Rectangle(&c.mat, r, clr, thickness)
}

func (c *MatCanvas) Line(from, to image.Point, clr color.RGBA, thickness int) {
	gocv.Line(&c.mat, from, to, clr, thickness)
}

func (c *MatCanvas) Circle(center image.Point, radius int, clr color.RGBA, thickness int) {
	gocv.Circle(&c.mat, center, radius, clr, thickness)
}
