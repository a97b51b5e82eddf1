package annotation

import (
	"image"

	"github.com/imavis/jta-annotations/pkg/pose"
)

//Detection is a labeled box read from an annotation document. It carries no joints.
type Detection struct {
	TopLeft     pose.Point2D
	BottomRight pose.Point2D
	Label       string
	LabelID     int
	Invisible   bool
	Occluded    bool
	//PersonID is the person the box belongs to. Synthetic is set when the document
	//did not carry it and the id is the box order within its frame.
	PersonID  int
	Synthetic bool
}

//NewDetection validates the box and resolves label through the taxonomy
func NewDetection(tax *Taxonomy, tlX, tlY, brX, brY float64, label string, invisible, occluded bool) (Detection, error) {
	box := [4]float64{tlX, tlY, brX, brY}
	if tlX < 0 || tlY < 0 || brX < 0 || brY < 0 {
		return Detection{}, &InvalidGeometryError{Frame: -1, Box: box, Reason: "negative coordinate"}
	}
	if brX < tlX || brY < tlY {
		return Detection{}, &InvalidGeometryError{Frame: -1, Box: box, Reason: "negative width or height"}
	}

	name, id, err := tax.Resolve(label)
	if err != nil {
		return Detection{}, err
	}

	return Detection{
		TopLeft:     pose.Point2D{X: tlX, Y: tlY},
		BottomRight: pose.Point2D{X: brX, Y: brY},
		Label:       name,
		LabelID:     id,
		Invisible:   invisible,
		Occluded:    occluded,
	}, nil
}

//Centroid returns the midpoint of the box
func (d Detection) Centroid() pose.Point2D {
	return pose.Point2D{X: (d.TopLeft.X + d.BottomRight.X) / 2, Y: (d.TopLeft.Y + d.BottomRight.Y) / 2}
}

//Box returns the detection as a pose box
func (d Detection) Box() pose.Box {
	return pose.Box{X1: d.TopLeft.X, Y1: d.TopLeft.Y, X2: d.BottomRight.X, Y2: d.BottomRight.Y}
}

//Rect returns the box with its coordinates truncated toward zero
func (d Detection) Rect() image.Rectangle {
	return d.Box().Rect()
}

//EmptyFrames returns n empty per frame detection lists
func EmptyFrames(n int) [][]Detection {
	if n < 0 {
		n = 0
	}
	frames := make([][]Detection, n)
	for i := range frames {
		frames[i] = []Detection{}
	}
	return frames
}
