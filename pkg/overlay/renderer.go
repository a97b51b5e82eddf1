package overlay

import (
	"image"
	"image/color"

	"github.com/imavis/jta-annotations/pkg/annotation"
	"github.com/imavis/jta-annotations/pkg/pose"
)

//Canvas is an image buffer drawing primitives are applied to
type Canvas interface {
	//Clone returns an independent copy of the buffer
	Clone() Canvas
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
	Line(from, to image.Point, c color.RGBA, thickness int)
	//Circle draws a filled circle when thickness is negative
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
}

//Options are the rendering settings
type Options struct {
	Thickness   int
	JointRadius int
	//BBox renders padded boxes instead of skeletons
	BBox bool
	//Hide skips persons without any visible joint
	Hide bool
}

//DefaultOptions returns the settings used for QA videos
func DefaultOptions() Options {
	return Options{Thickness: 2, JointRadius: 3, Hide: true}
}

//Renderer composes annotation overlays onto frames. Inputs are never modified:
//every call draws on a clone of the given canvas and returns it.
type Renderer struct {
	palette Palette
	opts    Options
}

//NewRenderer returns a renderer coloring persons from palette
func NewRenderer(palette Palette, opts Options) *Renderer {
	return &Renderer{palette: palette, opts: opts}
}

//Color returns the color of given person
func (r *Renderer) Color(personID int) color.RGBA {
	return r.palette.Color(personID)
}

//Box renders a rectangle
func (r *Renderer) Box(img Canvas, box pose.Box, c color.RGBA) Canvas {
	out := img.Clone()
	r.drawBox(out, box, c)
	return out
}

//Skeleton renders the limbs and joints of p
func (r *Renderer) Skeleton(img Canvas, p *pose.Pose, c color.RGBA) Canvas {
	out := img.Clone()
	r.drawSkeleton(out, p, c)
	return out
}

//Frame renders every person of frame, colored by id
func (r *Renderer) Frame(img Canvas, frame *pose.Frame) Canvas {
	out := img.Clone()
	if frame == nil {
		return out
	}

	for _, personID := range frame.PersonIDs {
		p := frame.Poses[personID]
		if !p.HasData() {
			continue
		}
		//invisible pose = pose of which no joint is seen
		if r.opts.Hide && p.Invisible() {
			continue
		}

		c := r.Color(personID)
		if r.opts.BBox {
			r.drawBox(out, p.BBoxPadded(), c)
		} else {
			r.drawSkeleton(out, p, c)
		}
	}

	return out
}

//Detections renders boxes read from a document, colored by their person id
func (r *Renderer) Detections(img Canvas, dets []annotation.Detection) Canvas {
	out := img.Clone()
	for _, d := range dets {
		if r.opts.Hide && d.Invisible {
			continue
		}
		r.drawBox(out, d.Box(), r.Color(d.PersonID))
	}
	return out
}

func (r *Renderer) drawBox(img Canvas, box pose.Box, c color.RGBA) {
	img.Rectangle(box.Rect(), c, r.opts.Thickness)
}

func (r *Renderer) drawSkeleton(img Canvas, p *pose.Pose, c color.RGBA) {
	for _, limb := range pose.Limbs {
		from, ok1 := p.Joint(limb.From)
		to, ok2 := p.Joint(limb.To)
		if !ok1 || !ok2 {
			continue
		}
		img.Line(point(from), point(to), c, r.opts.Thickness)
	}

	for _, j := range p.Joints() {
		thickness := -1
		if !j.Visible() {
			thickness = 1
		}
		img.Circle(point(j), r.opts.JointRadius, c, thickness)
	}
}

func point(j pose.Joint) image.Point {
	return image.Pt(int(j.Position2D.X), int(j.Position2D.Y))
}
