package pose

import (
	"image"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/imavis/jta-annotations/pkg/utils"
)

//Config holds the constants the derived geometry and visibility of a pose depend on
type Config struct {
	//Padding is the absolute margin added on each side of the joints extent
	Padding float64
	//HeadJoint is the joint category deciding head visibility
	HeadJoint JointType
	//HalfFraction is the fraction of joint categories which must be hidden for a pose to be half not visible
	HalfFraction float64
	//MaxFrames is the number of frames an indexed sequence may span, utils.MaxFrameCount when not positive
	MaxFrames int
}

//DefaultConfig returns the configuration used for the JTA synthetic sequences
func DefaultConfig() Config {
	return Config{
		Padding:      utils.DefaultPadding,
		HeadJoint:    utils.HeadJointType,
		HalfFraction: 0.5,
		MaxFrames:    utils.MaxFrameCount,
	}
}

//Box is an axis aligned box given by its top left and bottom right corners
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

//Width returns the box width
func (b Box) Width() float64 { return b.X2 - b.X1 }

//Height returns the box height
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

//Contains reports whether o lies inside b
func (b Box) Contains(o Box) bool {
	return b.X1 <= o.X1 && b.Y1 <= o.Y1 && b.X2 >= o.X2 && b.Y2 >= o.Y2
}

//Rect returns the box with its coordinates truncated toward zero
func (b Box) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(int(b.X1), int(b.Y1)),
		Max: image.Pt(int(b.X2), int(b.Y2)),
	}
}

//Pose is the set of joints of one person in one frame, ordered by joint type.
//A pose built from zero joints has no geometry: check HasData before using it.
type Pose struct {
	frameIndex int
	personID   int
	joints     []Joint

	raw    Box
	padded Box

	invisible       bool
	headNotVisible  bool
	halfNotVisible  bool
	hiddenJointsNum int
}

//NewPose builds the pose of the given joints, which must all share one frame and one person
func NewPose(joints []Joint, cfg Config) (*Pose, error) {
	p := &Pose{joints: make([]Joint, len(joints))}
	copy(p.joints, joints)

	if len(p.joints) == 0 {
		return p, nil
	}

	p.frameIndex, p.personID = p.joints[0].FrameIndex, p.joints[0].PersonID
	for _, j := range p.joints[1:] {
		if j.FrameIndex != p.frameIndex || j.PersonID != p.personID {
			return nil, errors.Errorf("NewPose: joint of frame %d person %d mixed into pose of frame %d person %d",
				j.FrameIndex, j.PersonID, p.frameIndex, p.personID)
		}
	}

	sort.SliceStable(p.joints, func(a, b int) bool { return p.joints[a].Type < p.joints[b].Type })

	p.computeBoxes(cfg.Padding)
	p.computeVisibility(cfg)

	return p, nil
}

func (p *Pose) computeBoxes(padding float64) {
	xs := make([]float64, len(p.joints))
	ys := make([]float64, len(p.joints))
	for i, j := range p.joints {
		xs[i] = j.Position2D.X
		ys[i] = j.Position2D.Y
	}

	p.raw = Box{X1: floats.Min(xs), Y1: floats.Min(ys), X2: floats.Max(xs), Y2: floats.Max(ys)}
	p.padded = Box{
		X1: nonNegative(p.raw.X1 - padding),
		Y1: nonNegative(p.raw.Y1 - padding),
		X2: nonNegative(p.raw.X2 + padding),
		Y2: nonNegative(p.raw.Y2 + padding),
	}
}

//computeVisibility counts joint categories against the full taxonomy: an absent joint is as hidden as an occluded one
func (p *Pose) computeVisibility(cfg Config) {
	var visible [NumJointTypes]bool
	anyVisible := false
	for _, j := range p.joints {
		if j.Visible() && j.Type.Valid() {
			visible[j.Type] = true
			anyVisible = true
		}
	}

	hidden := 0
	for _, v := range visible {
		if !v {
			hidden++
		}
	}

	p.hiddenJointsNum = hidden
	p.invisible = !anyVisible
	p.headNotVisible = !cfg.HeadJoint.Valid() || !visible[cfg.HeadJoint]
	p.halfNotVisible = float64(hidden) > cfg.HalfFraction*NumJointTypes
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

//HasData reports whether the pose has at least one joint
func (p *Pose) HasData() bool { return len(p.joints) > 0 }

//FrameIndex returns the frame the pose belongs to
func (p *Pose) FrameIndex() int { return p.frameIndex }

//PersonID returns the person the pose belongs to
func (p *Pose) PersonID() int { return p.personID }

//Joints returns the joints ordered by type. The slice must not be modified.
func (p *Pose) Joints() []Joint { return p.joints }

//Joint returns the joint of given type, if present
func (p *Pose) Joint(t JointType) (Joint, bool) {
	for _, j := range p.joints {
		if j.Type == t {
			return j, true
		}
	}
	return Joint{}, false
}

//BBoxRaw returns the tight box over every joint 2D position, occluded joints included
func (p *Pose) BBoxRaw() Box { return p.raw }

//BBoxPadded returns the raw box grown by the padding margin, clamped at 0
func (p *Pose) BBoxPadded() Box { return p.padded }

//Invisible reports whether no joint is usable evidence of the person
func (p *Pose) Invisible() bool { return p.invisible }

//HeadNotVisible reports whether the head joint is occluded, self occluded or absent
func (p *Pose) HeadNotVisible() bool { return p.headNotVisible }

//HalfNotVisible reports whether more than the configured fraction of joint categories is hidden or absent
func (p *Pose) HalfNotVisible() bool { return p.halfNotVisible }

//HiddenJointsNum returns the number of joint categories without a visible joint
func (p *Pose) HiddenJointsNum() int { return p.hiddenJointsNum }
