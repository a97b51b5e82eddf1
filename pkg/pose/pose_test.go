package pose

import (
	"testing"
)

func joint2D(frame, person int, t JointType, x, y float64) Joint {
	return Joint{FrameIndex: frame, PersonID: person, Type: t, Position2D: Point2D{X: x, Y: y}}
}

func TestPoseBoundingBoxes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding = 2

	p, err := NewPose([]Joint{joint2D(1, 7, HeadTop, 10, 10), joint2D(1, 7, HeadCenter, 20, 20)}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	expectedRaw := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}
	if p.BBoxRaw() != expectedRaw {
		t.Errorf("Wrong raw box: %v, expected: %v", p.BBoxRaw(), expectedRaw)
	}

	expectedPadded := Box{X1: 8, Y1: 8, X2: 22, Y2: 22}
	if p.BBoxPadded() != expectedPadded {
		t.Errorf("Wrong padded box: %v, expected: %v", p.BBoxPadded(), expectedPadded)
	}
}

func TestPoseBoxIndependentOfJointOrder(t *testing.T) {
	joints := []Joint{
		joint2D(0, 1, LeftAnkle, 310.5, 900.25),
		joint2D(0, 1, HeadTop, 330, 410),
		joint2D(0, 1, RightWrist, 250, 620),
		joint2D(0, 1, LeftWrist, 402.75, 615),
	}
	reversed := []Joint{joints[3], joints[2], joints[1], joints[0]}

	p1, err := NewPose(joints, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewPose(reversed, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if p1.BBoxRaw() != p2.BBoxRaw() {
		t.Errorf("Boxes differ with joint order: %v vs %v", p1.BBoxRaw(), p2.BBoxRaw())
	}

	expected := Box{X1: 250, Y1: 410, X2: 402.75, Y2: 900.25}
	if p1.BBoxRaw() != expected {
		t.Errorf("Wrong raw box: %v, expected: %v", p1.BBoxRaw(), expected)
	}

	for i := 1; i < len(p2.Joints()); i++ {
		if p2.Joints()[i-1].Type > p2.Joints()[i].Type {
			t.Errorf("Joints not ordered by type: %v", p2.Joints())
		}
	}
}

func TestPosePaddedContainsRawAndIsNonNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding = 20

	p, err := NewPose([]Joint{joint2D(3, 2, Neck, 5, 3), joint2D(3, 2, RightAnkle, 60, 150)}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	padded := p.BBoxPadded()
	if !padded.Contains(p.BBoxRaw()) {
		t.Errorf("Padded box %v does not contain raw box %v", padded, p.BBoxRaw())
	}
	if padded.X1 != 0 || padded.Y1 != 0 {
		t.Errorf("Padded box should be clamped at 0, got %v", padded)
	}
	if padded.X2 != 80 || padded.Y2 != 170 {
		t.Errorf("Wrong padded bottom right: %v", padded)
	}
}

func TestPoseVisibility(t *testing.T) {
	cfg := DefaultConfig()

	noHead, err := NewPose([]Joint{joint2D(0, 1, Neck, 1, 1), joint2D(0, 1, Spine0, 2, 2)}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !noHead.HeadNotVisible() {
		t.Error("Pose without head joint should report head not visible")
	}
	if noHead.Invisible() {
		t.Error("Pose with visible joints should not be invisible")
	}
	if !noHead.HalfNotVisible() {
		t.Error("Pose with 20 absent joint categories should be half not visible")
	}

	occluded := make([]Joint, 0, NumJointTypes)
	for jt := JointType(0); jt < NumJointTypes; jt++ {
		j := joint2D(0, 2, jt, float64(jt), float64(jt))
		if jt%2 == 0 {
			j.Occluded = true
		} else {
			j.SelfOccluded = true
		}
		occluded = append(occluded, j)
	}
	allHidden, err := NewPose(occluded, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !allHidden.Invisible() {
		t.Error("Pose with every joint occluded should be invisible")
	}
	if !allHidden.HeadNotVisible() {
		t.Error("Pose with occluded head should report head not visible")
	}

	full := make([]Joint, 0, NumJointTypes)
	for jt := JointType(0); jt < NumJointTypes; jt++ {
		j := joint2D(0, 3, jt, 0, 0)
		j.Occluded = jt < 11
		full = append(full, j)
	}
	halfHidden, err := NewPose(full, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if halfHidden.HalfNotVisible() {
		t.Errorf("Exactly half hidden (%d) is not more than half", halfHidden.HiddenJointsNum())
	}
	if !halfHidden.HeadNotVisible() {
		t.Error("Head is occluded, expected head not visible")
	}
}

func TestPoseEmpty(t *testing.T) {
	p, err := NewPose(nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if p.HasData() {
		t.Error("Empty pose should have no data")
	}
}

func TestPoseRejectsMixedJoints(t *testing.T) {
	_, err := NewPose([]Joint{joint2D(0, 1, HeadTop, 0, 0), joint2D(0, 2, Neck, 1, 1)}, DefaultConfig())
	if err == nil {
		t.Error("Expected error for joints of different persons")
	}
}

func TestBoxRectTruncates(t *testing.T) {
	r := Box{X1: 8.9, Y1: 7.2, X2: 22.99, Y2: 30.5}.Rect()
	if r.Min.X != 8 || r.Min.Y != 7 || r.Max.X != 22 || r.Max.Y != 30 {
		t.Errorf("Wrong truncation: %v", r)
	}
}
