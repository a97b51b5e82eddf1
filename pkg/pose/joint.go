package pose

import (
	"fmt"
	"math"
)

//JointType is a keypoint category of the JTA skeleton
type JointType int

//JTA joint categories. The order is the canonical joint order inside a pose.
const (
	HeadTop JointType = iota
	HeadCenter
	Neck
	RightClavicle
	RightShoulder
	RightElbow
	RightWrist
	LeftClavicle
	LeftShoulder
	LeftElbow
	LeftWrist
	Spine0
	Spine1
	Spine2
	Spine3
	Spine4
	RightHip
	RightKnee
	RightAnkle
	LeftHip
	LeftKnee
	LeftAnkle
)

//NumJointTypes is the size of the joint taxonomy
const NumJointTypes = 22

var jointNames = [NumJointTypes]string{
	"head_top", "head_center", "neck",
	"right_clavicle", "right_shoulder", "right_elbow", "right_wrist",
	"left_clavicle", "left_shoulder", "left_elbow", "left_wrist",
	"spine0", "spine1", "spine2", "spine3", "spine4",
	"right_hip", "right_knee", "right_ankle",
	"left_hip", "left_knee", "left_ankle",
}

//Valid reports whether t belongs to the joint taxonomy
func (t JointType) Valid() bool {
	return t >= 0 && t < NumJointTypes
}

func (t JointType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("joint(%d)", int(t))
	}
	return jointNames[t]
}

//Point2D is a position in image pixels. It is not clamped to the frame.
type Point2D struct {
	X float64
	Y float64
}

//Point3D is a camera relative position
type Point3D struct {
	X float64
	Y float64
	Z float64
}

//Joint is one keypoint sample of one person in one frame
type Joint struct {
	FrameIndex   int
	PersonID     int
	Type         JointType
	Position2D   Point2D
	Position3D   Point3D
	Occluded     bool
	SelfOccluded bool
}

//Visible reports whether the joint is usable evidence of the person's presence
func (j Joint) Visible() bool {
	return !j.Occluded && !j.SelfOccluded
}

//JointFromRow builds a Joint from one raw record row laid out as schema
func JointFromRow(row []float64, schema Schema) (Joint, error) {
	return parseJoint(-1, row, schema)
}

func parseJoint(rowIndex int, row []float64, schema Schema) (Joint, error) {
	if !schema.IsJoints() {
		return Joint{}, &MalformedRecordError{Row: rowIndex, Column: -1, Reason: fmt.Sprintf("schema %s does not describe joint rows", schema)}
	}

	if len(row) != schema.Width() {
		return Joint{}, &MalformedRecordError{Row: rowIndex, Column: -1, Reason: fmt.Sprintf("expected %d columns for %s, got %d", schema.Width(), schema, len(row))}
	}

	for c, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Joint{}, &MalformedRecordError{Row: rowIndex, Column: c, Reason: "value is not a finite number"}
		}
	}

	frame, err := integerField(rowIndex, row, ColFrame)
	if err != nil {
		return Joint{}, err
	}
	person, err := integerField(rowIndex, row, ColPerson)
	if err != nil {
		return Joint{}, err
	}
	jt, err := integerField(rowIndex, row, ColJointType)
	if err != nil {
		return Joint{}, err
	}

	if frame < 0 {
		return Joint{}, &MalformedRecordError{Row: rowIndex, Column: ColFrame, Reason: "negative frame index"}
	}
	if !JointType(jt).Valid() {
		return Joint{}, &MalformedRecordError{Row: rowIndex, Column: ColJointType, Reason: fmt.Sprintf("joint type %d outside of [0,%d)", jt, NumJointTypes)}
	}

	j := Joint{
		FrameIndex: frame,
		PersonID:   person,
		Type:       JointType(jt),
		Position2D: Point2D{X: row[ColX2D], Y: row[ColY2D]},
	}

	if schema == SchemaJointsJTA {
		j.Position3D = Point3D{X: row[ColX3D], Y: row[ColY3D], Z: row[ColZ3D]}
		j.Occluded = row[ColOccluded] != 0
		j.SelfOccluded = row[ColSelfOccluded] != 0
	}

	return j, nil
}

func integerField(rowIndex int, row []float64, col int) (int, error) {
	v := row[col]
	if v != math.Trunc(v) {
		return 0, &MalformedRecordError{Row: rowIndex, Column: col, Reason: fmt.Sprintf("%v is not an integer", v)}
	}
	return int(v), nil
}
