package pose

//Limb is a joint-to-joint edge of the skeleton
type Limb struct {
	From JointType
	To   JointType
}

//Limbs are the edges drawn to render a JTA skeleton
var Limbs = []Limb{
	{HeadTop, HeadCenter},
	{HeadCenter, Neck},
	{Neck, RightClavicle},
	{RightClavicle, RightShoulder},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{Neck, LeftClavicle},
	{LeftClavicle, LeftShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{Neck, Spine0},
	{Spine0, Spine1},
	{Spine1, Spine2},
	{Spine2, Spine3},
	{Spine3, Spine4},
	{Spine4, RightHip},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
	{Spine4, LeftHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
}
