package pose

import "fmt"

//Schema tags the column layout of a compact numeric row.
//The layout is always declared by the caller and never guessed from the row width.
type Schema int

const (
	//SchemaJoints2D rows are [frame, person_id, joint_type, x, y]
	SchemaJoints2D Schema = iota + 1
	//SchemaJointsJTA rows are the full JTA joint record
	SchemaJointsJTA
	//SchemaBoxes rows are [frame, person_id, bbox_x, bbox_y, bbox_width, bbox_height]
	SchemaBoxes
)

//Column indexes shared by the joint schemas
const (
	ColFrame        = 0
	ColPerson       = 1
	ColJointType    = 2
	ColX2D          = 3
	ColY2D          = 4
	ColX3D          = 5
	ColY3D          = 6
	ColZ3D          = 7
	ColOccluded     = 8
	ColSelfOccluded = 9
)

var schemaColumns = map[Schema][]string{
	SchemaJoints2D:  {"frame", "pedestrian_id", "joint_type", "2D_x", "2D_y"},
	SchemaJointsJTA: {"frame", "pedestrian_id", "joint_type", "2D_x", "2D_y", "3D_x", "3D_y", "3D_z", "occluded", "self_occluded"},
	SchemaBoxes:     {"frame", "pedestrian_id", "bbox_x", "bbox_y", "bbox_width", "bbox_height"},
}

var schemaNames = map[Schema]string{
	SchemaJoints2D:  "joints2d",
	SchemaJointsJTA: "joints_jta",
	SchemaBoxes:     "boxes",
}

func (s Schema) String() string {
	if n, ok := schemaNames[s]; ok {
		return n
	}
	return "unknown"
}

//Columns returns the canonical column names of the schema
func (s Schema) Columns() []string {
	return schemaColumns[s]
}

//Width returns the number of columns of a row in this schema
func (s Schema) Width() int {
	return len(schemaColumns[s])
}

//IsJoints reports whether rows of this schema are per-joint records
func (s Schema) IsJoints() bool {
	return s == SchemaJoints2D || s == SchemaJointsJTA
}

//ParseSchema returns the schema with given name
func ParseSchema(name string) (Schema, error) {
	for s, n := range schemaNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown row schema '%s'", name)
}
