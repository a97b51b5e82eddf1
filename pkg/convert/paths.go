package convert

import (
	"fmt"
	"path/filepath"
)

//CoordsFile is the JTA export every sequence directory holds
const CoordsFile = "coords.csv"

//SequencePrefix starts the name of every sequence directory
const SequencePrefix = "seq_"

//Paths are the files of one sequence directory
type Paths struct {
	Dir      string
	Name     string
	Coords   string
	Joints   string
	Document string
	Boxes    string
	Video    string
	Overlay  string
}

//SequencePaths returns the file layout of sequence directory dir, e.g. seq_3/seq_3.json
func SequencePaths(dir string) Paths {
	name := filepath.Base(dir)
	return Paths{
		Dir:      dir,
		Name:     name,
		Coords:   filepath.Join(dir, CoordsFile),
		Joints:   filepath.Join(dir, name+".json"),
		Document: filepath.Join(dir, name+".xml"),
		Boxes:    filepath.Join(dir, name+"_boxes.json"),
		Video:    filepath.Join(dir, name+".mp4"),
		Overlay:  filepath.Join(dir, fmt.Sprintf("res_%s_pose.mp4", name)),
	}
}
