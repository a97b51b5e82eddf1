package pose

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/utils"
)

//Frame holds the poses of every person present in one frame
type Frame struct {
	Index     int
	PersonIDs []int
	Poses     map[int]*Pose
}

//Pose returns the pose of given person in this frame
func (f *Frame) Pose(personID int) (*Pose, bool) {
	p, ok := f.Poses[personID]
	return p, ok
}

//Sequence is a record stream grouped by frame then by person.
//Frames covers [0, MaxFrame]; frames without records have no persons.
type Sequence struct {
	MaxFrame int
	Frames   []*Frame
}

//Len returns the number of frames of the sequence
func (s *Sequence) Len() int { return len(s.Frames) }

//Frame returns the frame with given index, or nil when out of range
func (s *Sequence) Frame(i int) *Frame {
	if i < 0 || i >= len(s.Frames) {
		return nil
	}
	return s.Frames[i]
}

//Index groups raw joint rows laid out as schema into per frame, per person poses.
//Frame numbering starts at 0 and the range ends at the maximum frame seen in rows.
//A malformed row, or a frame index at or above cfg.MaxFrames, aborts the indexing with a *MalformedRecordError naming the row.
func Index(rows [][]float64, schema Schema, cfg Config) (*Sequence, error) {
	limit := cfg.MaxFrames
	if limit <= 0 {
		limit = utils.MaxFrameCount
	}

	joints := make([]Joint, 0, len(rows))
	maxFrame := -1

	for i, row := range rows {
		j, err := parseJoint(i, row, schema)
		if err != nil {
			return nil, err
		}
		if row[ColFrame] >= float64(limit) {
			return nil, &MalformedRecordError{Row: i, Column: ColFrame, Reason: fmt.Sprintf("frame %v beyond the %d frames ceiling", row[ColFrame], limit)}
		}
		if j.FrameIndex > maxFrame {
			maxFrame = j.FrameIndex
		}
		joints = append(joints, j)
	}

	grouped := make([]map[int][]Joint, maxFrame+1)
	for _, j := range joints {
		if grouped[j.FrameIndex] == nil {
			grouped[j.FrameIndex] = make(map[int][]Joint)
		}
		grouped[j.FrameIndex][j.PersonID] = append(grouped[j.FrameIndex][j.PersonID], j)
	}

	seq := &Sequence{MaxFrame: maxFrame, Frames: make([]*Frame, maxFrame+1)}
	for frameIndex, persons := range grouped {
		frame := &Frame{Index: frameIndex, PersonIDs: make([]int, 0, len(persons)), Poses: make(map[int]*Pose, len(persons))}
		for personID, personJoints := range persons {
			p, err := NewPose(personJoints, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "Index: frame %d person %d", frameIndex, personID)
			}
			frame.PersonIDs = append(frame.PersonIDs, personID)
			frame.Poses[personID] = p
		}
		sort.Ints(frame.PersonIDs)
		seq.Frames[frameIndex] = frame
	}

	return seq, nil
}
