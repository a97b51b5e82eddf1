package convert

import (
	"io"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/annotation"
	"github.com/imavis/jta-annotations/pkg/pose"
	"github.com/imavis/jta-annotations/pkg/utils"
)

//RenderFunc produces the videos of a converted sequence
type RenderFunc func(paths Paths, seq *pose.Sequence, frames [][]annotation.Detection) error

//SequenceResult describes one converted sequence
type SequenceResult struct {
	Name   string
	Frames int
	Joints int
	Boxes  int
	//SoftFailure is set when the written document could not be read back
	SoftFailure error
}

//Report summarizes a batch run
type Report struct {
	RunID     string
	Started   time.Time
	Duration  time.Duration
	Sequences int
	Converted []SequenceResult
	//Failures maps a sequence name to the error which stopped its conversion
	Failures map[string]error
}

//SoftFailures returns the number of converted sequences whose document was skipped on read back
func (r *Report) SoftFailures() int {
	n := 0
	for _, res := range r.Converted {
		if res.SoftFailure != nil {
			n++
		}
	}
	return n
}

//Runner converts the sequence directories of a dataset: coords.csv to joint rows, joint rows to a document,
//document to compact box rows. Failures are kept per sequence; configuration errors abort the run.
type Runner struct {
	codec    *annotation.Codec
	pose     pose.Config
	Progress bool
	Render   RenderFunc
}

//NewRunner returns a runner building poses with cfg and documents with codec
func NewRunner(codec *annotation.Codec, cfg pose.Config) *Runner {
	return &Runner{codec: codec, pose: cfg}
}

//Run converts every seq_N directory under root, in sequence number order
func (r *Runner) Run(root string) (*Report, error) {
	names, err := utils.ListSubDirs(root, SequencePrefix)
	if err != nil {
		return nil, errors.Wrap(err, "Run")
	}
	sortSequences(names)

	report := &Report{
		RunID:     uuid.New().String(),
		Started:   time.Now(),
		Sequences: len(names),
		Failures:  make(map[string]error),
	}
	defer func() { report.Duration = time.Since(report.Started) }()

	log.Printf("Run %s: converting %d sequences in '%s'", report.RunID, len(names), root)

	var bar *pb.ProgressBar
	if r.Progress {
		bar = pb.StartNew(len(names))
		defer bar.Finish()
	}

	for _, name := range names {
		res, err := r.ConvertSequence(filepath.Join(root, name))
		if bar != nil {
			bar.Increment()
		}

		if err != nil {
			if annotation.IsFatal(err) {
				return report, errors.Wrapf(err, "Run %s: aborted on '%s'", report.RunID, name)
			}
			log.Printf("Run %s: Error, got '%v'", report.RunID, err)
			report.Failures[name] = err
			continue
		}

		if res.SoftFailure != nil {
			log.Printf("Run %s: Warning, '%s' document skipped on read back", report.RunID, name)
		}
		report.Converted = append(report.Converted, *res)
	}

	log.Printf("Run %s: %d converted, %d failed", report.RunID, len(report.Converted), len(report.Failures))
	return report, nil
}

//ConvertSequence converts the sequence directory dir, writing its joint rows, document and box rows next to coords.csv
func (r *Runner) ConvertSequence(dir string) (*SequenceResult, error) {
	paths := SequencePaths(dir)

	rows, err := annotation.ReadJTACSVFile(paths.Coords)
	if err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}
	if err := annotation.WriteFile(paths.Joints, rowsWriter(rows)); err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}

	seq, err := pose.Index(rows, pose.SchemaJointsJTA, r.pose)
	if err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}

	doc, err := r.codec.Encode(seq)
	if err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}
	if err := annotation.WriteFile(paths.Document, doc.Write); err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}

	parsed, err := annotation.ParseDocumentFile(paths.Document, r.codec.Taxonomy())
	if err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}
	boxes := annotation.DetectionRows(parsed.Frames)
	if err := annotation.WriteFile(paths.Boxes, rowsWriter(boxes)); err != nil {
		return nil, errors.Wrapf(err, "ConvertSequence: '%s'", paths.Name)
	}

	if r.Render != nil {
		if err := r.Render(paths, seq, parsed.Frames); err != nil {
			return nil, errors.Wrapf(err, "ConvertSequence: rendering '%s'", paths.Name)
		}
	}

	return &SequenceResult{
		Name:        paths.Name,
		Frames:      seq.Len(),
		Joints:      len(rows),
		Boxes:       len(boxes),
		SoftFailure: parsed.SoftFailure,
	}, nil
}

func rowsWriter(rows [][]float64) func(io.Writer) error {
	return func(w io.Writer) error {
		return annotation.WriteRows(w, rows)
	}
}

//sortSequences orders seq_N names by N, names without a number last
func sortSequences(names []string) {
	number := func(name string) int {
		n, err := strconv.Atoi(strings.TrimPrefix(name, SequencePrefix))
		if err != nil {
			return int(^uint(0) >> 1)
		}
		return n
	}
	sort.SliceStable(names, func(i, j int) bool {
		return number(names[i]) < number(names[j])
	})
}
