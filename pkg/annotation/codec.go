package annotation

import (
	"fmt"
	"strconv"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
	"github.com/imavis/jta-annotations/pkg/utils"
)

//EncodeOptions controls which poses become boxes and how they are written
type EncodeOptions struct {
	FrameWidth  int
	FrameHeight int
	//HideInvisible skips persons without any visible joint
	HideInvisible bool
	//HideHalfNotVisible skips persons with more than half of their joint categories hidden
	HideHalfNotVisible bool
	//ClampToFrame clamps padded boxes to the frame, which the document format requires to be read back
	ClampToFrame bool
	//TaskName is written in the metadata block
	TaskName string
	//Progress shows a progress bar while encoding frames
	Progress bool
	//MaxFrames is the number of frames decoded data may span, utils.MaxFrameCount when not positive
	MaxFrames int
}

//DefaultEncodeOptions returns the options used for the synthetic sequences
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		FrameWidth:    utils.FrameWidth,
		FrameHeight:   utils.FrameHeight,
		HideInvisible: true,
		ClampToFrame:  true,
		MaxFrames:     utils.MaxFrameCount,
	}
}

//Codec converts between frame indexed poses, CVAT documents and compact box rows.
//Decoding is lossy: documents carry boxes only, so decoded data are Detections and never poses.
type Codec struct {
	tax  *Taxonomy
	opts EncodeOptions
}

//NewCodec returns a codec using given taxonomy for both directions
func NewCodec(tax *Taxonomy, opts EncodeOptions) (*Codec, error) {
	if _, _, err := tax.Resolve(utils.PersonLabel); err != nil {
		return nil, errors.Wrap(err, "NewCodec")
	}
	if opts.FrameWidth <= 0 || opts.FrameHeight <= 0 {
		return nil, errors.Errorf("NewCodec: invalid frame size %dx%d", opts.FrameWidth, opts.FrameHeight)
	}
	return &Codec{tax: tax, opts: opts}, nil
}

//Taxonomy returns the codec taxonomy
func (c *Codec) Taxonomy() *Taxonomy { return c.tax }

//Keep reports whether the pose passes the visibility policy and becomes a box.
//A pose lying outside the frame, whose clamped box has no area, is never kept.
func (c *Codec) Keep(p *pose.Pose) bool {
	if p == nil || !p.HasData() {
		return false
	}
	if c.opts.HideInvisible && p.Invisible() {
		return false
	}
	if c.opts.HideHalfNotVisible && p.HalfNotVisible() {
		return false
	}
	if c.opts.ClampToFrame {
		box := c.PoseBox(p)
		if box[2] <= box[0] || box[3] <= box[1] {
			return false
		}
	}
	return true
}

//PoseBox returns the box written for p: its padded box, clamped to the frame when configured, truncated toward zero
func (c *Codec) PoseBox(p *pose.Pose) [4]int {
	b := p.BBoxPadded()
	if c.opts.ClampToFrame {
		w, h := float64(c.opts.FrameWidth), float64(c.opts.FrameHeight)
		b = pose.Box{X1: clamp(b.X1, w), Y1: clamp(b.Y1, h), X2: clamp(b.X2, w), Y2: clamp(b.Y2, h)}
	}
	r := b.Rect()
	return [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

//Encode writes one image element per frame of seq and one person box per kept pose.
//The metadata block declares the frame range and the whole taxonomy.
func (c *Codec) Encode(seq *pose.Sequence) (*Document, error) {
	size := seq.Len()
	doc := &Document{
		Version: utils.DocumentVersion,
		Meta: Meta{Task: Task{
			Name:       c.opts.TaskName,
			Size:       &size,
			StartFrame: 0,
			StopFrame:  seq.MaxFrame,
			Labels:     c.tax.Labels(),
		}},
		Images: make([]Image, 0, size),
	}

	label, _, err := c.tax.Resolve(utils.PersonLabel)
	if err != nil {
		return nil, errors.Wrap(err, "Encode")
	}

	var bar *pb.ProgressBar
	if c.opts.Progress {
		bar = pb.StartNew(size)
		defer bar.Finish()
	}

	for _, frame := range seq.Frames {
		img := Image{
			ID:     frame.Index,
			Name:   fmt.Sprintf("%d.jpg", frame.Index),
			Width:  c.opts.FrameWidth,
			Height: c.opts.FrameHeight,
		}

		for _, personID := range frame.PersonIDs {
			p := frame.Poses[personID]
			if !c.Keep(p) {
				continue
			}

			occluded := 0
			if p.HeadNotVisible() {
				occluded = 1
			}

			box := c.PoseBox(p)
			img.Boxes = append(img.Boxes, Box{
				Label:      label,
				Occluded:   occluded,
				XTL:        strconv.Itoa(box[0]),
				YTL:        strconv.Itoa(box[1]),
				XBR:        strconv.Itoa(box[2]),
				YBR:        strconv.Itoa(box[3]),
				Attributes: []Attribute{{Name: PersonIDAttribute, Value: strconv.Itoa(personID)}},
			})
		}

		doc.Images = append(doc.Images, img)
		if bar != nil {
			bar.Increment()
		}
	}

	return doc, nil
}

func (c *Codec) maxFrames() int {
	if c.opts.MaxFrames <= 0 {
		return utils.MaxFrameCount
	}
	return c.opts.MaxFrames
}

//Decode groups the boxes of doc by frame, see DecodeDocument. Documents declaring more frames than the codec allows are rejected.
func (c *Codec) Decode(doc *Document, name string) (*ParseResult, error) {
	if n := doc.FrameCount(); n > c.maxFrames() {
		return nil, errors.Errorf("Decode: '%s' declares %d frames, ceiling is %d", name, n, c.maxFrames())
	}
	return DecodeDocument(doc, name, c.tax)
}

//PoseRows returns the compact box rows of the poses Encode would write
func (c *Codec) PoseRows(seq *pose.Sequence) [][]float64 {
	rows := make([][]float64, 0)
	for _, frame := range seq.Frames {
		for _, personID := range frame.PersonIDs {
			p := frame.Poses[personID]
			if !c.Keep(p) {
				continue
			}
			rows = append(rows, boxRow(frame.Index, personID, c.PoseBox(p)))
		}
	}
	return rows
}

//DetectionRows returns the compact box rows of per frame detections
func DetectionRows(frames [][]Detection) [][]float64 {
	rows := make([][]float64, 0)
	for frameIndex, dets := range frames {
		for _, d := range dets {
			r := d.Rect()
			rows = append(rows, boxRow(frameIndex, d.PersonID, [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}))
		}
	}
	return rows
}

func boxRow(frameIndex, personID int, box [4]int) []float64 {
	return []float64{
		float64(frameIndex),
		float64(personID),
		float64(box[0]),
		float64(box[1]),
		float64(box[2] - box[0]),
		float64(box[3] - box[1]),
	}
}

//DetectionsFromRows groups compact box rows into person detections by frame.
//frameCount is raised to cover the highest frame of rows.
func (c *Codec) DetectionsFromRows(rows [][]float64, frameCount int) ([][]Detection, error) {
	limit := c.maxFrames()
	if frameCount > limit {
		return nil, errors.Errorf("DetectionsFromRows: %d frames requested, ceiling is %d", frameCount, limit)
	}

	for i, row := range rows {
		if len(row) != pose.SchemaBoxes.Width() {
			return nil, &SchemaMismatchError{Schema: pose.SchemaBoxes, Row: i, Columns: len(row)}
		}
		if row[pose.ColFrame] < 0 {
			return nil, &MalformedRecordError{Row: i, Column: pose.ColFrame, Reason: "negative frame index"}
		}
		if row[pose.ColFrame] >= float64(limit) {
			return nil, &MalformedRecordError{Row: i, Column: pose.ColFrame, Reason: fmt.Sprintf("frame %v beyond the %d frames ceiling", row[pose.ColFrame], limit)}
		}
		if int(row[pose.ColFrame])+1 > frameCount {
			frameCount = int(row[pose.ColFrame]) + 1
		}
	}

	frames := EmptyFrames(frameCount)
	for i, row := range rows {
		frameIndex := int(row[pose.ColFrame])
		det, err := NewDetection(c.tax, row[2], row[3], row[2]+row[4], row[3]+row[5], utils.PersonLabel, false, false)
		if err != nil {
			return nil, errors.Wrapf(err, "DetectionsFromRows: row %d", i)
		}
		det.PersonID = int(row[1])
		frames[frameIndex] = append(frames[frameIndex], det)
	}

	return frames, nil
}
