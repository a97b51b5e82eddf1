package annotation

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/pose"
)

func newTestCodec(t *testing.T) *Codec {
	codec, err := NewCodec(DefaultTaxonomy(), DefaultEncodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	return codec
}

func TestEncodeEndToEnd(t *testing.T) {
	cfg := pose.DefaultConfig()
	cfg.Padding = 2
	seq, err := pose.Index([][]float64{{1, 7, 0, 10, 10}, {1, 7, 1, 20, 20}}, pose.SchemaJoints2D, cfg)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := newTestCodec(t).Encode(seq)
	if err != nil {
		t.Fatal(err)
	}

	if doc.FrameCount() != 2 || len(doc.Images) != 2 {
		t.Fatalf("Wrong frame count: %d, images: %d", doc.FrameCount(), len(doc.Images))
	}
	if len(doc.Meta.Task.Labels) != len(DefaultLabels) {
		t.Errorf("Metadata should declare the whole taxonomy, got %v", doc.Meta.Task.Labels)
	}
	if len(doc.Images[0].Boxes) != 0 {
		t.Errorf("Frame 0 should have no boxes")
	}

	boxes := doc.Images[1].Boxes
	if len(boxes) != 1 {
		t.Fatalf("Expected one box in frame 1, got %d", len(boxes))
	}
	b := boxes[0]
	if b.Label != "person" || b.Occluded != 0 || b.XTL != "8" || b.YTL != "8" || b.XBR != "22" || b.YBR != "22" {
		t.Errorf("Wrong box: %+v", b)
	}
	if v, _ := b.Attribute(PersonIDAttribute); v != "7" {
		t.Errorf("Wrong person id attribute: %s", v)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="utf-8"?>`) {
		t.Errorf("Missing xml prolog: %s", out[:40])
	}
	if !strings.Contains(out, `<box label="person" occluded="0" xtl="8" ytl="8" xbr="22" ybr="22">`) {
		t.Errorf("Box element not found in:\n%s", out)
	}
	if !strings.Contains(out, "\n\t<meta>") {
		t.Errorf("Document is not indented:\n%s", out)
	}
}

func TestEncodeOcclusionAndPolicy(t *testing.T) {
	rows := [][]float64{
		// person 1: head occluded, neck visible
		{0, 1, 0, 100, 100, 0, 0, 0, 1, 0},
		{0, 1, 2, 110, 130, 0, 0, 0, 0, 0},
		// person 2: every joint hidden
		{0, 2, 0, 300, 300, 0, 0, 0, 1, 0},
		{0, 2, 2, 310, 330, 0, 0, 0, 0, 1},
	}
	seq, err := pose.Index(rows, pose.SchemaJointsJTA, pose.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	doc, err := newTestCodec(t).Encode(seq)
	if err != nil {
		t.Fatal(err)
	}
	boxes := doc.Images[0].Boxes
	if len(boxes) != 1 {
		t.Fatalf("Invisible person should be skipped, got %d boxes", len(boxes))
	}
	if boxes[0].Occluded != 1 {
		t.Error("Box of a person with occluded head should be flagged occluded")
	}

	opts := DefaultEncodeOptions()
	opts.HideInvisible = false
	codec, err := NewCodec(DefaultTaxonomy(), opts)
	if err != nil {
		t.Fatal(err)
	}
	doc, err = codec.Encode(seq)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Images[0].Boxes) != 2 {
		t.Errorf("Expected both persons without the hide policy, got %d", len(doc.Images[0].Boxes))
	}
}

func TestEncodeClampsToFrame(t *testing.T) {
	seq, err := pose.Index([][]float64{{0, 3, 0, 1910, 1075}, {0, 3, 5, 1900, 1000}}, pose.SchemaJoints2D, pose.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	codec := newTestCodec(t)
	p, _ := seq.Frame(0).Pose(3)
	box := codec.PoseBox(p)
	if box != [4]int{1880, 980, 1920, 1080} {
		t.Errorf("Wrong clamped box: %v", box)
	}
}

func TestEncodeSkipsPersonsOutsideFrame(t *testing.T) {
	rows := [][]float64{
		{0, 1, 0, 2500, 300},
		{0, 1, 1, 2600, 500},
		{0, 2, 0, 100, 1200},
		{0, 2, 1, 300, 1300},
		{0, 3, 0, 100, 100},
	}
	seq, err := pose.Index(rows, pose.SchemaJoints2D, pose.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	codec := newTestCodec(t)
	doc, err := codec.Encode(seq)
	if err != nil {
		t.Fatal(err)
	}
	boxes := doc.Images[0].Boxes
	if len(boxes) != 1 {
		t.Fatalf("Expected only the person inside the frame, got %d boxes: %+v", len(boxes), boxes)
	}
	if id, _ := boxes[0].Attribute(PersonIDAttribute); id != "3" {
		t.Errorf("Wrong person kept: %s", id)
	}

	poseRows := codec.PoseRows(seq)
	if len(poseRows) != 1 || poseRows[0][1] != 3 {
		t.Errorf("Compact rows should match the document, got %v", poseRows)
	}

	opts := DefaultEncodeOptions()
	opts.ClampToFrame = false
	unclamped, err := NewCodec(DefaultTaxonomy(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(unclamped.PoseRows(seq)); n != 3 {
		t.Errorf("Without clamping every person is kept, got %d rows", n)
	}
}

func TestRoundTrip(t *testing.T) {
	rows := [][]float64{
		{0, 1, 0, 100.7, 200.2},
		{0, 1, 4, 140.9, 380.6},
		{0, 4, 0, 800.5, 90.1},
		{0, 4, 21, 860.3, 400.8},
		{2, 1, 0, 105.2, 205.9},
		{2, 1, 18, 150.1, 390.4},
	}
	seq, err := pose.Index(rows, pose.SchemaJoints2D, pose.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	codec := newTestCodec(t)
	doc, err := codec.Encode(seq)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatal(err)
	}
	res, err := ParseDocument(&buf, "roundtrip.xml", codec.Taxonomy())
	if err != nil {
		t.Fatal(err)
	}
	if res.SoftFailure != nil {
		t.Fatalf("Unexpected soft failure: %v", res.SoftFailure)
	}
	if len(res.Frames) != seq.Len() {
		t.Fatalf("Wrong number of frames: %d, expected: %d", len(res.Frames), seq.Len())
	}

	expected := codec.PoseRows(seq)
	got := DetectionRows(res.Frames)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Round trip mismatch:\n got %v\n expected %v", got, expected)
	}

	first := expected[0]
	if first[0] != 0 || first[1] != 1 || first[2] != 80 || first[3] != 180 || first[4] != 80 || first[5] != 220 {
		t.Errorf("Wrong first row: %v", first)
	}
}

func TestDetectionsFromRows(t *testing.T) {
	codec := newTestCodec(t)
	frames, err := codec.DetectionsFromRows([][]float64{{2, 9, 10, 20, 30, 40}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 || len(frames[2]) != 1 {
		t.Fatalf("Wrong frames: %v", frames)
	}
	d := frames[2][0]
	if d.PersonID != 9 || d.BottomRight != (pose.Point2D{X: 40, Y: 60}) {
		t.Errorf("Wrong detection: %+v", d)
	}

	if _, err := codec.DetectionsFromRows([][]float64{{0, 1, 2, 3}}, 1); !IsFatal(err) {
		t.Errorf("Expected schema mismatch, got %v", err)
	}
}

func TestDetectionsFromRowsFrameCeiling(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.DetectionsFromRows([][]float64{{0, 1, 0, 0, 1, 1}, {1e15, 1, 0, 0, 1, 1}}, 0)
	var mr *MalformedRecordError
	if !errors.As(err, &mr) || mr.Row != 1 || mr.Column != pose.ColFrame {
		t.Errorf("Expected MalformedRecordError on row 1 frame column, got %v", err)
	}
	if IsFatal(err) {
		t.Error("A corrupted row must not abort a batch")
	}

	if _, err := codec.DetectionsFromRows(nil, 1<<40); err == nil {
		t.Error("Expected an error for a frame count beyond the ceiling")
	}
}
