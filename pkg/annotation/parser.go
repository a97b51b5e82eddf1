package annotation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/imavis/jta-annotations/pkg/utils"
)

//ParseResult is the outcome of parsing one document.
//When SoftFailure is set every frame list is empty and the document should be counted as skipped.
type ParseResult struct {
	Frames      [][]Detection
	SoftFailure error
}

//ParseDocumentFile parses the CVAT document at path
func ParseDocumentFile(path string, tax *Taxonomy) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ParseDocumentFile: could not open '%s'", path)
	}
	defer f.Close()

	return ParseDocument(f, path, tax)
}

//ParseDocument reads a CVAT document and groups its boxes by frame.
//Out of frame boxes and documents mixing frame sizes do not fail: a warning is logged and
//the result holds the declared number of empty frames. Labels missing from the taxonomy fail.
func ParseDocument(r io.Reader, name string, tax *Taxonomy) (*ParseResult, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "ParseDocument: could not read '%s'", name)
	}

	doc, err := UnmarshalDocument(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "ParseDocument: '%s'", name)
	}

	return DecodeDocument(doc, name, tax)
}

//UnmarshalDocument decodes a document, ignoring anything before the xml prolog and after the root element.
//A declared size above utils.MaxFrameCount is rejected.
func UnmarshalDocument(raw []byte) (*Document, error) {
	raw = bytes.ToValidUTF8(raw, []byte("\uFFFD"))

	start := bytes.Index(raw, []byte("<?xml"))
	if start < 0 {
		start = bytes.Index(raw, []byte("<annotations"))
	}
	end := bytes.LastIndex(raw, []byte("</annotations>"))
	if start < 0 || end < start {
		return nil, errors.New("no <annotations> root element")
	}
	raw = raw[start : end+len("</annotations>")]

	doc := &Document{}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		//content was already made valid UTF-8, a declared legacy charset is not honored
		return input, nil
	}
	if err := dec.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "could not decode xml")
	}
	if doc.Meta.Task.Size == nil {
		return nil, errors.New("missing meta/task/size")
	}
	if doc.FrameCount() < 0 {
		return nil, errors.Errorf("negative frame count %d", doc.FrameCount())
	}
	if doc.FrameCount() > utils.MaxFrameCount {
		return nil, errors.Errorf("declared frame count %d beyond the %d frames ceiling", doc.FrameCount(), utils.MaxFrameCount)
	}

	return doc, nil
}

//DecodeDocument validates the boxes of doc and groups them by frame, see ParseDocument
func DecodeDocument(doc *Document, name string, tax *Taxonomy) (*ParseResult, error) {
	frameCount := doc.FrameCount()
	if frameCount < 0 || frameCount > utils.MaxFrameCount {
		return nil, errors.Errorf("DecodeDocument: '%s' declares %d frames, expected [0, %d]", name, frameCount, utils.MaxFrameCount)
	}
	frames := EmptyFrames(frameCount)

	softFail := func(err error) (*ParseResult, error) {
		log.Printf("DecodeDocument: Warning, task '%s' skipped, got '%v'", name, err)
		return &ParseResult{Frames: EmptyFrames(frameCount), SoftFailure: err}, nil
	}

	//all the images of a document must share one dimension
	dimensions := make(map[[2]int]bool)
	for _, img := range doc.Images {
		dimensions[[2]int{img.Width, img.Height}] = true

		if img.ID < 0 || img.ID >= frameCount {
			return softFail(&InvalidGeometryError{Document: name, Frame: img.ID, Reason: fmt.Sprintf("frame outside of declared size %d", frameCount)})
		}

		for i, box := range img.Boxes {
			coords, err := boxCoordinates(box)
			if err != nil {
				return softFail(&InvalidGeometryError{Document: name, Frame: img.ID, Reason: err.Error()})
			}

			w, h := float64(img.Width), float64(img.Height)
			if !(0 <= coords[0] && coords[0] <= w) || !(0 <= coords[2] && coords[2] <= w) ||
				!(0 <= coords[1] && coords[1] <= h) || !(0 <= coords[3] && coords[3] <= h) {
				return softFail(&InvalidGeometryError{Document: name, Frame: img.ID, Box: coords,
					Reason: fmt.Sprintf("box outside of %dx%d frame", img.Width, img.Height)})
			}

			det, err := NewDetection(tax, coords[0], coords[1], coords[2], coords[3], box.Label, box.Outside == 1, box.Occluded == 1)
			if err != nil {
				var ig *InvalidGeometryError
				if errors.As(err, &ig) {
					ig.Document, ig.Frame = name, img.ID
					return softFail(ig)
				}
				var ul *UnresolvableLabelError
				if errors.As(err, &ul) {
					ul.Document = name
				}
				return nil, errors.Wrapf(err, "DecodeDocument: frame %d", img.ID)
			}

			det.PersonID, det.Synthetic = i, true
			if v, ok := box.Attribute(PersonIDAttribute); ok {
				id, err := strconv.Atoi(strings.TrimSpace(v))
				if err != nil {
					return nil, errors.Wrapf(err, "DecodeDocument: '%s' frame %d has a non numeric %s", name, img.ID, PersonIDAttribute)
				}
				det.PersonID, det.Synthetic = id, false
			}

			frames[img.ID] = append(frames[img.ID], det)
		}
	}

	if len(dimensions) > 1 {
		return softFail(&InvalidGeometryError{Document: name, Frame: -1, Reason: "images with different sizes"})
	}

	return &ParseResult{Frames: frames}, nil
}

func boxCoordinates(box Box) ([4]float64, error) {
	var coords [4]float64
	for i, s := range []string{box.XTL, box.YTL, box.XBR, box.YBR} {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return coords, fmt.Errorf("non numeric box coordinate '%s'", s)
		}
		coords[i] = v
	}
	return coords, nil
}
