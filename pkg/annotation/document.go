package annotation

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

//PersonIDAttribute is the box attribute carrying the person a box was derived from
const PersonIDAttribute = "person_id"

//Document is a CVAT "for images" annotation document
type Document struct {
	XMLName xml.Name `xml:"annotations"`
	Version string   `xml:"version"`
	Meta    Meta     `xml:"meta"`
	Images  []Image  `xml:"image"`
}

//Meta is the document metadata block
type Meta struct {
	Task Task `xml:"task"`
}

//Task declares the frame range and the label taxonomy of a document
type Task struct {
	Name       string  `xml:"name,omitempty"`
	Size       *int    `xml:"size"`
	StartFrame int     `xml:"start_frame"`
	StopFrame  int     `xml:"stop_frame"`
	Labels     []Label `xml:"labels>label"`
}

//Label is one entry of the declared taxonomy
type Label struct {
	Name string `xml:"name"`
	ID   int    `xml:"id"`
}

//Image holds the boxes of one frame
type Image struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Boxes  []Box  `xml:"box"`
}

//Box is a labeled box element. Coordinates are kept as text: they are written as integers
//and may be read back as decimals from hand authored documents.
type Box struct {
	Label      string      `xml:"label,attr"`
	Occluded   int         `xml:"occluded,attr"`
	Outside    int         `xml:"outside,attr,omitempty"`
	XTL        string      `xml:"xtl,attr"`
	YTL        string      `xml:"ytl,attr"`
	XBR        string      `xml:"xbr,attr"`
	YBR        string      `xml:"ybr,attr"`
	Attributes []Attribute `xml:"attribute"`
}

//Attribute is a named value attached to a box
type Attribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

//Attribute returns the value of the named box attribute
func (b *Box) Attribute(name string) (string, bool) {
	for _, a := range b.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

//FrameCount returns the declared number of frames
func (d *Document) FrameCount() int {
	if d.Meta.Task.Size == nil {
		return 0
	}
	return *d.Meta.Task.Size
}

//Write writes the document as indented UTF-8 XML
func (d *Document) Write(w io.Writer) error {
	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="utf-8"?>`+"\n"); err != nil {
		return errors.Wrap(err, "Write: could not write xml header")
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "Write: could not encode document")
	}
	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "Write: could not flush document")
	}

	_, err := io.WriteString(w, "\n")
	return err
}
