package layoutio

import (
	"math"
	"strconv"
	"time"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/element"
)

// Route prefixes for generated callback and image paths.
const (
	ButtonCallbackPrefix = "/api/button/"
	ImagePathPrefix      = "/api/images/"
)

// Record is one element in device space, as exchanged with the display.
type Record struct {
	ID       int           `json:"id" bson:"id"`
	Type     element.Kind  `json:"type" bson:"type"`
	X        float64       `json:"x" bson:"x"`
	Y        float64       `json:"y" bson:"y"`
	Anchor   anchor.Anchor `json:"anchor" bson:"anchor"`
	Width    float64       `json:"width" bson:"width"`
	Height   float64       `json:"height" bson:"height"`
	Text     string        `json:"text,omitempty" bson:"text,omitempty"`
	Level    int           `json:"level,omitempty" bson:"level,omitempty"`
	Callback string        `json:"callback,omitempty" bson:"callback,omitempty"`
	Filled   *bool         `json:"filled,omitempty" bson:"filled,omitempty"`
	Radius   *int          `json:"radius,omitempty" bson:"radius,omitempty"`
	PaddingX *int          `json:"padding_x,omitempty" bson:"padding_x,omitempty"`
	PaddingY *int          `json:"padding_y,omitempty" bson:"padding_y,omitempty"`
	Inverted *bool         `json:"inverted,omitempty" bson:"inverted,omitempty"`
}

// Metadata describes a stored layout.
type Metadata struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Filename  string    `json:"filename"`
}

// Document is a layout as written to disk and served by the layout service.
type Document struct {
	Elements []Record  `json:"elements"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Summary is a listing entry for a stored layout.
type Summary struct {
	ID        string    `json:"id,omitempty"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Path      string    `json:"path"`
}

// ExportElement converts one display-space element into a device record.
// Missing sizes and unknown anchors are exported with their defaults.
func ExportElement(e element.Element, t anchor.Transform) Record {
	e = e.Normalize()
	p := e.AnchorPosition(t)
	r := Record{
		ID:     e.ID,
		Type:   e.Kind,
		X:      math.Round(p.X),
		Y:      math.Round(p.Y),
		Anchor: e.Anchor,
		Width:  e.Width,
		Height: e.Height,
	}

	switch e.Kind {
	case element.KindText:
		r.Text = e.Text
		r.Level = e.Level
	case element.KindButton:
		r.Text = e.Text
		r.Callback = ButtonCallbackPrefix + strconv.Itoa(e.ID)
		r.Filled = element.Bool(e.IsFilled())
		r.Radius = element.Int(e.Radius)
		r.PaddingX = element.Int(e.PaddingX)
		r.PaddingY = element.Int(e.PaddingY)
		r.Level = e.Level
	case element.KindImage:
		r.Text = ImagePathPrefix + strconv.Itoa(e.ID)
		r.Inverted = element.Bool(false)
	}
	return r
}

// Export converts elements into device records, preserving order.
func Export(elements []element.Element, t anchor.Transform) []Record {
	out := make([]Record, len(elements))
	for i, e := range elements {
		out[i] = ExportElement(e, t)
	}
	return out
}

// ImportRecord converts a device record into a display-space element with
// the given ID. Width, height and anchor are defaulted when missing and
// buttons without style values get the editor defaults.
func ImportRecord(r Record, id int, t anchor.Transform) element.Element {
	e := element.Element{
		ID:     id,
		Kind:   r.Type,
		Width:  r.Width,
		Height: r.Height,
		Anchor: r.Anchor,
		Level:  r.Level,
		Text:   r.Text,
	}
	if r.Type == element.KindButton {
		e.Radius = intOr(r.Radius, element.DefaultRadius)
		e.PaddingX = intOr(r.PaddingX, element.DefaultPaddingX)
		e.PaddingY = intOr(r.PaddingY, element.DefaultPaddingY)
		if r.Filled != nil {
			e.Filled = element.Bool(*r.Filled)
		}
	}
	e = e.Normalize()
	return element.FromAnchorPosition(e, anchor.ActualPosition{X: r.X, Y: r.Y}, t)
}

// Import converts device records into display-space elements numbered 1..n.
func Import(records []Record, t anchor.Transform) []element.Element {
	out := make([]element.Element, len(records))
	for i, r := range records {
		out[i] = ImportRecord(r, i+1, t)
	}
	return out
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
