// Package element defines the screen elements placed on an e-ink layout.
//
// An [Element] always stores its position in display space (the top-left
// corner on the editor canvas). Device-space positions only exist in the
// exported wire format, produced through [Element.AnchorPosition] and read
// back with [FromAnchorPosition]; the two are never kept side by side.
package element

import (
	"fmt"
	"math"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/errors"
)

// Kind is the element type.
type Kind string

// Element kinds understood by the display firmware.
const (
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindImage  Kind = "image"
)

// Kinds lists the supported element kinds.
var Kinds = []Kind{KindText, KindButton, KindImage}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindText || k == KindButton || k == KindImage
}

// HasLevel reports whether elements of kind k are drawn with an emphasis level.
func (k Kind) HasLevel() bool { return k == KindText || k == KindButton }

// Button style limits enforced by editor controls.
const (
	MaxRadius   = 35
	MaxPaddingX = 100
	MaxPaddingY = 50
)

// Defaults for newly created elements.
const (
	DefaultX        = 50.0
	DefaultY        = 50.0
	DefaultLevel    = 1
	DefaultRadius   = 20
	DefaultPaddingX = 10
	DefaultPaddingY = 5
	MinLevel        = 1
	MaxLevel        = 4
)

// Element is a single item on a layout, positioned in display space.
//
// Radius, PaddingX, PaddingY and Filled only apply to buttons. Filled is a
// pointer so that "unset" can be told apart from an explicit false; use
// [Element.IsFilled] to read it.
type Element struct {
	ID       int           `json:"id"`
	Kind     Kind          `json:"type"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Anchor   anchor.Anchor `json:"anchor"`
	Level    int           `json:"level,omitempty"`
	Text     string        `json:"text,omitempty"`
	Radius   int           `json:"radius,omitempty"`
	PaddingX int           `json:"padding_x,omitempty"`
	PaddingY int           `json:"padding_y,omitempty"`
	Filled   *bool         `json:"filled,omitempty"`
}

// New creates an element of the given kind with the toolbar defaults:
// placed at (50, 50), sized 100×50 (200×200 for images), and for buttons
// a radius of 20, padding 10×5 and a filled background.
func New(kind Kind, a anchor.Anchor, level int) Element {
	size := DefaultSize(kind)
	e := Element{
		Kind:   kind,
		X:      DefaultX,
		Y:      DefaultY,
		Width:  size.Width,
		Height: size.Height,
		Anchor: a.Or(anchor.TopLeft),
		Level:  level,
	}
	switch kind {
	case KindText:
		e.Text = "Sample Text"
	case KindButton:
		e.Text = "Button"
		e.Radius = DefaultRadius
		e.PaddingX = DefaultPaddingX
		e.PaddingY = DefaultPaddingY
		e.Filled = Bool(true)
	case KindImage:
		e.Text = "/image/path"
	}
	return e.Normalize()
}

// DefaultSize returns the initial extent for an element kind.
func DefaultSize(kind Kind) anchor.Size {
	if kind == KindImage {
		return anchor.Size{Width: 200, Height: 200}
	}
	return anchor.Size{Width: anchor.DefaultWidth, Height: anchor.DefaultHeight}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Position returns the display-space top-left corner.
func (e Element) Position() anchor.DisplayPosition {
	return anchor.DisplayPosition{X: e.X, Y: e.Y}
}

// Size returns the element extent, without defaults applied.
func (e Element) Size() anchor.Size {
	return anchor.Size{Width: e.Width, Height: e.Height}
}

// IsFilled reports whether a button is drawn filled. Only an explicit false
// yields an outlined button.
func (e Element) IsFilled() bool { return e.Filled == nil || *e.Filled }

// AnchorPosition returns the device-space position of the element's anchor.
func (e Element) AnchorPosition(t anchor.Transform) anchor.ActualPosition {
	return t.ToAnchorSpace(e.Position(), e.Size(), e.Anchor)
}

// MoveTo returns a copy of e placed at p.
func (e Element) MoveTo(p anchor.DisplayPosition) Element {
	e.X, e.Y = p.X, p.Y
	return e
}

// FromAnchorPosition returns a copy of e whose display position is derived
// from a device-space anchor position, using e's size and anchor.
func FromAnchorPosition(e Element, p anchor.ActualPosition, t anchor.Transform) Element {
	return e.MoveTo(t.ToDisplaySpace(p, e.Size(), e.Anchor))
}

// Normalize fills in missing values: width/height default to 100×50, the
// anchor to top-left and the level of text and buttons to 1. Out-of-range
// values are left as they are.
func (e Element) Normalize() Element {
	s := e.Size().OrDefault()
	e.Width, e.Height = s.Width, s.Height
	if !e.Anchor.Valid() {
		e.Anchor = anchor.TopLeft
	}
	if e.Kind.HasLevel() && e.Level == 0 {
		e.Level = DefaultLevel
	}
	return e
}

// Clamp limits the editable properties to the ranges offered by the editor
// controls: level 1-4, radius 0-35, padding 0-100 × 0-50.
func (e Element) Clamp() Element {
	if e.Kind.HasLevel() {
		e.Level = clamp(e.Level, MinLevel, MaxLevel)
	}
	if e.Kind == KindButton {
		e.Radius = clamp(e.Radius, 0, MaxRadius)
		e.PaddingX = clamp(e.PaddingX, 0, MaxPaddingX)
		e.PaddingY = clamp(e.PaddingY, 0, MaxPaddingY)
	}
	return e
}

// Validate checks the structural invariants: a known kind, a known anchor
// and finite coordinates.
func (e Element) Validate() error {
	if !e.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidElement, "unknown element type %q", e.Kind)
	}
	if !e.Anchor.Valid() {
		return errors.New(errors.ErrCodeInvalidAnchor, "unknown anchor %q", e.Anchor)
	}
	for _, v := range []float64{e.X, e.Y, e.Width, e.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidElement, "element %d has non-finite geometry", e.ID)
		}
	}
	return nil
}

// String returns a short description like "button#3".
func (e Element) String() string {
	return fmt.Sprintf("%s#%d", e.Kind, e.ID)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
