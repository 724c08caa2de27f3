package editor

import (
	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/element"
)

// Action is a change request applied by [Reduce].
type Action interface {
	// Name identifies the action kind in logs and hooks.
	Name() string
}

// Add appends an element. Its ID is overwritten with the next free ID.
type Add struct{ Element element.Element }

// Update applies a property patch to an element. Editable style values are
// clamped to the editor ranges.
type Update struct {
	ID    int
	Patch Patch
}

// Move places an element's top-left corner at a display position.
type Move struct {
	ID int
	To anchor.DisplayPosition
}

// Delete removes an element and clears the selection if it was selected.
type Delete struct{ ID int }

// Select marks an element as selected. Unknown IDs clear the selection.
type Select struct{ ID int }

// Deselect clears the selection.
type Deselect struct{}

// Clear removes all elements and resets the ID counter.
type Clear struct{}

// Load replaces all elements, numbering them 1..n in order.
type Load struct{ Elements []element.Element }

func (Add) Name() string      { return "add" }
func (Update) Name() string   { return "update" }
func (Move) Name() string     { return "move" }
func (Delete) Name() string   { return "delete" }
func (Select) Name() string   { return "select" }
func (Deselect) Name() string { return "deselect" }
func (Clear) Name() string    { return "clear" }
func (Load) Name() string     { return "load" }

// Patch lists the properties to change; nil fields are left alone.
type Patch struct {
	X, Y          *float64
	Width, Height *float64
	Anchor        *anchor.Anchor
	Level         *int
	Text          *string
	Radius        *int
	PaddingX      *int
	PaddingY      *int
	Filled        *bool
}

// Apply returns e with the patch applied.
func (p Patch) Apply(e element.Element) element.Element {
	set(&e.X, p.X)
	set(&e.Y, p.Y)
	set(&e.Width, p.Width)
	set(&e.Height, p.Height)
	set(&e.Anchor, p.Anchor)
	set(&e.Level, p.Level)
	set(&e.Text, p.Text)
	set(&e.Radius, p.Radius)
	set(&e.PaddingX, p.PaddingX)
	set(&e.PaddingY, p.PaddingY)
	if p.Filled != nil {
		e.Filled = element.Bool(*p.Filled)
	}
	return e
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
