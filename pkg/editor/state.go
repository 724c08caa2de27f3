package editor

import (
	"slices"

	"github.com/matzehuels/einkplacer/pkg/element"
)

// State is a snapshot of the editor. Treat it as immutable: reducers return
// new states and never modify the Elements slice they were given.
type State struct {
	Elements []element.Element // in insertion (and drawing) order
	Selected int               // ID of the selected element, 0 for none
	NextID   int               // ID the next added element receives
}

// NewState returns an empty editor state.
func NewState() State {
	return State{NextID: 1}
}

// Find returns the element with the given ID.
func (s State) Find(id int) (element.Element, bool) {
	if i := s.index(id); i >= 0 {
		return s.Elements[i], true
	}
	return element.Element{}, false
}

// SelectedElement returns the selected element, if any.
func (s State) SelectedElement() (element.Element, bool) {
	if s.Selected == 0 {
		return element.Element{}, false
	}
	return s.Find(s.Selected)
}

// Len returns the number of elements.
func (s State) Len() int { return len(s.Elements) }

func (s State) index(id int) int {
	return slices.IndexFunc(s.Elements, func(e element.Element) bool { return e.ID == id })
}

// clone returns s with a private copy of the element slice.
func (s State) clone() State {
	s.Elements = slices.Clone(s.Elements)
	return s
}
