package editor

import (
	"slices"

	"github.com/matzehuels/einkplacer/pkg/element"
)

// Reduce returns the state that results from applying a to s.
// Actions that reference unknown element IDs leave the state unchanged.
func Reduce(s State, a Action) State {
	if s.NextID < 1 {
		s.NextID = 1
	}

	switch a := a.(type) {
	case Add:
		s = s.clone()
		e := a.Element.Normalize()
		e.ID = s.NextID
		s.NextID++
		s.Elements = append(s.Elements, e)

	case Update:
		i := s.index(a.ID)
		if i < 0 {
			return s
		}
		s = s.clone()
		e := a.Patch.Apply(s.Elements[i]).Normalize().Clamp()
		e.ID = a.ID
		s.Elements[i] = e

	case Move:
		i := s.index(a.ID)
		if i < 0 {
			return s
		}
		s = s.clone()
		s.Elements[i] = s.Elements[i].MoveTo(a.To)

	case Delete:
		i := s.index(a.ID)
		if i < 0 {
			return s
		}
		s.Elements = slices.Delete(slices.Clone(s.Elements), i, i+1)
		if s.Selected == a.ID {
			s.Selected = 0
		}

	case Select:
		if s.index(a.ID) < 0 {
			s.Selected = 0
		} else {
			s.Selected = a.ID
		}

	case Deselect:
		s.Selected = 0

	case Clear:
		s = NewState()

	case Load:
		s = NewState()
		s.Elements = make([]element.Element, len(a.Elements))
		for i, e := range a.Elements {
			e = e.Normalize()
			e.ID = i + 1
			s.Elements[i] = e
		}
		s.NextID = len(a.Elements) + 1
	}
	return s
}
