// Package editor holds the in-memory state of a layout being edited.
//
// The state is a plain value ([State]) changed only through [Reduce], a pure
// function of the current state and an [Action]. [Store] wraps the reducer
// for interactive use: it serialises dispatches, reports them to the
// observability hooks and notifies subscribers after every change.
//
// # Element IDs
//
// IDs come from a counter that only ever increases while elements are
// added and deleted, so an ID is never handed out twice in a session.
// [Clear] and [Load] start a fresh element set and reset the counter.
//
// # Usage
//
//	s := editor.NewStore()
//	btn := s.Add(ctx, element.New(element.KindButton, anchor.BottomRight, 1))
//	s.Dispatch(ctx, editor.Move{ID: btn.ID, To: anchor.DisplayPosition{X: 120, Y: 80}})
//	s.Dispatch(ctx, editor.Update{ID: btn.ID, Patch: editor.Patch{Radius: element.Int(40)}}) // clamped to 35
package editor
