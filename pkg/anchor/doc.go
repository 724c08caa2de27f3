// Package anchor converts element positions between the editor's display
// space and the device's actual space.
//
// # Coordinate Spaces
//
// The editor canvas ("display space") is a scaled-down copy of the e-ink
// panel. Positions in display space always refer to an element's top-left
// corner, which is what drag-and-drop naturally produces.
//
// The device ("actual space") works at full resolution, and a stored
// position refers to a named point on the element's bounding box: its
// [Anchor]. A right-aligned label anchored at [BottomRight] keeps its
// right edge fixed when its text grows.
//
// # Transform
//
// A [Transform] holds both canvas sizes and converts in either direction:
//
//	t := anchor.Default() // 630×360 display, 960×540 device
//	actual := t.ToAnchorSpace(anchor.DisplayPosition{X: 50, Y: 50}, anchor.Size{Width: 100, Height: 50}, anchor.BottomRight)
//	back := t.ToDisplaySpace(actual, anchor.Size{Width: 100, Height: 50}, anchor.BottomRight)
//	// back == {50, 50}
//
// Anchor offsets are applied with the element's width and height exactly as
// given, without scaling them into device units. Layouts already stored on
// devices depend on that, so it is the default. [WithScaledOffsets] scales
// the offsets instead; both variants are exact inverses of themselves.
//
// Unknown anchors behave like [TopLeft] in both directions, and a zero width
// or height falls back to 100×50 before any offset is computed.
//
// # Legacy Canvases
//
// Older editors drew the canvas at device resolution. [NewScaled] with a
// scale of {1, 1} (or [Legacy]) reproduces that: positions are not resized
// and anchor offsets are applied 1:1.
package anchor
