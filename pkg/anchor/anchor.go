package anchor

import "strings"

// Anchor names the point of an element's bounding box that a device-space
// position refers to. The zero value is not a valid anchor and is treated
// as [TopLeft].
type Anchor string

// The seven anchors understood by the display firmware.
const (
	TopLeft      Anchor = "tl"
	TopMiddle    Anchor = "tm"
	TopRight     Anchor = "tr"
	BottomLeft   Anchor = "bl"
	BottomMiddle Anchor = "bm"
	BottomRight  Anchor = "br"
	Middle       Anchor = "m"
)

// All lists the anchors in the order editors present them.
var All = []Anchor{TopLeft, TopMiddle, TopRight, BottomLeft, BottomMiddle, BottomRight, Middle}

var labels = map[Anchor]string{
	TopLeft:      "Top Left",
	TopMiddle:    "Top Middle",
	TopRight:     "Top Right",
	BottomLeft:   "Bottom Left",
	BottomMiddle: "Bottom Middle",
	BottomRight:  "Bottom Right",
	Middle:       "Middle",
}

var aliases = map[string]Anchor{
	"top-left":      TopLeft,
	"top-middle":    TopMiddle,
	"top-center":    TopMiddle,
	"top-right":     TopRight,
	"bottom-left":   BottomLeft,
	"bottom-middle": BottomMiddle,
	"bottom-center": BottomMiddle,
	"bottom-right":  BottomRight,
	"middle":        Middle,
	"center":        Middle,
}

// ParseAnchor resolves a short code ("br") or long name ("bottom-right",
// "Bottom Right") to an Anchor. Unknown input yields TopLeft and ok=false.
func ParseAnchor(s string) (a Anchor, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, known := labels[Anchor(s)]; known {
		return Anchor(s), true
	}
	if a, known := aliases[strings.ReplaceAll(s, " ", "-")]; known {
		return a, true
	}
	return TopLeft, false
}

// Valid reports whether a is one of the seven defined anchors.
func (a Anchor) Valid() bool {
	_, ok := labels[a]
	return ok
}

// Or returns a when valid and fallback otherwise.
func (a Anchor) Or(fallback Anchor) Anchor {
	if a.Valid() {
		return a
	}
	return fallback
}

// String returns the short code.
func (a Anchor) String() string { return string(a) }

// Label returns the human-readable name, e.g. "Bottom Middle".
// Unknown anchors are labelled as top-left, matching how they are placed.
func (a Anchor) Label() string {
	if l, ok := labels[a]; ok {
		return l
	}
	return labels[TopLeft]
}

// Next returns the anchor after a in [All], wrapping around.
func (a Anchor) Next() Anchor {
	for i, v := range All {
		if v == a {
			return All[(i+1)%len(All)]
		}
	}
	return TopLeft
}

// Offset returns the distance from an element's top-left corner to its
// anchor point for an element of the given size. Unknown anchors have no
// offset. The size is taken with defaults applied (see [Size.OrDefault]).
func (a Anchor) Offset(s Size) (dx, dy float64) {
	s = s.OrDefault()
	switch a {
	case TopMiddle:
		return s.Width / 2, 0
	case TopRight:
		return s.Width, 0
	case BottomLeft:
		return 0, s.Height
	case BottomMiddle:
		return s.Width / 2, s.Height
	case BottomRight:
		return s.Width, s.Height
	case Middle:
		return s.Width / 2, s.Height / 2
	default:
		return 0, 0
	}
}
