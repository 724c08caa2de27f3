package anchor

// Default canvas sizes of the 960×540 panel and its editor view.
const (
	DefaultActualWidth   = 960.0
	DefaultActualHeight  = 540.0
	DefaultDisplayWidth  = DefaultActualWidth - 330  // 630
	DefaultDisplayHeight = DefaultActualHeight - 180 // 360
)

// Default element extents used when a width or height is missing.
const (
	DefaultWidth  = 100.0
	DefaultHeight = 50.0
)

// DisplayPosition is an element's top-left corner on the editor canvas.
type DisplayPosition struct {
	X, Y float64
}

// ActualPosition is the device-space position of an element's anchor point.
type ActualPosition struct {
	X, Y float64
}

// Size is an element's extent. Zero fields mean "unset".
type Size struct {
	Width, Height float64
}

// OrDefault fills a zero or negative width/height with 100/50.
func (s Size) OrDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Dims is the resolution of a canvas.
type Dims struct {
	Width, Height float64
}

func (d Dims) valid() bool { return d.Width > 0 && d.Height > 0 }

// Scale holds the display→actual resize factors.
type Scale struct {
	X, Y float64
}

// Unit is the 1:1 scale of legacy canvases.
var Unit = Scale{X: 1, Y: 1}

// Transform converts positions between display and actual space.
// The zero value is not usable; build one with [New], [NewScaled],
// [Default] or [Legacy]. Transforms are immutable values and safe to share.
type Transform struct {
	display       Dims
	actual        Dims
	scaledOffsets bool
}

// Option configures a Transform.
type Option func(*Transform)

// WithScaledOffsets resizes anchor offsets into device units along with the
// position, i.e. the anchor point is computed on the canvas and then scaled.
func WithScaledOffsets() Option {
	return func(t *Transform) { t.scaledOffsets = true }
}

// New builds a transform between a display canvas and a device canvas.
// An invalid actual size falls back to 960×540; an invalid display size
// falls back to the actual size (no scaling).
func New(display, actual Dims, opts ...Option) Transform {
	if !actual.valid() {
		actual = Dims{Width: DefaultActualWidth, Height: DefaultActualHeight}
	}
	if !display.valid() {
		display = actual
	}
	t := Transform{display: display, actual: actual}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewScaled builds a transform from a device canvas and the display→actual
// scale. Non-positive factors are treated as 1, so the zero Scale yields the
// legacy unscaled behaviour.
func NewScaled(s Scale, actual Dims, opts ...Option) Transform {
	if s.X <= 0 {
		s.X = 1
	}
	if s.Y <= 0 {
		s.Y = 1
	}
	if !actual.valid() {
		actual = Dims{Width: DefaultActualWidth, Height: DefaultActualHeight}
	}
	display := Dims{Width: actual.Width / s.X, Height: actual.Height / s.Y}
	return New(display, actual, opts...)
}

// Default returns the 630×360 → 960×540 transform used by the editor.
func Default() Transform {
	return New(
		Dims{Width: DefaultDisplayWidth, Height: DefaultDisplayHeight},
		Dims{Width: DefaultActualWidth, Height: DefaultActualHeight},
	)
}

// Legacy returns an unscaled transform for a canvas drawn at device size.
func Legacy(canvas Dims) Transform {
	return NewScaled(Unit, canvas)
}

// Display returns the display canvas size.
func (t Transform) Display() Dims { return t.display }

// Actual returns the device canvas size.
func (t Transform) Actual() Dims { return t.actual }

// Scale returns the display→actual factors AW/DW and AH/DH.
func (t Transform) Scale() Scale {
	return Scale{X: t.actual.Width / t.display.Width, Y: t.actual.Height / t.display.Height}
}

// ScaledOffsets reports whether anchor offsets are resized with positions.
func (t Transform) ScaledOffsets() bool { return t.scaledOffsets }

func (t Transform) toActualX(x float64) float64  { return x * t.actual.Width / t.display.Width }
func (t Transform) toActualY(y float64) float64  { return y * t.actual.Height / t.display.Height }
func (t Transform) toDisplayX(x float64) float64 { return x * t.display.Width / t.actual.Width }
func (t Transform) toDisplayY(y float64) float64 { return y * t.display.Height / t.actual.Height }

// ToAnchorSpace converts an element's display-space top-left corner into the
// device-space position of its anchor point.
//
// The top-left corner is resized into device units and the anchor offset is
// added with width and height as given. Unknown anchors behave like TopLeft.
func (t Transform) ToAnchorSpace(p DisplayPosition, s Size, a Anchor) ActualPosition {
	dx, dy := a.Offset(s)
	if t.scaledOffsets {
		return ActualPosition{X: t.toActualX(p.X + dx), Y: t.toActualY(p.Y + dy)}
	}
	return ActualPosition{X: t.toActualX(p.X) + dx, Y: t.toActualY(p.Y) + dy}
}

// ToDisplaySpace converts a device-space anchor position back into the
// display-space top-left corner. It is the inverse of [Transform.ToAnchorSpace]
// for the same size and anchor.
func (t Transform) ToDisplaySpace(p ActualPosition, s Size, a Anchor) DisplayPosition {
	dx, dy := a.Offset(s)
	if t.scaledOffsets {
		return DisplayPosition{X: t.toDisplayX(p.X) - dx, Y: t.toDisplayY(p.Y) - dy}
	}
	return DisplayPosition{X: t.toDisplayX(p.X - dx), Y: t.toDisplayY(p.Y - dy)}
}
