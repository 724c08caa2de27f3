package element

import (
	"math"
	"testing"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantWidth  float64
		wantHeight float64
		wantText   string
		wantLevel  int
	}{
		{KindText, 100, 50, "Sample Text", 2},
		{KindButton, 100, 50, "Button", 2},
		{KindImage, 200, 200, "/image/path", 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := New(tt.kind, anchor.Middle, 2)
			if e.Width != tt.wantWidth || e.Height != tt.wantHeight {
				t.Errorf("size = %vx%v, want %vx%v", e.Width, e.Height, tt.wantWidth, tt.wantHeight)
			}
			if e.X != DefaultX || e.Y != DefaultY {
				t.Errorf("position = (%v, %v), want (50, 50)", e.X, e.Y)
			}
			if e.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", e.Text, tt.wantText)
			}
			if e.Anchor != anchor.Middle {
				t.Errorf("Anchor = %q, want m", e.Anchor)
			}
			if e.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", e.Level, tt.wantLevel)
			}
		})
	}

	b := New(KindButton, "", 0)
	if b.Radius != 20 || b.PaddingX != 10 || b.PaddingY != 5 || !b.IsFilled() {
		t.Errorf("button defaults = %+v", b)
	}
	if b.Anchor != anchor.TopLeft || b.Level != 1 {
		t.Errorf("button anchor/level = %q/%d, want tl/1", b.Anchor, b.Level)
	}
}

func TestIsFilled(t *testing.T) {
	if !(Element{}).IsFilled() {
		t.Error("unset Filled should be filled")
	}
	if !(Element{Filled: Bool(true)}).IsFilled() {
		t.Error("Filled=true should be filled")
	}
	if (Element{Filled: Bool(false)}).IsFilled() {
		t.Error("Filled=false should be outlined")
	}
}

func TestNormalize(t *testing.T) {
	e := Element{Kind: KindText, Anchor: "weird"}.Normalize()
	if e.Width != 100 || e.Height != 50 {
		t.Errorf("size = %vx%v, want 100x50", e.Width, e.Height)
	}
	if e.Anchor != anchor.TopLeft {
		t.Errorf("Anchor = %q, want tl", e.Anchor)
	}
	if e.Level != 1 {
		t.Errorf("Level = %d, want 1", e.Level)
	}

	img := Element{Kind: KindImage}.Normalize()
	if img.Level != 0 {
		t.Errorf("image Level = %d, want 0", img.Level)
	}

	// Out-of-range values are kept.
	b := Element{Kind: KindButton, Radius: 99, Level: 7}.Normalize()
	if b.Radius != 99 || b.Level != 7 {
		t.Errorf("Normalize changed out-of-range values: %+v", b)
	}
}

func TestClamp(t *testing.T) {
	b := Element{Kind: KindButton, Level: 9, Radius: 50, PaddingX: -3, PaddingY: 80}.Clamp()
	if b.Level != 4 || b.Radius != 35 || b.PaddingX != 0 || b.PaddingY != 50 {
		t.Errorf("Clamp() = %+v", b)
	}

	txt := Element{Kind: KindText, Level: 0, Radius: 50}.Clamp()
	if txt.Level != 1 || txt.Radius != 50 {
		t.Errorf("Clamp() on text = %+v", txt)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		code errors.Code
	}{
		{"valid", New(KindText, anchor.TopLeft, 1), ""},
		{"unknown kind", Element{Kind: "video", Anchor: anchor.TopLeft}, errors.ErrCodeInvalidElement},
		{"unknown anchor", Element{Kind: KindText, Anchor: "zz"}, errors.ErrCodeInvalidAnchor},
		{"nan", Element{Kind: KindText, Anchor: anchor.TopLeft, X: math.NaN()}, errors.ErrCodeInvalidElement},
		{"inf", Element{Kind: KindImage, Anchor: anchor.TopLeft, Height: math.Inf(1)}, errors.ErrCodeInvalidElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.el.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestAnchorPositionRoundTrip(t *testing.T) {
	tr := anchor.Default()
	e := New(KindButton, anchor.BottomRight, 1)
	e.ID = 3

	p := e.AnchorPosition(tr)
	if math.Abs(p.X-176.19) > 0.01 || p.Y != 125 {
		t.Errorf("AnchorPosition() = %v, want (~176.19, 125)", p)
	}

	moved := FromAnchorPosition(e.MoveTo(anchor.DisplayPosition{}), p, tr)
	if math.Abs(moved.X-50) > 1e-9 || math.Abs(moved.Y-50) > 1e-9 {
		t.Errorf("FromAnchorPosition() = (%v, %v), want (50, 50)", moved.X, moved.Y)
	}
	if got := e.String(); got != "button#3" {
		t.Errorf("String() = %q", got)
	}
}

func TestPalette(t *testing.T) {
	if got := WhiteDisplay.Color(1); got != "#000000" {
		t.Errorf("WhiteDisplay.Color(1) = %q", got)
	}
	if got := BlackDisplay.Color(4); got != "#666666" {
		t.Errorf("BlackDisplay.Color(4) = %q", got)
	}
	if got := WhiteDisplay.Color(12); got != "#cccccc" {
		t.Errorf("WhiteDisplay.Color(12) = %q, want clamped level 4", got)
	}
	if p, ok := PaletteByName("black"); !ok || p.Background != "#000000" {
		t.Errorf("PaletteByName(black) = %+v, %v", p, ok)
	}
	if _, ok := PaletteByName("sepia"); ok {
		t.Error("PaletteByName(sepia) should fail")
	}
}
