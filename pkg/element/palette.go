package element

// Palette maps emphasis levels to colours for one display background.
type Palette struct {
	Name       string
	Background string
	Levels     [MaxLevel]string
}

// White and black panel palettes. Level 1 has the strongest contrast.
var (
	WhiteDisplay = Palette{
		Name:       "white",
		Background: "#ffffff",
		Levels:     [MaxLevel]string{"#000000", "#666666", "#999999", "#cccccc"},
	}
	BlackDisplay = Palette{
		Name:       "black",
		Background: "#000000",
		Levels:     [MaxLevel]string{"#ffffff", "#cccccc", "#999999", "#666666"},
	}
)

// Color returns the ink colour for level. Levels outside 1-4 are clamped.
func (p Palette) Color(level int) string {
	return p.Levels[clamp(level, MinLevel, MaxLevel)-1]
}

// PaletteByName returns the palette called name ("white" or "black").
func PaletteByName(name string) (Palette, bool) {
	switch name {
	case WhiteDisplay.Name:
		return WhiteDisplay, true
	case BlackDisplay.Name:
		return BlackDisplay, true
	}
	return Palette{}, false
}
