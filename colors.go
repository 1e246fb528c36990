package termcore

import "image/color"

// Color is one of the eight base SGR foreground colors, or Default. Only
// the classic 3-bit ANSI set plus bold is modeled; SGR codes other than
// 0, 1, 30-37 and 39 are logged and dropped by the emulator. Extended
// color sequences (38;5;n, 38;2;r;g;b) are not recognized as a unit:
// each of their parameters is handled as a separate SGR code.
type Color int

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorMagenta:
		return "magenta"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	default:
		return "default"
	}
}

// ParseColor is the inverse of Color.String, used when loading a
// snapshot. Unrecognized strings yield ColorDefault.
func ParseColor(s string) Color {
	switch s {
	case "black":
		return ColorBlack
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "yellow":
		return ColorYellow
	case "blue":
		return ColorBlue
	case "magenta":
		return ColorMagenta
	case "cyan":
		return ColorCyan
	case "white":
		return ColorWhite
	default:
		return ColorDefault
	}
}

// sgrForegroundColors maps an SGR foreground code (30-37) to a Color.
var sgrForegroundColors = map[int]Color{
	30: ColorBlack,
	31: ColorRed,
	32: ColorGreen,
	33: ColorYellow,
	34: ColorBlue,
	35: ColorMagenta,
	36: ColorCyan,
	37: ColorWhite,
}

// DefaultPalette resolves each base Color to an RGBA suitable for
// rendering, matching the classic xterm ANSI color values.
var DefaultPalette = map[Color]color.RGBA{
	ColorBlack:   {0, 0, 0, 255},
	ColorRed:     {205, 49, 49, 255},
	ColorGreen:   {13, 188, 121, 255},
	ColorYellow:  {229, 229, 16, 255},
	ColorBlue:    {36, 114, 200, 255},
	ColorMagenta: {188, 63, 188, 255},
	ColorCyan:    {17, 168, 205, 255},
	ColorWhite:   {229, 229, 229, 255},
}

// DefaultForeground is used to resolve ColorDefault for rendering.
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// ResolveRGBA converts a Color to a concrete RGBA value for rendering.
func (c Color) ResolveRGBA() color.RGBA {
	if c == ColorDefault {
		return DefaultForeground
	}
	return DefaultPalette[c]
}
