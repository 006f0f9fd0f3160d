package widget

import (
	"image/color"
	"log/slog"

	"tinygo.org/x/tinyfont"
)

// Align is the horizontal placement of text inside a control.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

// Definition configures a ValueControl. Start from DefaultDefinition; the
// zero value has no margins and never shortens text.
type Definition struct {
	X, Y  int16
	Width int16
	Font  *tinyfont.Font

	MarginLeft, MarginTop, MarginRight, MarginBottom int16

	Align       Align
	Foreground  color.RGBA
	Background  color.RGBA
	BorderWidth uint8
	BorderColor color.RGBA

	// ShortenToFit drops trailing characters until the text fits the
	// control. UseEllipsis ends shortened text with "...".
	ShortenToFit bool
	UseEllipsis  bool

	// Precision is the number of digits after the decimal point for float
	// values without a FloatFormat.
	Precision uint8
	// IntFormat and FloatFormat are fmt verb strings, such as "%04d" or
	// "%.1f V". Empty means no format.
	IntFormat   string
	FloatFormat string

	// Logger receives render diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// DefaultDefinition returns a definition for a control at x, y that is width
// pixels wide, with 4/2/4/2 margins, white on black text, no border,
// shortening with ellipsis, and two decimal places.
func DefaultDefinition(x, y, width int16, font *tinyfont.Font) Definition {
	return Definition{
		X:            x,
		Y:            y,
		Width:        width,
		Font:         font,
		MarginLeft:   4,
		MarginTop:    2,
		MarginRight:  4,
		MarginBottom: 2,
		Align:        AlignStart,
		Foreground:   White,
		Background:   Black,
		BorderColor:  Black,
		ShortenToFit: true,
		UseEllipsis:  true,
		Precision:    2,
	}
}

// LabelDefinition describes the fixed label half of a LabeledControl.
type LabelDefinition struct {
	Text  string
	Width int16
	Align Align
}
