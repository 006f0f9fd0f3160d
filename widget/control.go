// Package widget draws labeled values on a TFT panel without flicker and
// without ever touching pixels outside a control's rectangle.
//
// Typical use builds the controls once at startup, feeds them new values
// from the main loop and calls Render on every refresh:
//
//	def := widget.DefaultDefinition(0, 0, 240, &freesans.Regular9pt7b)
//	volts := widget.NewLabeledControl(surface,
//		widget.LabelDefinition{Text: "Volts", Width: 80}, def)
//
//	for {
//		volts.SetFloat(readVoltage())
//		volts.Render() // no-op unless the value changed
//	}
package widget

import (
	"errors"
	"image/color"
	"io"
	"log/slog"

	"github.com/harveysanders/tftwidgets/tft"
	"tinygo.org/x/tinyfont"
)

const ellipsis = "..."

// ValueControl shows one value inside a fixed rectangle.
//
// Setters only record state; Render does the drawing, and only when
// something visible changed since the last successful render.
type ValueControl struct {
	surface tft.Surface
	logger  *slog.Logger

	outer Rect // position and extent on screen
	inner Rect // where the text goes, inside margins and border

	font         *tinyfont.Font
	ascent       int16
	align        Align
	fg, bg       color.RGBA
	borderWidth  uint8
	borderColor  color.RGBA
	shortenToFit bool
	useEllipsis  bool
	precision    uint8
	intFormat    string
	floatFormat  string

	value Value
	dirty bool
}

// NewValueControl builds a control from def. Its height is derived from the
// font's ascent and descent plus the vertical margins and the border.
func NewValueControl(surface tft.Surface, def Definition) *ValueControl {
	ascent, descent := fontMetrics(def.Font)
	border := int16(def.BorderWidth)
	outer := Rect{
		X: def.X,
		Y: def.Y,
		W: max(def.Width, 0),
		H: ascent + descent + def.MarginTop + def.MarginBottom + border*2,
	}

	logger := def.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	c := &ValueControl{
		surface:      surface,
		logger:       logger,
		outer:        outer,
		inner:        outer.Shrink(def.MarginLeft+border, def.MarginTop+border, def.MarginRight+border, def.MarginBottom+border),
		font:         def.Font,
		ascent:       ascent,
		align:        def.Align,
		fg:           def.Foreground,
		bg:           def.Background,
		borderWidth:  def.BorderWidth,
		borderColor:  def.BorderColor,
		shortenToFit: def.ShortenToFit,
		useEllipsis:  def.UseEllipsis,
		precision:    def.Precision,
		intFormat:    def.IntFormat,
		floatFormat:  def.FloatFormat,
	}
	c.Clear()
	return c
}

// Clear drops the current value. Styling is left alone.
func (c *ValueControl) Clear() {
	c.value = Value{}
	c.dirty = true
}

// Height returns the control's height, fixed at construction.
func (c *ValueControl) Height() int16 { return c.outer.H }

// Bounds returns the control's rectangle on screen.
func (c *ValueControl) Bounds() Rect { return c.outer }

// TextBounds returns the rectangle the value text is drawn into.
func (c *ValueControl) TextBounds() Rect { return c.inner }

// Dirty reports whether the next Render will redraw.
func (c *ValueControl) Dirty() bool { return c.dirty }

// Value returns the current value.
func (c *ValueControl) Value() Value { return c.value }

// Text returns the string the next Render starts from, before shortening.
func (c *ValueControl) Text() string { return c.value.Format(c.precision) }

func (c *ValueControl) store(v Value) {
	if v != c.value {
		c.dirty = true
	}
	c.value = v
}

// SetText stores s as a text value.
func (c *ValueControl) SetText(s string) {
	c.store(TextValue(s))
}

// SetInt stores v as an integer, or as formatted text when an integer format
// is set.
func (c *ValueControl) SetInt(v int32) {
	c.setInteger(IntValue(v))
}

// SetUint stores v as an unsigned integer, or as formatted text when an
// integer format is set.
func (c *ValueControl) SetUint(v uint32) {
	c.setInteger(UintValue(v))
}

func (c *ValueControl) setInteger(v Value) {
	if c.intFormat != "" {
		v = v.formatted(c.intFormat)
	}
	c.store(v)
}

// SetFloat stores v as a float, or as formatted text when a float format is
// set.
func (c *ValueControl) SetFloat(v float64) {
	val := FloatValue(v)
	if c.floatFormat != "" {
		val = val.formatted(c.floatFormat)
	}
	c.store(val)
}

// SetValue stores any Value through the setter matching its kind. KindNone
// clears the control.
func (c *ValueControl) SetValue(v Value) {
	switch v.kind {
	case KindText:
		c.store(v)
	case KindInt:
		c.setInteger(v)
	case KindFloat:
		c.SetFloat(v.float)
	default:
		if c.value.kind != KindNone {
			c.Clear()
		}
	}
}

// SetIntFormat sets the fmt verb string used for integers. An integer
// currently held is converted to formatted text right away, and stays text.
// An empty format removes the format.
func (c *ValueControl) SetIntFormat(format string) {
	if format != c.intFormat {
		c.dirty = true
	}
	c.intFormat = format
	if format != "" && c.value.kind == KindInt {
		c.value = c.value.formatted(format)
		c.dirty = true
	}
}

// IntFormat returns the integer format, empty when none is set.
func (c *ValueControl) IntFormat() string { return c.intFormat }

// SetFloatFormat sets the fmt verb string used for floats. A float currently
// held is converted to formatted text right away, and stays text. An empty
// format removes the format.
func (c *ValueControl) SetFloatFormat(format string) {
	if format != c.floatFormat {
		c.dirty = true
	}
	c.floatFormat = format
	if format != "" && c.value.kind == KindFloat {
		c.value = c.value.formatted(format)
		c.dirty = true
	}
}

// FloatFormat returns the float format, empty when none is set.
func (c *ValueControl) FloatFormat() string { return c.floatFormat }

// SetBorderWidth returns the old width. The control's size does not change;
// a wider border simply covers more of the margin.
func (c *ValueControl) SetBorderWidth(width uint8) uint8 {
	old := c.borderWidth
	if width != old {
		c.borderWidth = width
		c.dirty = true
	}
	return old
}

func (c *ValueControl) BorderWidth() uint8 { return c.borderWidth }

// SetBorderColor returns the old color.
func (c *ValueControl) SetBorderColor(col color.RGBA) color.RGBA {
	old := c.borderColor
	if col != old {
		c.borderColor = col
		c.dirty = true
	}
	return old
}

func (c *ValueControl) BorderColor() color.RGBA { return c.borderColor }

// SetFont returns the old font. A nil font is ignored. The baseline stays
// where the construction font put it.
func (c *ValueControl) SetFont(f *tinyfont.Font) *tinyfont.Font {
	old := c.font
	if f != nil && f != old {
		c.font = f
		c.dirty = true
	}
	return old
}

func (c *ValueControl) Font() *tinyfont.Font { return c.font }

// SetAlign returns the old alignment.
func (c *ValueControl) SetAlign(a Align) Align {
	old := c.align
	if a != old {
		c.align = a
		c.dirty = true
	}
	return old
}

func (c *ValueControl) Align() Align { return c.align }

// Render redraws the control if anything changed since the last render.
//
// The whole control is painted into an off-screen canvas (background, text,
// then border on top so it hides any overflow) and pushed to the screen in a
// single transfer. If the push fails the control stays dirty and the next
// Render tries again.
func (c *ValueControl) Render() error {
	if !c.dirty {
		return nil
	}
	canvas := c.surface.NewCanvas(c.outer.W, c.outer.H)
	defer c.surface.Release(canvas)

	area := Rect{W: c.outer.W, H: c.outer.H}
	canvas.FillRect(area.X, area.Y, area.W, area.H, c.bg)
	if c.font != nil {
		canvas.SetFont(c.font)
	}
	canvas.SetTextColor(c.fg)

	text := c.Text()
	if c.shortenToFit {
		text = c.shorten(canvas, text)
	}

	x := c.inner.X - c.outer.X + c.alignOffset(canvas.TextWidth(text))
	canvas.SetCursor(x, c.inner.Y-c.outer.Y+c.ascent)
	canvas.Print(text)

	for i := uint8(0); i < c.borderWidth; i++ {
		canvas.DrawRect(area.X, area.Y, area.W, area.H, c.borderColor)
		var ok bool
		if area, ok = area.Inset(1); !ok {
			break
		}
	}

	err := c.surface.Push(canvas, c.outer.X, c.outer.Y)
	if err != nil {
		c.logger.Error("widget:push-failed",
			slog.Int("x", int(c.outer.X)),
			slog.Int("y", int(c.outer.Y)),
			slog.String("err", err.Error()),
		)
		return errors.New("render control:" + err.Error())
	}
	c.dirty = false
	return nil
}

// shorten trims text from the end until it fits the inner width. With the
// ellipsis on, a trailing "..." is collapsed together with the character in
// front of it before a fresh "..." is appended. When even "..." is too wide
// nothing is shown.
func (c *ValueControl) shorten(canvas tft.Canvas, text string) string {
	limit := c.inner.W
	if canvas.TextWidth(text) <= limit {
		return text
	}
	if c.useEllipsis && canvas.TextWidth(ellipsis) > limit {
		return ""
	}
	original := text
	runes := []rune(text)
	dots := []rune(ellipsis)
	for len(runes) > 0 && canvas.TextWidth(string(runes)) > limit {
		if !c.useEllipsis {
			runes = runes[:len(runes)-1]
			continue
		}
		if len(runes) > len(dots) && hasSuffix(runes, dots) {
			runes = runes[:len(runes)-len(dots)-1]
		} else {
			runes = runes[:len(runes)-1]
		}
		runes = append(runes, dots...)
	}
	text = string(runes)
	c.logger.Debug("widget:shortened",
		slog.String("from", original),
		slog.String("to", text),
		slog.Int("limit", int(limit)),
	)
	return text
}

func hasSuffix(s, suffix []rune) bool {
	if len(suffix) > len(s) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

// alignOffset places text of the given width within the inner rectangle.
// Text wider than the rectangle starts at its left edge.
func (c *ValueControl) alignOffset(width int16) int16 {
	room := c.inner.W - width
	if room <= 0 {
		return 0
	}
	switch c.align {
	case AlignCenter:
		return room / 2
	case AlignEnd:
		return room
	}
	return 0
}
