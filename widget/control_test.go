package widget

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfont"
)

var (
	red  = color.RGBA{R: 0xFF, A: 0xFF}
	blue = color.RGBA{B: 0xFF, A: 0xFF}
)

func newTestControl(t *testing.T, edit func(*Definition)) (*ValueControl, *fakeSurface) {
	t.Helper()
	def := DefaultDefinition(10, 20, 100, &testFont)
	if edit != nil {
		edit(&def)
	}
	surface := &fakeSurface{}
	return NewValueControl(surface, def), surface
}

// rendered renders c and returns the text it printed.
func rendered(t *testing.T, c *ValueControl, s *fakeSurface) string {
	t.Helper()
	require.NoError(t, c.Render())
	return s.lastText()
}

func TestFontMetrics(t *testing.T) {
	ascent, descent := fontMetrics(&testFont)
	assert.Equal(t, int16(10), ascent)
	assert.Equal(t, int16(4), descent)

	ascent, descent = fontMetrics(nil)
	assert.Zero(t, ascent)
	assert.Zero(t, descent)
}

func TestNewValueControl_Geometry(t *testing.T) {
	c, _ := newTestControl(t, nil)
	assert.Equal(t, int16(18), c.Height())
	assert.Equal(t, Rect{X: 10, Y: 20, W: 100, H: 18}, c.Bounds())
	assert.Equal(t, Rect{X: 14, Y: 22, W: 92, H: 14}, c.TextBounds())

	bordered, _ := newTestControl(t, func(d *Definition) { d.BorderWidth = 2 })
	assert.Equal(t, int16(22), bordered.Height())
	assert.Equal(t, Rect{X: 16, Y: 24, W: 88, H: 14}, bordered.TextBounds())
	assert.True(t, bordered.Bounds().Contains(bordered.TextBounds()))

	narrow, _ := newTestControl(t, func(d *Definition) { d.Width = 6 })
	assert.Equal(t, int16(0), narrow.TextBounds().W)
	assert.True(t, narrow.Bounds().Contains(narrow.TextBounds()))
}

func TestNewValueControl_StartsEmptyAndDirty(t *testing.T) {
	c, _ := newTestControl(t, nil)
	assert.True(t, c.Dirty())
	assert.Equal(t, KindNone, c.Value().Kind())
	assert.Equal(t, "", c.Text())
}

func TestRender_OnlyWhenDirty(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetText("on")

	require.NoError(t, c.Render())
	assert.False(t, c.Dirty())
	require.Len(t, s.pushes, 1)
	assert.Equal(t, int16(10), s.pushes[0].x)
	assert.Equal(t, int16(20), s.pushes[0].y)
	assert.Equal(t, 1, s.released)

	require.NoError(t, c.Render())
	assert.Len(t, s.pushes, 1, "clean control must not redraw")
}

func TestRender_PaintsWholeCanvas(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) {
		d.Foreground = red
		d.Background = blue
	})
	c.SetText("Ag")
	require.NoError(t, c.Render())

	canvas := s.last()
	assert.Equal(t, int16(100), canvas.w)
	assert.Equal(t, int16(18), canvas.h)
	require.Len(t, canvas.fills, 1)
	assert.Equal(t, rectOp{Rect{0, 0, 100, 18}, blue}, canvas.fills[0])
	assert.Equal(t, tinyfont.Fonter(&testFont), canvas.font)
	assert.Equal(t, red, canvas.fg)
	assert.Equal(t, []string{"Ag"}, canvas.printed)
	assert.Equal(t, int16(4), canvas.printAt[0].x)
	assert.Equal(t, int16(12), canvas.printAt[0].y, "baseline is inner top plus ascent")
	assert.Empty(t, canvas.outline)
}

func TestRender_PushFailureKeepsDirty(t *testing.T) {
	c, s := newTestControl(t, nil)
	s.pushErr = errBusFault

	err := c.Render()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus fault")
	assert.True(t, c.Dirty())
	assert.Equal(t, 1, s.released)

	s.pushErr = nil
	require.NoError(t, c.Render())
	assert.False(t, c.Dirty())
}

func TestSetters_IdenticalValueStaysClean(t *testing.T) {
	steps := []struct {
		name string
		set  func(*ValueControl)
	}{
		{"text", func(c *ValueControl) { c.SetText("idle") }},
		{"int", func(c *ValueControl) { c.SetInt(-3) }},
		{"uint", func(c *ValueControl) { c.SetUint(3) }},
		{"float", func(c *ValueControl) { c.SetFloat(2.75) }},
		{"value", func(c *ValueControl) { c.SetValue(IntValue(9)) }},
	}
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			c, _ := newTestControl(t, nil)
			step.set(c)
			require.NoError(t, c.Render())
			for i := 0; i < 5; i++ {
				step.set(c)
				assert.False(t, c.Dirty())
			}
		})
	}
}

func TestSetters_IdenticalFormattedValueStaysClean(t *testing.T) {
	c, _ := newTestControl(t, func(d *Definition) {
		d.IntFormat = "%03d"
		d.FloatFormat = "%.1f"
	})
	c.SetInt(12)
	require.NoError(t, c.Render())
	c.SetInt(12)
	assert.False(t, c.Dirty())

	c.SetFloat(1.25)
	require.NoError(t, c.Render())
	c.SetFloat(1.25)
	assert.False(t, c.Dirty())
}

func TestSetters_ChangeMarksDirty(t *testing.T) {
	c, _ := newTestControl(t, nil)
	c.SetInt(5)
	require.NoError(t, c.Render())

	c.SetUint(5)
	assert.True(t, c.Dirty(), "signedness is part of the value")
	require.NoError(t, c.Render())

	c.SetFloat(5)
	assert.True(t, c.Dirty(), "kind changed")
	require.NoError(t, c.Render())

	c.SetText("5")
	assert.True(t, c.Dirty(), "kind changed")
	require.NoError(t, c.Render())

	c.SetText("6")
	assert.True(t, c.Dirty())
}

func TestClear_KeepsStyle(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) { d.BorderWidth = 1 })
	c.SetInt(10)
	c.SetAlign(AlignEnd)
	require.NoError(t, c.Render())

	c.Clear()
	assert.True(t, c.Dirty())
	assert.Equal(t, KindNone, c.Value().Kind())
	assert.Equal(t, AlignEnd, c.Align())
	assert.Equal(t, uint8(1), c.BorderWidth())
	assert.Equal(t, "", rendered(t, c, s))

	c.SetValue(Value{})
	assert.False(t, c.Dirty(), "already empty")
}

func TestIntFormat(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetIntFormat("%04d")
	c.SetInt(7)

	assert.Equal(t, KindText, c.Value().Kind())
	assert.Equal(t, "0007", rendered(t, c, s))

	c.SetUint(42)
	assert.Equal(t, "0042", rendered(t, c, s))
}

func TestIntFormat_ConvertsHeldInteger(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetInt(-5)
	require.NoError(t, c.Render())

	c.SetIntFormat("[%d]")
	assert.True(t, c.Dirty())
	text, ok := c.Value().Text()
	require.True(t, ok)
	assert.Equal(t, "[-5]", text)

	c.SetIntFormat("")
	assert.Equal(t, KindText, c.Value().Kind(), "conversion is one way")
	assert.Equal(t, "[-5]", rendered(t, c, s))

	c.SetInt(8)
	assert.Equal(t, KindInt, c.Value().Kind())
	assert.Equal(t, "8", rendered(t, c, s))
}

func TestIntFormat_DirtyOnlyOnChange(t *testing.T) {
	c, _ := newTestControl(t, nil)
	require.NoError(t, c.Render())

	c.SetIntFormat("")
	assert.False(t, c.Dirty(), "clearing an unset format")

	c.SetIntFormat("%d")
	assert.True(t, c.Dirty())
	require.NoError(t, c.Render())

	c.SetIntFormat("%d")
	assert.False(t, c.Dirty())

	c.SetIntFormat("")
	assert.True(t, c.Dirty())
	assert.Equal(t, "", c.IntFormat())
}

func TestFloatFormat(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetFloat(3.14159)
	assert.Equal(t, "3.14", rendered(t, c, s))

	c.SetFloatFormat("%.3f V")
	assert.Equal(t, KindText, c.Value().Kind())
	assert.Equal(t, "3.142 V", rendered(t, c, s))

	c.SetFloatFormat("")
	c.SetFloat(3.14159)
	assert.Equal(t, KindFloat, c.Value().Kind())
	assert.Equal(t, "3.14", rendered(t, c, s))
	assert.Equal(t, "", c.FloatFormat())
}

func TestFloatFormat_Precision(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) { d.Precision = 0 })
	c.SetFloat(9.6)
	assert.Equal(t, "10", rendered(t, c, s))
}

func TestRender_UnsignedInteger(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetUint(4000000000)
	assert.Equal(t, "4000000000", rendered(t, c, s))
}

func TestShorten_EllipsisDoesNotFit(t *testing.T) {
	// 20 wide leaves 12 pixels inside the margins; "..." needs 18.
	c, s := newTestControl(t, func(d *Definition) { d.Width = 20 })
	c.SetText("hello")
	assert.Equal(t, "", rendered(t, c, s))

	c.SetText("hi")
	assert.Equal(t, "hi", rendered(t, c, s), "fitting text is left alone")
}

func TestShorten_WithEllipsis(t *testing.T) {
	c, s := newTestControl(t, nil)
	c.SetText("abcdefghijklmnopqrst")
	assert.Equal(t, "abcdefghijkl...", rendered(t, c, s))

	c.SetText("abcdefghijklmnop...")
	assert.Equal(t, "abcdefghijkl...", rendered(t, c, s))

	c.SetText("exactly fifteen")
	assert.Equal(t, "exactly fifteen", rendered(t, c, s))
}

func TestShorten_WithoutEllipsis(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) { d.UseEllipsis = false })
	c.SetText("abcdefghijklmnopqrst")

	got := rendered(t, c, s)
	assert.Equal(t, "abcdefghijklmno", got)
	assert.LessOrEqual(t, int16(len(got)*glyphWidth), c.TextBounds().W)
	assert.Greater(t, int16((len(got)+1)*glyphWidth), c.TextBounds().W)
}

func TestShorten_Disabled(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) {
		d.ShortenToFit = false
		d.Align = AlignEnd
	})
	long := "abcdefghijklmnopqrstuvwxyz"
	c.SetText(long)
	assert.Equal(t, long, rendered(t, c, s))
	assert.Equal(t, int16(4), s.last().printAt[0].x, "overflowing text starts at the inner edge")
}

func TestShorten_MultibyteRunes(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) { d.UseEllipsis = false })
	c.SetText("°°°°°°°°°°°°°°°°°°°°")
	assert.Equal(t, "°°°°°°°°°°°°°°°", rendered(t, c, s))
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		align Align
		text  string
		wantX int16
	}{
		{AlignStart, "abcd", 4},
		{AlignCenter, "abcd", 4 + (92-24)/2},
		{AlignCenter, "abc", 4 + 37},
		{AlignEnd, "abcd", 4 + 92 - 24},
		{AlignEnd, "", 4 + 92},
	}
	for _, tt := range tests {
		c, s := newTestControl(t, func(d *Definition) { d.Align = tt.align })
		c.SetText(tt.text)
		require.NoError(t, c.Render())
		assert.Equal(t, tt.wantX, s.last().printAt[0].x, "align %d text %q", tt.align, tt.text)
	}
}

func TestRender_BorderDrawnLastAndInset(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) {
		d.BorderWidth = 3
		d.BorderColor = red
	})
	c.SetText("x")
	require.NoError(t, c.Render())

	canvas := s.last()
	assert.Equal(t, []rectOp{
		{Rect{0, 0, 100, 24}, red},
		{Rect{1, 1, 98, 22}, red},
		{Rect{2, 2, 96, 20}, red},
	}, canvas.outline)
}

func TestRender_BorderStopsWhenNoRoomLeft(t *testing.T) {
	c, s := newTestControl(t, func(d *Definition) {
		d.Width = 3
		d.BorderWidth = 4
	})
	require.NoError(t, c.Render())
	assert.Equal(t, []rectOp{
		{Rect{0, 0, 3, 26}, Black},
		{Rect{1, 1, 1, 24}, Black},
	}, s.last().outline)
}

func TestStyleSetters(t *testing.T) {
	c, _ := newTestControl(t, nil)
	require.NoError(t, c.Render())

	assert.Equal(t, uint8(0), c.SetBorderWidth(0))
	assert.False(t, c.Dirty())
	assert.Equal(t, uint8(0), c.SetBorderWidth(2))
	assert.True(t, c.Dirty())
	assert.Equal(t, uint8(2), c.BorderWidth())
	require.NoError(t, c.Render())

	assert.Equal(t, Black, c.SetBorderColor(Black))
	assert.False(t, c.Dirty())
	assert.Equal(t, Black, c.SetBorderColor(red))
	assert.True(t, c.Dirty())
	assert.Equal(t, red, c.BorderColor())
	require.NoError(t, c.Render())

	assert.Equal(t, AlignStart, c.SetAlign(AlignStart))
	assert.False(t, c.Dirty())
	assert.Equal(t, AlignStart, c.SetAlign(AlignCenter))
	assert.True(t, c.Dirty())
	require.NoError(t, c.Render())

	other := tinyfont.Font{YAdvance: 8}
	assert.Same(t, &testFont, c.SetFont(&testFont))
	assert.False(t, c.Dirty())
	assert.Same(t, &testFont, c.SetFont(nil))
	assert.False(t, c.Dirty(), "nil font is ignored")
	assert.Same(t, &testFont, c.SetFont(&other))
	assert.True(t, c.Dirty())
	assert.Same(t, &other, c.Font())
	assert.Equal(t, int16(18), c.Height(), "geometry is fixed at construction")
}
