package widget

import (
	"errors"
	"image/color"
	"unicode/utf8"

	"github.com/harveysanders/tftwidgets/tft"
	"tinygo.org/x/tinyfont"
)

// glyphWidth is the advance of every character on a fakeCanvas.
const glyphWidth = 6

type rectOp struct {
	Rect
	c color.RGBA
}

type fakeCanvas struct {
	w, h    int16
	fills   []rectOp
	outline []rectOp
	font    tinyfont.Fonter
	fg      color.RGBA
	cursor  struct{ x, y int16 }
	printed []string
	printAt []struct{ x, y int16 }
}

func (f *fakeCanvas) FillRect(x, y, w, h int16, c color.RGBA) {
	f.fills = append(f.fills, rectOp{Rect{x, y, w, h}, c})
}

func (f *fakeCanvas) DrawRect(x, y, w, h int16, c color.RGBA) {
	f.outline = append(f.outline, rectOp{Rect{x, y, w, h}, c})
}

func (f *fakeCanvas) SetFont(font tinyfont.Fonter) { f.font = font }
func (f *fakeCanvas) SetTextColor(c color.RGBA)    { f.fg = c }

func (f *fakeCanvas) TextWidth(s string) int16 {
	return int16(utf8.RuneCountInString(s) * glyphWidth)
}

func (f *fakeCanvas) SetCursor(x, y int16) { f.cursor.x, f.cursor.y = x, y }

func (f *fakeCanvas) Print(s string) {
	f.printed = append(f.printed, s)
	f.printAt = append(f.printAt, f.cursor)
	f.cursor.x += f.TextWidth(s)
}

type push struct {
	canvas *fakeCanvas
	x, y   int16
}

type fakeSurface struct {
	pushes   []push
	released int
	pushErr  error
}

func (s *fakeSurface) NewCanvas(w, h int16) tft.Canvas {
	return &fakeCanvas{w: w, h: h}
}

func (s *fakeSurface) Push(c tft.Canvas, x, y int16) error {
	if s.pushErr != nil {
		return s.pushErr
	}
	s.pushes = append(s.pushes, push{canvas: c.(*fakeCanvas), x: x, y: y})
	return nil
}

func (s *fakeSurface) Release(c tft.Canvas) { s.released++ }

// last returns the canvas of the most recent successful push.
func (s *fakeSurface) last() *fakeCanvas {
	if len(s.pushes) == 0 {
		return nil
	}
	return s.pushes[len(s.pushes)-1].canvas
}

// lastText returns the single string printed by the most recent render.
func (s *fakeSurface) lastText() string {
	c := s.last()
	if c == nil || len(c.printed) == 0 {
		return ""
	}
	return c.printed[0]
}

var errBusFault = errors.New("bus fault")

// testFont has an ascent of 10 and a descent of 4.
var testFont = tinyfont.Font{
	Glyphs: []tinyfont.Glyph{
		{Rune: 'A', Width: 5, Height: 10, XAdvance: 6, YOffset: -10},
		{Rune: 'g', Width: 5, Height: 11, XAdvance: 6, YOffset: -7},
		{Rune: '-', Width: 5, Height: 2, XAdvance: 6, YOffset: -5},
	},
	YAdvance: 16,
}
