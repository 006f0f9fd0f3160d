package tft

import (
	"image/color"

	"tinygo.org/x/drivers/pixel"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
)

// Sprite is an RGB565 off-screen buffer. It implements drivers.Displayer so
// tinydraw and tinyfont can paint into it directly.
type Sprite struct {
	img  pixel.Image[pixel.RGB565BE]
	w, h int16

	font   tinyfont.Fonter
	fg     color.RGBA
	cursor struct{ x, y int16 }
}

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// NewSprite allocates a w by h sprite. Negative sizes are treated as zero.
func NewSprite(w, h int16) *Sprite {
	w, h = max(w, 0), max(h, 0)
	s := &Sprite{w: w, h: h, fg: white}
	if w > 0 && h > 0 {
		s.img = pixel.NewImage[pixel.RGB565BE](int(w), int(h))
	}
	return s
}

// reset restores the text state of a reused sprite. Pixels are left as they
// are; every render paints the full background first.
func (s *Sprite) reset() {
	s.font = nil
	s.fg = white
	s.cursor.x, s.cursor.y = 0, 0
}

// Size implements drivers.Displayer.
func (s *Sprite) Size() (x, y int16) {
	return s.w, s.h
}

// SetPixel implements drivers.Displayer. Pixels outside the sprite are
// dropped.
func (s *Sprite) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.img.Set(int(x), int(y), pixel.NewColor[pixel.RGB565BE](c.R, c.G, c.B))
}

// Display implements drivers.Displayer. A sprite has nothing to flush.
func (s *Sprite) Display() error {
	return nil
}

// At returns the color stored at x, y, or the zero color outside the sprite.
func (s *Sprite) At(x, y int16) color.RGBA {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return color.RGBA{}
	}
	return s.img.Get(int(x), int(y)).RGBA()
}

// Image returns the backing pixel buffer.
func (s *Sprite) Image() pixel.Image[pixel.RGB565BE] {
	return s.img
}

func (s *Sprite) FillRect(x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	tinydraw.FilledRectangle(s, x, y, w, h, c)
}

func (s *Sprite) DrawRect(x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	tinydraw.Rectangle(s, x, y, w, h, c)
}

func (s *Sprite) SetFont(f tinyfont.Fonter) {
	s.font = f
}

func (s *Sprite) SetTextColor(c color.RGBA) {
	s.fg = c
}

// TextWidth returns the advance width of str, zero when no font is set.
func (s *Sprite) TextWidth(str string) int16 {
	if s.font == nil || str == "" {
		return 0
	}
	_, outbox := tinyfont.LineWidth(s.font, str)
	return int16(outbox)
}

func (s *Sprite) SetCursor(x, y int16) {
	s.cursor.x, s.cursor.y = x, y
}

func (s *Sprite) Print(str string) {
	if s.font == nil || str == "" {
		return
	}
	tinyfont.WriteLine(s, s.font, s.cursor.x, s.cursor.y, str, s.fg)
	s.cursor.x += s.TextWidth(str)
}
