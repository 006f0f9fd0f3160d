// Package tft provides the drawing surface used by the widget package.
//
// A control never draws straight onto the panel. It asks a [Surface] for an
// off-screen [Canvas] the size of the control, paints the whole thing, and
// has the Surface composite it onto the screen in one transfer. The panel
// only ever sees finished frames, so redraws don't flicker.
//
// [Display] is the Surface for real hardware: its canvases are RGB565
// [Sprite]s and it composites them with the screen driver's DrawBitmap.
package tft

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"
	"tinygo.org/x/tinyfont"
)

// Canvas is an off-screen drawing target. Coordinates are relative to the
// canvas' top-left corner.
type Canvas interface {
	// FillRect paints a solid rectangle.
	FillRect(x, y, w, h int16, c color.RGBA)
	// DrawRect paints a one pixel wide rectangle outline.
	DrawRect(x, y, w, h int16, c color.RGBA)
	// SetFont selects the font used by TextWidth and Print.
	SetFont(f tinyfont.Fonter)
	// SetTextColor selects the color used by Print.
	SetTextColor(c color.RGBA)
	// TextWidth measures s in the current font.
	TextWidth(s string) int16
	// SetCursor moves the text cursor. y is the baseline.
	SetCursor(x, y int16)
	// Print draws s at the cursor and advances it.
	Print(s string)
}

// Surface hands out canvases and composites them onto the physical screen.
type Surface interface {
	// NewCanvas returns a canvas of w by h pixels.
	NewCanvas(w, h int16) Canvas
	// Push copies the canvas onto the screen with its top-left corner at x, y.
	Push(c Canvas, x, y int16) error
	// Release returns the canvas. It must not be used afterwards.
	Release(c Canvas)
}

// Screen is a display driver able to blit an RGB565 image in one transfer.
// The st7789 driver satisfies it.
type Screen interface {
	drivers.Displayer
	DrawBitmap(x, y int16, bitmap pixel.Image[pixel.RGB565BE]) error
}

var errForeignCanvas = errors.New("tft: canvas was not created by this display")

// Display is a Surface backed by a Screen.
//
// The last released sprite is kept and handed out again when the next
// request has the same size. Controls usually redraw at the same size every
// time, so this keeps the heap from churning on every refresh.
type Display struct {
	screen Screen
	spare  *Sprite
}

// NewDisplay returns a Display compositing onto screen.
func NewDisplay(screen Screen) *Display {
	return &Display{screen: screen}
}

// NewCanvas returns a w by h sprite. Negative sizes are treated as zero.
func (d *Display) NewCanvas(w, h int16) Canvas {
	if s := d.spare; s != nil && s.w == w && s.h == h {
		d.spare = nil
		s.reset()
		return s
	}
	return NewSprite(w, h)
}

// Push copies the sprite to the screen.
func (d *Display) Push(c Canvas, x, y int16) error {
	s, ok := c.(*Sprite)
	if !ok {
		return errForeignCanvas
	}
	if s.w == 0 || s.h == 0 {
		return nil
	}
	err := d.screen.DrawBitmap(x, y, s.img)
	if err != nil {
		return errors.New("tft: draw bitmap:" + err.Error())
	}
	return nil
}

// Release keeps the sprite for reuse.
func (d *Display) Release(c Canvas) {
	if s, ok := c.(*Sprite); ok {
		d.spare = s
	}
}

// Size returns the size of the underlying screen.
func (d *Display) Size() (w, h int16) {
	return d.screen.Size()
}
