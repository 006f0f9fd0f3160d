package widget

// Rect is a screen rectangle in pixels. W and H are never negative.
type Rect struct {
	X, Y int16
	W, H int16
}

// Inset shrinks r by amount on every side. The amount is capped at half the
// smaller dimension so the result never goes negative. ok is false when the
// capped amount is zero and r is returned unchanged.
func (r Rect) Inset(amount int16) (inset Rect, ok bool) {
	if amount < 0 {
		amount = 0
	}
	if int32(amount)*2 > int32(r.W) {
		amount = r.W / 2
	}
	if int32(amount)*2 > int32(r.H) {
		amount = r.H / 2
	}
	if amount == 0 {
		return r, false
	}
	r.X += amount
	r.Y += amount
	r.W -= amount * 2
	r.H -= amount * 2
	return r, true
}

// Shrink moves each edge of r inwards by its own amount. Width and height
// stop at zero, and the origin never leaves r.
func (r Rect) Shrink(left, top, right, bottom int16) Rect {
	left, top = min(max(left, 0), r.W), min(max(top, 0), r.H)
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: max(r.W-left-max(right, 0), 0),
		H: max(r.H-top-max(bottom, 0), 0),
	}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}
