package widget

import "tinygo.org/x/tinyfont"

// fontMetrics returns how far the glyphs of f reach above and below the
// baseline. A glyph's YOffset is the (negative) distance from the baseline
// to its top row.
func fontMetrics(f *tinyfont.Font) (ascent, descent int16) {
	if f == nil {
		return 0, 0
	}
	for i := range f.Glyphs {
		g := &f.Glyphs[i]
		above := -int16(g.YOffset)
		ascent = max(ascent, above)
		descent = max(descent, int16(g.Height)-above)
	}
	return ascent, descent
}
