package font

import (
	"image/color"

	"github.com/BeatGlow/ssd1306/draw"
	"github.com/BeatGlow/ssd1306/pixel"
)

// Writer renders glyphs onto an image at a cursor position.
//
// Every pixel of a glyph cell is painted: set bits in the requested color,
// clear bits in its inverse. Writing text thus overwrites whatever was
// below it.
type Writer struct {
	Dst  draw.Image
	Font *Font

	// X and Y is the cursor, the top left corner of the next glyph.
	X, Y int
}

// WriteChar renders ch and advances the cursor by one glyph width.
//
// Characters outside the font table, or any character of a font wider than
// MaxWidth, are rejected: nothing is drawn, the cursor stays put and false is
// returned.
func (w *Writer) WriteChar(ch byte, c color.Color) bool {
	f := w.Font
	if f == nil || f.Width > MaxWidth || !f.Has(ch) {
		return false
	}

	var (
		fg = pixel.ToMono(c)
		bg = fg.Inverse()
	)
	for y := 0; y < f.Height; y++ {
		row, _ := f.Row(ch, y)
		for x := 0; x < f.Width; x++ {
			if (row<<uint(x))&0x8000 != 0 {
				w.Dst.Set(w.X+x, w.Y+y, fg)
			} else {
				w.Dst.Set(w.X+x, w.Y+y, bg)
			}
		}
	}
	w.X += f.Width
	return true
}

// WriteString renders each byte of s up to the first NUL. There is no
// wrapping; glyphs past the edge of Dst are clipped.
func (w *Writer) WriteString(s string, c color.Color) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return
		}
		w.WriteChar(s[i], c)
	}
}
