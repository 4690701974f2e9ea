// Package font provides fixed-width bitmap fonts and a cursor based glyph
// writer for 1-bit displays.
//
// A [Font] stores one 16-bit row per (character, row) pair for the printable
// ASCII range starting at [First]. Bit 15 is the leftmost column of a glyph.
package font

import (
	"fmt"
	"image"

	"github.com/golang/freetype/truetype"
	"github.com/juju/errors"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

const (
	// First is the character code of the first glyph in a font table.
	First = 32

	// Last is the last printable ASCII character rasterized by FromFace.
	Last = 126

	// MaxWidth is the widest glyph a 16-bit row can hold.
	MaxWidth = 16
)

// Font is a fixed-width bitmap font. It does not own its row data; fonts
// are shared by reference and never modified after construction.
type Font struct {
	// Width of each glyph in pixels, at most MaxWidth.
	Width int

	// Height of each glyph in pixels.
	Height int

	// Data holds Height rows per glyph, starting at character First.
	Data []uint16
}

// Basic7x13 is the default font, rasterized from [basicfont.Face7x13].
var Basic7x13 = Must(FromFace(basicfont.Face7x13))

// Must panics if err is not nil.
func Must(f *Font, err error) *Font {
	if err != nil {
		panic(err)
	}
	return f
}

// Len is the number of glyphs in the font table.
func (f *Font) Len() int {
	if f == nil || f.Height <= 0 {
		return 0
	}
	return len(f.Data) / f.Height
}

// Has reports if the character is encoded in the font table.
func (f *Font) Has(ch byte) bool {
	return int(ch) >= First && int(ch)-First < f.Len()
}

// Row returns the packed row for character ch. The second return value is
// false if ch or row are outside the font table.
func (f *Font) Row(ch byte, row int) (uint16, bool) {
	if !f.Has(ch) || row < 0 || row >= f.Height {
		return 0, false
	}
	return f.Data[(int(ch)-First)*f.Height+row], true
}

// Validate checks that the glyph cell fits a 16-bit row.
func (f *Font) Validate() error {
	if f.Width <= 0 || f.Width > MaxWidth {
		return errors.NotSupportedf("font: glyph width %d (max %d)", f.Width, MaxWidth)
	}
	if f.Height <= 0 {
		return errors.NotSupportedf("font: glyph height %d", f.Height)
	}
	return nil
}

func (f *Font) String() string {
	return fmt.Sprintf("%dx%d font (%d glyphs)", f.Width, f.Height, f.Len())
}

// FromFace rasterizes the printable ASCII characters of face into a Font.
//
// The glyph cell is as wide as the widest advance and as high as the face
// line height; pixels with at least 50% coverage are lit.
func FromFace(face xfont.Face) (*Font, error) {
	var (
		metrics = face.Metrics()
		ascent  = metrics.Ascent.Ceil()
		height  = metrics.Height.Ceil()
		width   int
	)
	for ch := rune(First); ch <= Last; ch++ {
		if advance, ok := face.GlyphAdvance(ch); ok && advance.Ceil() > width {
			width = advance.Ceil()
		}
	}
	f := &Font{
		Width:  width,
		Height: height,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.Data = make([]uint16, (Last-First+1)*height)

	var (
		cell   = image.NewAlpha(image.Rect(0, 0, width, height))
		drawer = xfont.Drawer{
			Dst:  cell,
			Src:  image.Opaque,
			Face: face,
		}
	)
	for ch := First; ch <= Last; ch++ {
		for i := range cell.Pix {
			cell.Pix[i] = 0
		}
		drawer.Dot = fixed.P(0, ascent)
		drawer.DrawString(string(rune(ch)))

		base := (ch - First) * height
		for y := 0; y < height; y++ {
			var row uint16
			for x := 0; x < width; x++ {
				if cell.AlphaAt(x, y).A >= 0x80 {
					row |= 0x8000 >> uint(x)
				}
			}
			f.Data[base+y] = row
		}
	}
	return f, nil
}

// TrueType rasterizes a TrueType font at the given point size (72 DPI).
func TrueType(ttf []byte, size float64) (*Font, error) {
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, errors.Annotate(err, "font: parse TrueType")
	}
	face := truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	defer face.Close()
	return FromFace(face)
}

// GoMono rasterizes the Go Mono typeface at the given point size.
func GoMono(size float64) (*Font, error) {
	return TrueType(gomono.TTF, size)
}
