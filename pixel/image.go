package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/ssd1306/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by most image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixel bands.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Load copies len(p.Pix) bytes from src verbatim into the buffer. Excess input
// is ignored, a short src only overwrites its own length. It returns the
// number of bytes copied.
func (p *Buffer) Load(src []byte) int {
	return copy(p.Pix, src)
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image.
//
// Each byte holds a column of 8 vertically stacked pixels; the byte for
// pixel (x, y) is at x + Stride*(y/8) and bit y%8 (LSB is the top row of
// the band) represents the pixel. This matches the GDDRAM layout of the
// SSD1306 in horizontal addressing mode.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	bands := ((h + 7) & ^7) / 8 // round up to whole bytes
	return &MonoVerticalLSBImage{
		Buffer: makeBuffer(w, h, w, bands*w),
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

// PixOffset returns the index of the byte holding pixel (x, y) and the bit mask within it.
func (p *MonoVerticalLSBImage) PixOffset(x, y int) (int, byte) {
	return y/8*p.Stride + x, byte(1) << uint(y&7)
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.BitAt(x, y)}
}

// BitAt reports whether pixel (x, y) is lit. Out of bounds pixels are off.
func (p *MonoVerticalLSBImage) BitAt(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return false
	}
	pos, bit := p.PixOffset(x, y)
	return p.Pix[pos]&bit != 0
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	p.SetBit(x, y, monoModel(c).(Mono).On)
}

// SetBit sets or clears pixel (x, y). Pixels outside the image are silently ignored.
func (p *MonoVerticalLSBImage) SetBit(x, y int, on bool) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	pos, bit := p.PixOffset(x, y)
	if on {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

// Fill sets every byte to 0x00 or 0xff.
func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	if !ToMono(c).On {
		p.Clear()
		return
	}
	for i := range p.Pix {
		p.Pix[i] = 0xff
	}
}

// Interface checks.
var (
	_ Image = (*MonoVerticalLSBImage)(nil)
)
