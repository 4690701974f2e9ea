package draw

import (
	"image"
	"image/color"
)

// Pixel sets a single pixel.
func Pixel(dst Image, x, y int, c color.Color) {
	dst.Set(x, y, c)
}

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine sets w pixels rightward from (x,y). A w of zero or less draws nothing.
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine sets h pixels downward from (x,y). A h of zero or less draws nothing.
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the border of the rectangle with inclusive corners (x1,y1) and (x2,y2).
//
// The caller must ensure x2 >= x1 and y2 >= y1. Equal corners draw a single
// pixel; reversed corners draw nothing.
func Rectangle(dst Image, x1, y1, x2, y2 int, c color.Color) {
	w, h := x2-x1+1, y2-y1+1
	HorizontalLine(dst, x1, y1, w, c)
	HorizontalLine(dst, x1, y2, w, c)
	VerticalLine(dst, x1, y1, h, c)
	VerticalLine(dst, x2, y1, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		VerticalLine(dst, x, rect.Min.Y, rect.Dy(), c)
	}
}

// Waveform plots one pixel per sample at (x+i, y-samples[i]).
//
// Samples are offsets above the baseline y; larger values are drawn higher.
// Points that end up outside dst are clipped.
func Waveform(dst Image, x, y int, samples []uint8, c color.Color) {
	for i, v := range samples {
		dst.Set(x+i, y-int(v), c)
	}
}

// Generalized with integer
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	var dx, dy, e, slope int

	// Because drawing p1 -> p2 is equivalent to draw p2 -> p1,
	// I sort points in x-axis order to handle only half of possible cases.
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy = x2-x1, y2-y1
	// Because point is x-axis ordered, dx cannot be negative
	if dy < 0 {
		dy = -dy
	}

	switch {

	// Is line a point ?
	case x1 == x2 && y1 == y2:
		dst.Set(x1, y1, c)

	// Is line an horizontal ?
	case y1 == y2:
		HorizontalLine(dst, x1, y1, dx+1, c)

	// Is line a vertical ?
	case x1 == x2:
		if y1 > y2 {
			y1 = y2
		}
		VerticalLine(dst, x1, y1, dy+1, c)

	// Is line a diagonal ?
	case dx == dy:
		step := 1
		if y1 > y2 {
			step = -1
		}
		for ; dx != 0; dx-- {
			dst.Set(x1, y1, c)
			x1++
			y1 += step
		}
		dst.Set(x1, y1, c)

	// wider than high ?
	case dx > dy:
		step := 1
		if y1 > y2 {
			step = -1
		}
		dy, e, slope = 2*dy, dx, 2*dx
		for ; dx != 0; dx-- {
			dst.Set(x1, y1, c)
			x1++
			e -= dy
			if e < 0 {
				y1 += step
				e += slope
			}
		}
		dst.Set(x2, y2, c)

	// higher than wide.
	default:
		step := 1
		if y1 > y2 {
			step = -1
		}
		dx, e, slope = 2*dx, dy, 2*dy
		for ; dy != 0; dy-- {
			dst.Set(x1, y1, c)
			y1 += step
			e -= dx
			if e < 0 {
				x1++
				e += slope
			}
		}
		dst.Set(x2, y2, c)
	}
}
