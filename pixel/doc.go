// Package pixel implements the 1-bit framebuffer used by SSD1306 class OLED controllers.
//
// The package provides a binary [Mono] color model and a page oriented image
// ([MonoVerticalLSBImage]) that are compatible with Go's native [color.Color]
// and [image.Image] / [draw.Image] interfaces.
package pixel
