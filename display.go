// Package ssd1306 drives SSD1306 based monochrome OLED panels, 128 pixels
// wide and 8 to 64 pixels high.
//
// All drawing happens in a framebuffer held by the [Display]; nothing is sent
// to the panel until [Display.Refresh]. Transport failures never interrupt a
// command sequence, the last one is kept and can be inspected with
// [Display.Err].
package ssd1306

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/d2r2/go-logger"
	"github.com/juju/errors"
	"periph.io/x/conn/v3/i2c"

	"github.com/BeatGlow/ssd1306/draw"
	"github.com/BeatGlow/ssd1306/font"
	"github.com/BeatGlow/ssd1306/pixel"
)

var lg = logger.NewPackageLogger("ssd1306", logger.InfoLevel)

func init() {
	if os.Getenv("DISPLAY_DEBUG") != "" {
		_ = logger.ChangePackageLogLevel("ssd1306", logger.DebugLevel)
	}
}

const (
	// Width of the panel in pixels.
	Width = 128

	// MaxHeight is the number of COM lines of the controller.
	MaxHeight = 64

	// DefaultAddr is the 7-bit I²C address with SA0 pulled low (0x78 in
	// 8-bit notation).
	DefaultAddr = 0x3C

	// DefaultContrast is the contrast level set during Init.
	DefaultContrast = 150
)

// ErrUnsupportedHeight is recorded at construction if the configured height
// is not a multiple of 8 between 8 and MaxHeight.
const ErrUnsupportedHeight = errors.ConstError("ssd1306: unsupported height")

// Config is the display configuration. Zero fields take the value from
// DefaultConfig.
type Config struct {
	// Height of the panel in pixels.
	Height int

	// Hardware is the COM pins configuration.
	Hardware HardwareConf

	// Addr is the 7-bit I²C address, only used by NewI2C.
	Addr uint8

	// Flipped mirrors the image vertically.
	Flipped bool

	// Mirrored mirrors the image horizontally.
	Mirrored bool

	// Contrast level applied by Init.
	Contrast uint8
}

// DefaultConfig is a 128x64 panel at the default address.
var DefaultConfig = Config{
	Height:   MaxHeight,
	Hardware: AltNoRemap,
	Addr:     DefaultAddr,
	Contrast: DefaultContrast,
}

// Display is an SSD1306 panel with its framebuffer.
//
// A Display is not safe for concurrent use.
type Display struct {
	c           Conn
	buf         *pixel.MonoVerticalLSBImage
	text        font.Writer
	config      state
	state       state
	err         error
	initialized bool
}

// New returns a Display that talks to the controller over c. Nothing is sent
// until Init is called.
//
// An unsupported height does not fail construction; ErrUnsupportedHeight is
// recorded instead and Init will not report success.
func New(c Conn, config *Config) *Display {
	if config == nil {
		config = &DefaultConfig
	}

	s := state{
		height:   config.Height,
		hardware: config.Hardware,
		contrast: config.Contrast,
		flipped:  config.Flipped,
		mirrored: config.Mirrored,
	}
	if s.height == 0 {
		s.height = DefaultConfig.Height
	}
	if s.hardware == 0 {
		s.hardware = DefaultConfig.Hardware
	}
	if s.contrast == 0 {
		s.contrast = DefaultConfig.Contrast
	}

	d := &Display{
		c:      c,
		buf:    pixel.NewMonoVerticalLSBImage(Width, s.height),
		config: s,
		state:  s,
	}
	d.text = font.Writer{Dst: d.buf, Font: font.Basic7x13}

	if s.height < 8 || s.height > MaxHeight || s.height%8 != 0 {
		lg.Errorf("height %d is not supported", s.height)
		d.err = ErrUnsupportedHeight
	}
	return d
}

// NewI2C returns a Display on bus at config.Addr.
func NewI2C(bus i2c.Bus, config *Config) *Display {
	addr := uint8(DefaultAddr)
	if config != nil && config.Addr != 0 {
		addr = config.Addr
	}
	return New(newI2CConn(bus, addr), config)
}

func (d *Display) String() string {
	return fmt.Sprintf("SSD1306 OLED %dx%d", Width, d.state.height)
}

// Close switches the panel off and closes the connection if it is an
// io.Closer.
func (d *Display) Close() error {
	d.Show(false)
	if closer, ok := d.c.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return errors.Annotate(err, "ssd1306: close")
		}
	}
	return nil
}

func (d *Display) fail(err error) {
	lg.Errorf("%v", err)
	d.err = err
}

func (d *Display) command(cmnd byte) {
	if err := d.c.Command(cmnd); err != nil {
		d.fail(errors.Annotatef(err, "ssd1306: command %#02x", cmnd))
	}
}

// send transmits every byte of commands as a separate command transfer.
func (d *Display) send(commands ...command) {
	for _, c := range commands {
		for _, b := range c.bytes() {
			d.command(b)
		}
	}
}

// Init runs the power-up sequence, clears the framebuffer and transfers it.
// Orientation and contrast are restored from the Config, runtime changes are
// discarded. It reports whether the panel is ready, which is the case only
// if no error is recorded afterwards.
func (d *Display) Init() bool {
	lg.Infof("initializing %s (%s COM pins)", d, d.config.hardware)

	d.state = d.config
	d.send(d.state.initScript()...)
	d.Clear()
	d.Refresh()

	if d.initialized = d.err == nil; d.initialized {
		lg.Infof("%s ready", d)
	} else {
		lg.Errorf("%s not ready: %v", d, d.err)
	}
	return d.initialized
}

// Refresh transfers the framebuffer to the panel.
func (d *Display) Refresh() {
	d.send(d.state.window()...)
	lg.Debugf("refresh %d bytes", len(d.buf.Pix))
	if err := d.c.Data(d.buf.Pix...); err != nil {
		d.fail(errors.Annotatef(err, "ssd1306: data (%d bytes)", len(d.buf.Pix)))
	}
}

// IsInitialized reports if the last Init succeeded.
func (d *Display) IsInitialized() bool {
	return d.initialized
}

// Err returns the last recorded error.
func (d *Display) Err() error {
	return d.err
}

// ClearErr forgets the recorded error.
func (d *Display) ClearErr() {
	d.err = nil
}

// Show switches the panel on or off. The display RAM is retained.
func (d *Display) Show(on bool) {
	d.command(displayPower(on))
}

// SetContrast adjusts the contrast (brightness) level.
func (d *Display) SetContrast(level uint8) {
	d.send(command{setContrast, []byte{level}})
	d.state.contrast = level
}

// Invert swaps lit and dark pixels on the panel, the framebuffer is left
// untouched.
func (d *Display) Invert(inverted bool) {
	d.command(invertDisplay(inverted))
	d.state.inverted = inverted
}

// Flip mirrors the image vertically (COM scan direction).
func (d *Display) Flip(flipped bool) {
	d.command(comScan(flipped))
	d.state.flipped = flipped
}

// Mirror mirrors the image horizontally (segment remap).
func (d *Display) Mirror(mirrored bool) {
	d.command(segmentRemap(mirrored))
	d.state.mirrored = mirrored
}

func (d *Display) Bounds() image.Rectangle {
	return d.buf.Bounds()
}

func (d *Display) ColorModel() color.Model {
	return pixel.MonoModel
}

func (d *Display) At(x, y int) color.Color {
	return d.buf.At(x, y)
}

// Set the pixel at (x, y). Pixels outside the display are ignored.
func (d *Display) Set(x, y int, c color.Color) {
	d.buf.Set(x, y, c)
}

// Clear the framebuffer.
func (d *Display) Clear() {
	d.buf.Fill(pixel.Off)
}

// Fill the framebuffer with a single color.
func (d *Display) Fill(c color.Color) {
	d.buf.Fill(c)
}

// DrawBitmap copies a packed framebuffer image verbatim. Bytes beyond the
// framebuffer size are ignored.
func (d *Display) DrawBitmap(b []byte) {
	d.buf.Load(b)
}

// DrawImage draws img with its top left corner at pt.
func (d *Display) DrawImage(img image.Image, pt image.Point) {
	r := img.Bounds()
	draw.Draw(d.buf, r.Sub(r.Min).Add(pt), img, r.Min, draw.Over)
}

func (d *Display) DrawPixel(x, y int, c color.Color) {
	draw.Pixel(d.buf, x, y, c)
}

func (d *Display) DrawHorizontalLine(x, y, w int, c color.Color) {
	draw.HorizontalLine(d.buf, x, y, w, c)
}

func (d *Display) DrawVerticalLine(x, y, h int, c color.Color) {
	draw.VerticalLine(d.buf, x, y, h, c)
}

// DrawLine draws a line from a to b, both inclusive.
func (d *Display) DrawLine(a, b image.Point, c color.Color) {
	draw.Line(d.buf, a, b, c)
}

// DrawRectangle draws the outline of the rectangle with corners (x1, y1) and
// (x2, y2), both inclusive. Nothing is drawn if x2 < x1 or y2 < y1.
func (d *Display) DrawRectangle(x1, y1, x2, y2 int, c color.Color) {
	draw.Rectangle(d.buf, x1, y1, x2, y2, c)
}

// DrawBox fills r.
func (d *Display) DrawBox(r image.Rectangle, c color.Color) {
	draw.Box(d.buf, r, c)
}

// DrawWaveform plots samples[i] pixels above the baseline y at column x+i.
func (d *Display) DrawWaveform(x, y int, samples []uint8, c color.Color) {
	draw.Waveform(d.buf, x, y, samples, c)
}

// SetFont selects the font for subsequent writes, nil selects
// font.Basic7x13. A font with invalid glyph dimensions is refused and the
// current font is kept.
func (d *Display) SetFont(f *font.Font) error {
	if f == nil {
		f = font.Basic7x13
	}
	if err := f.Validate(); err != nil {
		return errors.Annotate(err, "ssd1306")
	}
	d.text.Font = f
	return nil
}

// Font returns the selected font.
func (d *Display) Font() *font.Font {
	return d.text.Font
}

// SetCursor moves the text cursor. Coordinates are clamped to the display.
func (d *Display) SetCursor(x, y int) {
	d.text.X = clamp(x, Width)
	d.text.Y = clamp(y, d.state.height)
}

// Cursor returns the text cursor position.
func (d *Display) Cursor() (x, y int) {
	return d.text.X, d.text.Y
}

// WriteString draws s at the cursor with lit glyphs on a dark background and
// advances the cursor. Characters missing from the font are skipped. There
// is no line wrapping.
func (d *Display) WriteString(s string) {
	d.text.WriteString(s, pixel.On)
}

// WriteStringInverted is like WriteString with dark glyphs on a lit
// background.
func (d *Display) WriteStringInverted(s string) {
	d.text.WriteString(s, pixel.Off)
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// Interface checks.
var (
	_ draw.Image   = (*Display)(nil)
	_ fmt.Stringer = (*Display)(nil)
)
