package ssd1306

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/ssd1306/conn"
)

// I²C control bytes preceding a transfer.
const (
	i2cCommand = 0x00 // Co=0, D/C#=0
	i2cData    = 0x40 // Co=0, D/C#=1
)

// Conn errors.
const (
	ErrResetPin = errors.ConstError("ssd1306: reset GPIO pin is invalid")
	ErrDCPin    = errors.ConstError("ssd1306: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection used for communicating with the controller.
type Conn interface {
	// Command sends one command byte.
	Command(byte) error

	// Data sends a block of display RAM data.
	Data(...byte) error
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C bus number, use -1 to use the first available bus.
	Device int

	// Addr is the 7-bit I²C address.
	Addr uint8

	// Speed of the bus, zero keeps the bus default.
	Speed physic.Frequency

	// Reset pin, optional.
	Reset gpio.PinOut
}

// DefaultI2CConfig are the default I²C configuration values.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   DefaultAddr,
}

// i2cWriter is an I²C device that sends a whole transfer per Write.
type i2cWriter interface {
	io.WriteCloser
	fmt.Stringer
}

type i2cConn struct {
	w i2cWriter
}

// OpenI2C opens an I²C bus using the periph.io host drivers; host.Init must
// have been called. The panel is reset first if a reset pin is configured.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultAddr
	}

	if err := resetPanel(config.Reset); err != nil {
		return nil, err
	}

	c, err := conn.OpenI2C(config.Device, uint16(config.Addr), config.Speed)
	if err != nil {
		return nil, err
	}
	return &i2cConn{w: c}, nil
}

// OpenI2CDev opens /dev/i2c-<bus> directly, without periph.io.
func OpenI2CDev(bus int, addr uint8) (Conn, error) {
	if addr == 0 {
		addr = DefaultAddr
	}
	c, err := conn.OpenI2CDev(bus, addr)
	if err != nil {
		return nil, err
	}
	return &i2cConn{w: c}, nil
}

func newI2CConn(bus i2c.Bus, addr uint8) Conn {
	return &i2cConn{w: conn.NewI2C(bus, uint16(addr))}
}

func (c *i2cConn) String() string {
	return c.w.String()
}

func (c *i2cConn) Close() error {
	return c.w.Close()
}

func (c *i2cConn) Command(cmnd byte) (err error) {
	_, err = c.w.Write([]byte{i2cCommand, cmnd})
	return
}

func (c *i2cConn) Data(data ...byte) (err error) {
	_, err = c.w.Write(append([]byte{i2cData}, data...))
	return
}

// SPIConfig describes the 4-wire SPI bus configuration.
type SPIConfig struct {
	Bus       int
	Device    int
	Mode      conn.SPIMode
	SpeedHz   uint32
	BatchSize uint
	Reset     gpio.PinOut
	DC        gpio.PinOut
	CE        gpio.PinOut
}

// DefaultSPIConfig are the default SPI configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:       0,
	Device:    0,
	Mode:      conn.SPIMode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
	Reset:     gpioreg.ByName("GPIO25"),
	DC:        gpioreg.ByName("GPIO24"),
}

// ValidSPISpeeds are the SPI bus speeds accepted by OpenSPI. The SSD1306
// serial clock cycle is at least 100ns.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
}

type spiConn struct {
	bus       io.WriteCloser
	dc        gpio.PinOut
	dcLevel   gpio.Level
	cs        gpio.PinOut
	batchSize uint
}

// OpenSPI opens a spidev bus, D/C# is driven through a GPIO pin.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}

	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, errors.NotValidf("ssd1306: SPI speed %dHz", config.SpeedHz)
	}

	if err := resetPanel(config.Reset); err != nil {
		return nil, err
	}
	if err := config.DC.Out(gpio.Low); err != nil {
		return nil, errors.Annotate(err, "ssd1306: D/C#")
	}

	c, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = c.SetMode(config.Mode); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.SetBitsPerWord(8); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = c.Close()
		return nil, err
	}

	return &spiConn{
		bus:       c,
		batchSize: config.BatchSize,
		dc:        config.DC,
		dcLevel:   gpio.Low,
		cs:        config.CE,
	}, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	return c.bus.Close()
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel = level
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil || c.cs == gpio.INVALID {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Command(cmnd byte) (err error) {
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	return c.transfer([]byte{cmnd})
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	return c.transfer(data)
}

func (c *spiConn) transfer(data []byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeChunked(data []byte) (err error) {
	size := int(c.batchSize)
	if len(data) <= size {
		_, err = c.bus.Write(data)
		return
	}

	lg.Debugf("write %d bytes of data in %d chunks", len(data), (len(data)+size-1)/size)
	for len(data) > 0 {
		n := size
		if len(data) < n {
			n = len(data)
		}
		if _, err = c.bus.Write(data[:n]); err != nil {
			return
		}
		data = data[n:]
	}
	return
}

// resetPanel pulses the active low reset pin. A nil pin is skipped.
func resetPanel(pin gpio.PinOut) error {
	if pin == nil {
		return nil
	}
	if pin == gpio.INVALID {
		return ErrResetPin
	}
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := pin.Out(level); err != nil {
			return errors.Annotate(err, "ssd1306: reset")
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}
