package conn

import (
	"fmt"
	"io"
	"strconv"

	"github.com/juju/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// I2C is a device on a periph.io I²C bus.
type I2C struct {
	bus i2c.Bus
	dev *i2c.Dev
}

// NewI2C addresses the device at addr on an already opened bus. Closing the
// returned I2C closes bus if it implements io.Closer.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}
}

// OpenI2C opens the numbered bus from the periph.io registry, use a negative
// device for the first available bus. A non-zero speed is applied to the bus.
func OpenI2C(device int, addr uint16, speed physic.Frequency) (*I2C, error) {
	var (
		bus  i2c.BusCloser
		name string
		err  error
	)
	if device >= 0 {
		name = strconv.FormatInt(int64(device), 10)
	}
	if bus, err = i2creg.Open(name); err != nil {
		return nil, errors.Annotatef(err, "conn: open I²C bus %q", name)
	}

	if speed > 0 {
		if err = bus.SetSpeed(speed); err != nil {
			_ = bus.Close()
			return nil, errors.Annotatef(err, "conn: set I²C bus speed %s", speed)
		}
	}

	lg.Debugf("opened I²C bus %s, device %#02x", bus, addr)
	return NewI2C(bus, addr), nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.dev.Addr)
}

func (c *I2C) Close() error {
	if closer, ok := c.bus.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *I2C) Write(p []byte) (int, error) {
	if err := c.dev.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}
