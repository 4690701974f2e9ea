package conn

import (
	"fmt"

	"github.com/d2r2/go-i2c"
	"github.com/juju/errors"
)

// i2cDevice is the part of *i2c.I2C used by I2CDev.
type i2cDevice interface {
	WriteBytes([]byte) (int, error)
	Close() error
	GetBus() int
	GetAddr() uint8
}

// I2CDev is a device on a kernel i2c-dev bus (/dev/i2c-N). It does not need
// the periph.io host drivers.
type I2CDev struct {
	dev i2cDevice
}

// OpenI2CDev opens the device at addr on bus /dev/i2c-<bus>.
func OpenI2CDev(bus int, addr uint8) (*I2CDev, error) {
	dev, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, errors.Annotatef(err, "conn: open /dev/i2c-%d", bus)
	}
	return &I2CDev{dev: dev}, nil
}

func (c *I2CDev) String() string {
	return fmt.Sprintf("i2c-dev bus %d address %#02x", c.dev.GetBus(), c.dev.GetAddr())
}

func (c *I2CDev) Close() error {
	return c.dev.Close()
}

func (c *I2CDev) Write(p []byte) (int, error) {
	n, err := c.dev.WriteBytes(p)
	if err == nil && n != len(p) {
		err = errors.Errorf("conn: short write, %d of %d bytes", n, len(p))
	}
	return n, err
}
