// Package conn opens the buses an SSD1306 can be attached to: I²C through
// the periph.io registry or the kernel i2c-dev interface, and spidev.
package conn

import (
	"os"

	"github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("conn", logger.InfoLevel)

func init() {
	level := logger.InfoLevel
	if os.Getenv("DISPLAY_DEBUG") != "" {
		level = logger.DebugLevel
	}
	_ = logger.ChangePackageLogLevel("conn", level)

	// go-i2c logs every transfer at debug level.
	_ = logger.ChangePackageLogLevel("i2c", logger.InfoLevel)
	if level == logger.DebugLevel {
		_ = logger.ChangePackageLogLevel("i2c", logger.DebugLevel)
	}
}
