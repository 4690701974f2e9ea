package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/d2r2/go-logger"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ssd1306"
	"github.com/BeatGlow/ssd1306/font"
	"github.com/BeatGlow/ssd1306/pixel"
)

var lg = logger.NewPackageLogger("main", logger.InfoLevel)

func main() {
	defer logger.FinalizeLogger()

	heightFlag := flag.Int("height", ssd1306.DefaultConfig.Height, "Display height")
	hardwareFlag := flag.String("com", "alt", "COM pins configuration (seq, seq-remap, alt, alt-remap)")
	flipFlag := flag.Bool("flip", false, "Flip the image vertically")
	mirrorFlag := flag.Bool("mirror", false, "Mirror the image horizontally")
	invertFlag := flag.Bool("invert", false, "Invert the display")
	contrastFlag := flag.Uint("contrast", ssd1306.DefaultContrast, "Contrast level")
	fontSizeFlag := flag.Float64("font-size", 0, "Go Mono font size in points (default: use the 7x13 bitmap font)")
	i2cDeviceFlag := flag.Int("i2c-dev", ssd1306.DefaultI2CConfig.Device, "I²C bus number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", ssd1306.DefaultAddr, "I²C device address")
	i2cSpeedFlag := flag.Int64("i2c-speed", 0, "I²C bus speed in kHz (default: bus default)")
	spiBusFlag := flag.Int("spi-bus", 0, "SPI bus")
	spiDeviceFlag := flag.Int("spi-dev", 0, "SPI device")
	resetPinFlag := flag.String("reset", "", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	cePinFlag := flag.String("ce", "", "Chip enable GPIO pin")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <i2c|i2c-dev|spi>\n", os.Args[0])
		os.Exit(1)
	}

	var hardware ssd1306.HardwareConf
	switch strings.ToLower(*hardwareFlag) {
	case "seq":
		hardware = ssd1306.SeqNoRemap
	case "seq-remap":
		hardware = ssd1306.SeqRemap
	case "alt":
		hardware = ssd1306.AltNoRemap
	case "alt-remap":
		hardware = ssd1306.AltRemap
	default:
		fatal(fmt.Errorf("invalid COM pins configuration %q", *hardwareFlag))
	}

	var (
		conn ssd1306.Conn
		err  error
	)
	switch busType := flag.Arg(0); busType {
	case "i2c":
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		conn, err = ssd1306.OpenI2C(&ssd1306.I2CConfig{
			Device: *i2cDeviceFlag,
			Addr:   uint8(*i2cAddrFlag),
			Speed:  physic.Frequency(*i2cSpeedFlag) * physic.KiloHertz,
			Reset:  pin(*resetPinFlag),
		})
	case "i2c-dev":
		bus := *i2cDeviceFlag
		if bus < 0 {
			bus = 1
		}
		conn, err = ssd1306.OpenI2CDev(bus, uint8(*i2cAddrFlag))
	case "spi":
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		conn, err = ssd1306.OpenSPI(&ssd1306.SPIConfig{
			Bus:    *spiBusFlag,
			Device: *spiDeviceFlag,
			Reset:  pin(*resetPinFlag),
			DC:     pin(*dcPinFlag),
			CE:     pin(*cePinFlag),
		})
	default:
		err = fmt.Errorf("unsupported bus type %q", busType)
	}
	if err != nil {
		fatal(err)
	}
	lg.Infof("using connection: %s", conn)

	output := ssd1306.New(conn, &ssd1306.Config{
		Height:   *heightFlag,
		Hardware: hardware,
		Flipped:  *flipFlag,
		Mirrored: *mirrorFlag,
		Contrast: uint8(*contrastFlag),
	})
	defer output.Close()
	if err = output.Err(); err != nil {
		fatal(err)
	}
	if !output.Init() {
		fatal(output.Err())
	}
	output.Invert(*invertFlag)
	lg.Infof("using driver: %s", output)

	if *fontSizeFlag > 0 {
		f, err := font.GoMono(*fontSizeFlag)
		if err != nil {
			fatal(err)
		}
		if err = output.SetFont(f); err != nil {
			fatal(err)
		}
	}
	lg.Infof("using font: %s", output.Font())

	var (
		r       = output.Bounds()
		samples = make([]uint8, r.Dx()-2)
		textH   = output.Font().Height
		ticker  = time.NewTicker(50 * time.Millisecond)
		stop    = make(chan os.Signal, 1)
		frame   int
	)
	defer ticker.Stop()
	signal.Notify(stop, os.Interrupt)

	fmt.Println("hit control-c to stop...")
	for {
		output.Clear()

		// Box around the edge
		output.DrawRectangle(0, 0, r.Dx()-1, r.Dy()-1, pixel.On)

		output.SetCursor(2, 2)
		output.WriteStringInverted(fmt.Sprintf(" %d ", frame))

		// Sine wave below the text
		amplitude := math.Max(0, float64(r.Dy()-textH-6)/2)
		for i := range samples {
			phase := float64(i+frame) * 2 * math.Pi / float64(len(samples))
			samples[i] = uint8(amplitude * (1 + math.Sin(phase)))
		}
		output.DrawWaveform(1, r.Dy()-2, samples, pixel.On)

		output.Refresh()
		if err = output.Err(); err != nil {
			fatal(err)
		}

		frame++
		select {
		case <-ticker.C:
		case <-stop:
			return
		}
	}
}

func pin(name string) gpio.PinOut {
	if name == "" {
		return nil
	}
	return gpioreg.ByName(name)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	logger.FinalizeLogger()
	os.Exit(1)
}
