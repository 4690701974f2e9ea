package ssd1306

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/BeatGlow/ssd1306/pixel"
)

func TestI2CFraming(t *testing.T) {
	var (
		bus = new(i2ctest.Record)
		d   = NewI2C(bus, nil)
	)
	d.Show(true)
	d.Fill(pixel.On)
	d.Refresh()

	if len(bus.Ops) != 1+6+1 {
		t.Fatalf("expected 8 transfers, got %d", len(bus.Ops))
	}
	for i, op := range bus.Ops {
		if op.Addr != DefaultAddr {
			t.Errorf("transfer %d: expected address %#02x, got %#02x", i, DefaultAddr, op.Addr)
		}
	}

	testExpectBytes(t, "display on", bus.Ops[0].W, []byte{0x00, 0xAF})
	for i, cmnd := range []byte{0x21, 0x00, 0x7F, 0x22, 0x00, 0x07} {
		testExpectBytes(t, "window command", bus.Ops[1+i].W, []byte{0x00, cmnd})
	}

	data := bus.Ops[7].W
	if len(data) != 1+1024 {
		t.Fatalf("expected control byte and 1024 data bytes, got %d bytes", len(data))
	}
	if data[0] != 0x40 {
		t.Errorf("expected data control byte 0x40, got %#02x", data[0])
	}
	if !bytes.Equal(data[1:], bytes.Repeat([]byte{0xFF}, 1024)) {
		t.Error("expected all pixels lit")
	}
	if d.Err() != nil {
		t.Errorf("expected no error, got %v", d.Err())
	}
}

func TestI2CAddr(t *testing.T) {
	var (
		bus = new(i2ctest.Record)
		d   = NewI2C(bus, &Config{Addr: 0x3D})
	)
	d.Show(false)
	if len(bus.Ops) != 1 || bus.Ops[0].Addr != 0x3D {
		t.Fatalf("expected one transfer to 0x3d, got %+v", bus.Ops)
	}
}

func TestI2CInit(t *testing.T) {
	var (
		bus = new(i2ctest.Record)
		d   = NewI2C(bus, &Config{Height: 32})
	)
	if !d.Init() {
		t.Fatalf("expected init to succeed, got %v", d.Err())
	}
	if len(bus.Ops) != 31+6+1 {
		t.Fatalf("expected 38 transfers, got %d", len(bus.Ops))
	}
	for i, op := range bus.Ops[:37] {
		if len(op.W) != 2 || op.W[0] != 0x00 {
			t.Fatalf("transfer %d: expected single command, got % 02x", i, op.W)
		}
	}
	if l := len(bus.Ops[37].W); l != 1+512 {
		t.Errorf("expected 513 bytes of data, got %d", l)
	}
}
