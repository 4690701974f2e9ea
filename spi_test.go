package ssd1306

import (
	"bytes"
	"testing"

	"github.com/juju/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// testPin counts level changes requested on a pin.
type testPin struct {
	*gpiotest.Pin
	outs int
}

func newTestPin(name string, level gpio.Level) *testPin {
	return &testPin{Pin: &gpiotest.Pin{N: name, L: level}}
}

func (p *testPin) Out(l gpio.Level) error {
	p.outs++
	return p.Pin.Out(l)
}

// spiWrite is a bus write with the D/C# and CE levels at the time of writing.
type spiWrite struct {
	data   []byte
	dc, ce gpio.Level
}

type testSPIBus struct {
	dc, ce *testPin
	writes []spiWrite
	err    error
	closed bool
}

func (b *testSPIBus) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	w := spiWrite{data: append([]byte(nil), p...), dc: b.dc.L, ce: gpio.Low}
	if b.ce != nil {
		w.ce = b.ce.L
	}
	b.writes = append(b.writes, w)
	return len(p), nil
}

func (b *testSPIBus) Close() error {
	b.closed = true
	return nil
}

func (b *testSPIBus) String() string {
	return "test"
}

func testSPIConn(batchSize uint, withCE bool) (*spiConn, *testSPIBus) {
	bus := &testSPIBus{dc: newTestPin("DC", gpio.Low)}
	c := &spiConn{
		bus:       bus,
		dc:        bus.dc,
		dcLevel:   gpio.Low,
		batchSize: batchSize,
	}
	if withCE {
		bus.ce = newTestPin("CE", gpio.High)
		c.cs = bus.ce
	}
	return c, bus
}

func TestSPICommandData(t *testing.T) {
	c, bus := testSPIConn(4096, true)

	if err := c.Command(0xAF); err != nil {
		t.Fatal(err)
	}
	if err := c.Data(0x01, 0x02, 0x03); err != nil {
		t.Fatal(err)
	}
	if err := c.Data(0x04); err != nil {
		t.Fatal(err)
	}
	if err := c.Command(0xAE); err != nil {
		t.Fatal(err)
	}

	want := []spiWrite{
		{[]byte{0xAF}, gpio.Low, gpio.Low},
		{[]byte{0x01, 0x02, 0x03}, gpio.High, gpio.Low},
		{[]byte{0x04}, gpio.High, gpio.Low},
		{[]byte{0xAE}, gpio.Low, gpio.Low},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(bus.writes))
	}
	for i, w := range want {
		got := bus.writes[i]
		if !bytes.Equal(got.data, w.data) {
			t.Errorf("write %d: expected % 02x, got % 02x", i, w.data, got.data)
		}
		if got.dc != w.dc {
			t.Errorf("write %d: expected D/C# %s, got %s", i, w.dc, got.dc)
		}
		if got.ce != w.ce {
			t.Errorf("write %d: expected CE %s, got %s", i, w.ce, got.ce)
		}
	}

	// D/C# only changes on command/data transitions.
	if bus.dc.outs != 2 {
		t.Errorf("expected 2 D/C# changes, got %d", bus.dc.outs)
	}
	// CE is asserted and released once per transfer.
	if bus.ce.outs != 2*len(want) {
		t.Errorf("expected %d CE changes, got %d", 2*len(want), bus.ce.outs)
	}
	if bus.ce.L != gpio.High {
		t.Error("expected CE released after the transfer")
	}
}

func TestSPIWithoutCE(t *testing.T) {
	c, bus := testSPIConn(4096, false)
	if err := c.Command(0xA6); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes) != 1 || bus.writes[0].dc != gpio.Low {
		t.Fatalf("expected one command write, got %+v", bus.writes)
	}
}

func TestSPIDataEmpty(t *testing.T) {
	c, bus := testSPIConn(4096, true)
	if err := c.Data(); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes) != 0 {
		t.Errorf("expected no writes, got %d", len(bus.writes))
	}
	if bus.dc.outs != 0 || bus.ce.outs != 0 {
		t.Errorf("expected pins untouched, got %d D/C# and %d CE changes", bus.dc.outs, bus.ce.outs)
	}
}

func TestSPIChunked(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []int
	}{
		{"below batch size", 3, []int{3}},
		{"at batch size", 4, []int{4}},
		{"above batch size", 9, []int{4, 4, 1}},
		{"multiple of batch size", 8, []int{4, 4}},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			c, bus := testSPIConn(4, true)

			data := make([]byte, test.size)
			for i := range data {
				data[i] = byte(i)
			}
			if err := c.Data(data...); err != nil {
				it.Fatal(err)
			}

			if len(bus.writes) != len(test.want) {
				it.Fatalf("expected %d writes, got %d", len(test.want), len(bus.writes))
			}
			var joined []byte
			for i, w := range bus.writes {
				if len(w.data) != test.want[i] {
					it.Errorf("write %d: expected %d bytes, got %d", i, test.want[i], len(w.data))
				}
				if w.dc != gpio.High || w.ce != gpio.Low {
					it.Errorf("write %d: expected D/C# high and CE low, got %s and %s", i, w.dc, w.ce)
				}
				joined = append(joined, w.data...)
			}
			if !bytes.Equal(joined, data) {
				it.Error("expected chunks to reassemble the data")
			}
		})
	}
}

func TestSPIWriteError(t *testing.T) {
	c, bus := testSPIConn(4096, true)
	bus.err = errors.New("bus gone")
	if err := c.Command(0xAF); !errors.Is(err, bus.err) {
		t.Errorf("expected bus error, got %v", err)
	}
	if err := c.Data(0x01); !errors.Is(err, bus.err) {
		t.Errorf("expected bus error, got %v", err)
	}
}

func TestSPIDisplay(t *testing.T) {
	c, bus := testSPIConn(512, true)
	d := New(c, nil)
	if !d.Init() {
		t.Fatalf("expected init to succeed, got %v", d.Err())
	}

	if len(bus.writes) != 37+2 {
		t.Fatalf("expected 37 command and 2 data writes, got %d", len(bus.writes))
	}
	for i, w := range bus.writes[:37] {
		if len(w.data) != 1 || w.dc != gpio.Low {
			t.Fatalf("write %d: expected a single command byte with D/C# low", i)
		}
	}
	for i, w := range bus.writes[37:] {
		if len(w.data) != 512 || w.dc != gpio.High {
			t.Errorf("data write %d: expected 512 bytes with D/C# high", i)
		}
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if !bus.closed {
		t.Error("expected bus to be closed")
	}
}
