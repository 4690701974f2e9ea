package ssd1306

// SSD1306 fundamental, addressing, hardware configuration and timing
// commands.
const (
	setMemoryMode         = 0x20
	setColumnAddr         = 0x21
	setPageAddr           = 0x22
	setStartLine          = 0x40
	setContrast           = 0x81
	setChargePump         = 0x8D
	setSegmentNoRemap     = 0xA0
	setSegmentRemap       = 0xA1
	setDisplayAllOnResume = 0xA4
	setNormalDisplay      = 0xA6
	setInvertDisplay      = 0xA7
	setMultiplexRatio     = 0xA8
	setDisplayOff         = 0xAE
	setDisplayOn          = 0xAF
	setComScanInc         = 0xC0
	setComScanDec         = 0xC8
	setDisplayOffset      = 0xD3
	setDisplayClockDiv    = 0xD5
	setPrecharge          = 0xD9
	setComPins            = 0xDA
	setVComDetect         = 0xDB
)

// Fixed operands used during initialization.
const (
	displayClockDiv  = 0x80 // divide ratio 1, oscillator frequency 8
	chargePumpEnable = 0x14
	horizontalMode   = 0x00
	prechargePeriod  = 0x22
	vcomDeselect     = 0x40 // ~0.77 x Vcc
)

// HardwareConf is the COM pins hardware configuration, it depends on how
// the panel is wired to the controller.
type HardwareConf uint8

// COM pins configurations.
const (
	SeqNoRemap HardwareConf = 0x02 // sequential COM pins, no left/right remap
	SeqRemap   HardwareConf = 0x22 // sequential COM pins, left/right remap
	AltNoRemap HardwareConf = 0x12 // alternative COM pins, no left/right remap
	AltRemap   HardwareConf = 0x32 // alternative COM pins, left/right remap
)

func (c HardwareConf) String() string {
	switch c {
	case SeqNoRemap:
		return "sequential"
	case SeqRemap:
		return "sequential remapped"
	case AltNoRemap:
		return "alternative"
	case AltRemap:
		return "alternative remapped"
	default:
		return "unknown"
	}
}

// command is one controller opcode with its operand bytes.
type command struct {
	op   byte
	args []byte
}

// bytes returns the opcode followed by its operands.
func (c command) bytes() []byte {
	return append([]byte{c.op}, c.args...)
}

// state is the controller state that is established by the init script and
// can be changed at runtime.
type state struct {
	height   int
	hardware HardwareConf
	contrast uint8
	flipped  bool
	mirrored bool
	inverted bool
}

func segmentRemap(mirrored bool) byte {
	if mirrored {
		return setSegmentNoRemap
	}
	return setSegmentRemap
}

func comScan(flipped bool) byte {
	if flipped {
		return setComScanInc
	}
	return setComScanDec
}

func invertDisplay(inverted bool) byte {
	if inverted {
		return setInvertDisplay
	}
	return setNormalDisplay
}

func displayPower(on bool) byte {
	if on {
		return setDisplayOn
	}
	return setDisplayOff
}

// pages is the number of 8 pixel tall bands.
func (s state) pages() int {
	return s.height / 8
}

// window sets the column and page address range to the whole screen.
func (s state) window() []command {
	return []command{
		{setColumnAddr, []byte{0x00, Width - 1}},
		{setPageAddr, []byte{0x00, byte(s.pages() - 1)}},
	}
}

// initScript is the power-up command sequence. The panel is switched on at
// the end; the framebuffer is not part of the script.
func (s state) initScript() []command {
	script := []command{
		{setDisplayOff, nil},
		{setDisplayClockDiv, []byte{displayClockDiv}},
		{setMultiplexRatio, []byte{byte(s.height - 1)}},
		{setDisplayOffset, []byte{0x00}},
		{setStartLine, nil},
		{setChargePump, []byte{chargePumpEnable}},
		{segmentRemap(s.mirrored), nil},
		{comScan(s.flipped), nil},
		{setComPins, []byte{byte(s.hardware)}},
		{setContrast, []byte{s.contrast}},
		{setPrecharge, []byte{prechargePeriod}},
		{setVComDetect, []byte{vcomDeselect}},
		{setDisplayAllOnResume, nil},
		{invertDisplay(s.inverted), nil},
		{setMemoryMode, []byte{horizontalMode}},
	}
	script = append(script, s.window()...)
	return append(script, command{setDisplayOn, nil})
}
