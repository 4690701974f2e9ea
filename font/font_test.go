package font

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

// testFont7x10 returns a 7x10 font that encodes characters up to '8'; only
// '8' has any pixels.
func testFont7x10() *Font {
	f := &Font{
		Width:  7,
		Height: 10,
		Data:   make([]uint16, ('8'-First+1)*10),
	}
	copy(f.Data[('8'-First)*10:], []uint16{
		0x3800, 0x4400, 0x4400, 0x3800, 0x4400, 0x4400, 0x4400, 0x3800, 0x0000, 0x0000,
	})
	return f
}

func TestFontRow(t *testing.T) {
	f := testFont7x10()

	tests := []struct {
		name string
		ch   byte
		row  int
		want uint16
		ok   bool
	}{
		{"space", ' ', 0, 0, true},
		{"eight top", '8', 0, 0x3800, true},
		{"eight middle", '8', 4, 0x4400, true},
		{"eight bottom", '8', 9, 0x0000, true},
		{"below range", 31, 0, 0, false},
		{"control", '\n', 0, 0, false},
		{"above range", '9', 0, 0, false},
		{"negative row", '8', -1, 0, false},
		{"row past height", '8', 10, 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			v, ok := f.Row(test.ch, test.row)
			if ok != test.ok {
				it.Fatalf("expected ok=%t, got %t", test.ok, ok)
			}
			if v != test.want {
				it.Errorf("expected row %#04x, got %#04x", test.want, v)
			}
		})
	}
}

func TestFontLen(t *testing.T) {
	if l := testFont7x10().Len(); l != 25 {
		t.Errorf("expected 25 glyphs, got %d", l)
	}
	var f *Font
	if l := f.Len(); l != 0 {
		t.Errorf("expected nil font to have 0 glyphs, got %d", l)
	}
	if l := (&Font{Width: 7}).Len(); l != 0 {
		t.Errorf("expected zero height font to have 0 glyphs, got %d", l)
	}
}

func TestFromFace(t *testing.T) {
	f, err := FromFace(basicfont.Face7x13)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 7 || f.Height != 13 {
		t.Errorf("expected 7x13 font, got %dx%d", f.Width, f.Height)
	}
	if l := f.Len(); l != Last-First+1 {
		t.Errorf("expected %d glyphs, got %d", Last-First+1, l)
	}
	for row := 0; row < f.Height; row++ {
		if v, _ := f.Row(' ', row); v != 0 {
			t.Errorf("expected space row %d to be empty, got %#04x", row, v)
		}
	}
	for ch := byte('!'); ch <= Last; ch++ {
		var (
			lit  bool
			mask = uint16(0xffff) << uint(MaxWidth-f.Width)
		)
		for row := 0; row < f.Height; row++ {
			v, _ := f.Row(ch, row)
			if v&^mask != 0 {
				t.Errorf("character %q row %d has bits outside the glyph cell: %#04x", ch, row, v)
			}
			lit = lit || v != 0
		}
		if !lit {
			t.Errorf("expected character %q to have lit pixels", ch)
		}
	}
}

func TestBasic7x13(t *testing.T) {
	if Basic7x13 == nil {
		t.Fatal("expected default font")
	}
	if !Basic7x13.Has('A') || Basic7x13.Has(127) {
		t.Error("expected default font to cover printable ASCII only")
	}
}

func TestGoMono(t *testing.T) {
	f, err := GoMono(12)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width <= 0 || f.Width > MaxWidth {
		t.Errorf("unexpected glyph width %d", f.Width)
	}
	if f.Len() != Last-First+1 {
		t.Errorf("expected %d glyphs, got %d", Last-First+1, f.Len())
	}
}

func TestTrueTypeInvalid(t *testing.T) {
	if _, err := TrueType([]byte("not a font"), 12); err == nil {
		t.Error("expected error parsing garbage")
	}
}

func TestFromFaceTooWide(t *testing.T) {
	if _, err := GoMono(40); err == nil {
		t.Error("expected error for glyphs wider than 16 pixels")
	}
}

func TestFontValidate(t *testing.T) {
	tests := []struct {
		name  string
		font  Font
		valid bool
	}{
		{"7x10", Font{Width: 7, Height: 10}, true},
		{"max width", Font{Width: MaxWidth, Height: 1}, true},
		{"too wide", Font{Width: MaxWidth + 1, Height: 10}, false},
		{"zero width", Font{Width: 0, Height: 10}, false},
		{"zero height", Font{Width: 7, Height: 0}, false},
		{"negative height", Font{Width: 7, Height: -1}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			if err := test.font.Validate(); (err == nil) != test.valid {
				it.Errorf("expected valid=%t, got error %v", test.valid, err)
			}
		})
	}
}
