package termcore

import (
	"bytes"
	"testing"
)

func TestEncodeKeyPlain(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		want []byte
	}{
		{"ascii", KeyAscii('a'), []byte{'a'}},
		{"ctrl-c", KeyCtrl('c'), []byte{0x03}},
		{"ctrl-uppercase", KeyCtrl('C'), []byte{0x03}},
		{"enter", KeyEnter(), []byte{'\n'}},
		{"backspace", KeyBackspace(), []byte{0x7F}},
		{"delete", KeyDelete(), []byte{0x1B, '[', '3', '~'}},
		{"insert", KeyInsert(), []byte{0x1B, '[', '2', '~'}},
		{"pageup", KeyPageUp(), []byte{0x1B, '[', '5', '~'}},
		{"pagedown", KeyPageDown(), []byte{0x1B, '[', '6', '~'}},
	}
	for _, c := range cases {
		if got := EncodeKey(c.key, false); !bytes.Equal(got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEncodeKeyCursorKeysFollowDecckm(t *testing.T) {
	cases := []struct {
		name  string
		key   Key
		final byte
	}{
		{"up", KeyArrowUp(), 'A'},
		{"down", KeyArrowDown(), 'B'},
		{"right", KeyArrowRight(), 'C'},
		{"left", KeyArrowLeft(), 'D'},
		{"home", KeyHome(), 'H'},
		{"end", KeyEnd(), 'F'},
	}
	for _, c := range cases {
		if got := EncodeKey(c.key, false); !bytes.Equal(got, []byte{0x1B, '[', c.final}) {
			t.Errorf("%s normal mode: got %v", c.name, got)
		}
		if got := EncodeKey(c.key, true); !bytes.Equal(got, []byte{0x1B, 'O', c.final}) {
			t.Errorf("%s application mode: got %v", c.name, got)
		}
	}
}

func TestEncodeKeyDecckmDoesNotAffectTildeKeys(t *testing.T) {
	for _, decckm := range []bool{false, true} {
		if got := EncodeKey(KeyPageUp(), decckm); !bytes.Equal(got, []byte{0x1B, '[', '5', '~'}) {
			t.Fatalf("decckm=%v: got %v", decckm, got)
		}
	}
}
