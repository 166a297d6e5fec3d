package strutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeByteMode(t *testing.T) {
	h := NewHandler(false)

	var positions []int
	points := h.Decode("a\xffb", nil, &positions)

	if diff := cmp.Diff([]rune{'a', 0xFF, 'b'}, points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUTF8(t *testing.T) {
	h := NewHandler(true)

	tests := []struct {
		name      string
		input     string
		want      []rune
		positions []int
	}{
		{"ascii", "ab", []rune{'a', 'b'}, []int{0, 1, 2}},
		{"two byte", "caf\xc3\xa9", []rune{'c', 'a', 'f', 0xE9}, []int{0, 1, 2, 3, 5}},
		{"three byte", "\xe2\x82\xac", []rune{0x20AC}, []int{0, 3}},
		{"four byte", "\xf0\x9f\x90\xb9", []rune{0x1F439}, []int{0, 4}},
		{"nul byte", "\x00a", []rune{0xDC00, 'a'}, []int{0, 1, 2}},
		{"stray continuation", "\x80", []rune{0xDC80}, []int{0, 1}},
		{"overlong c0", "\xc0\xaf", []rune{0xDCC0, 0xDCAF}, []int{0, 1, 2}},
		{"overlong e0", "\xe0\x80\xaf", []rune{0xDCE0, 0xDC80, 0xDCAF}, []int{0, 1, 2, 3}},
		{"overlong f0", "\xf0\x8f\xbf\xbf", []rune{0xDCF0, 0xDC8F, 0xDCBF, 0xDCBF}, []int{0, 1, 2, 3, 4}},
		{"above max", "\xf4\x90\x80\x80", []rune{0xDCF4, 0xDC90, 0xDC80, 0xDC80}, []int{0, 1, 2, 3, 4}},
		{"f5 leader", "\xf5\x80", []rune{0xDCF5, 0xDC80}, []int{0, 1, 2}},
		{"truncated", "\xc3", []rune{0xDCC3}, []int{0, 1}},
		{"truncated then ascii", "\xe2\x82x", []rune{0xDCE2, 0xDC82, 'x'}, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var positions []int
			points := h.Decode(tt.input, nil, &positions)
			if diff := cmp.Diff(tt.want, points); diff != "" {
				t.Errorf("points mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.positions, positions); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeNeverSplitsCodePoints(t *testing.T) {
	// Position indexes always land on the first byte of a sequence, for any
	// input, so highlight spans never start mid code point.
	h := NewHandler(true)
	inputs := []string{
		"caf\xc3\xa9",
		"\xc3caf\xa9",
		"a\xe2\x82\xacb\xf0\x9f\x90\xb9",
		"\xff\xfe\x00bad",
	}
	for _, s := range inputs {
		var positions []int
		points := h.Decode(s, nil, &positions)
		if len(positions) != len(points)+1 {
			t.Fatalf("Decode(%q): %d positions for %d points", s, len(positions), len(points))
		}
		for i := 1; i < len(positions); i++ {
			if positions[i] <= positions[i-1] {
				t.Fatalf("Decode(%q): positions not strictly increasing: %v", s, positions)
			}
		}
		if positions[len(positions)-1] != len(s) {
			t.Fatalf("Decode(%q): missing end sentinel: %v", s, positions)
		}
	}
}

func TestClassification(t *testing.T) {
	byteMode := NewHandler(false)
	utf8Mode := NewHandler(true)

	if !byteMode.IsUpper('A') || byteMode.IsUpper('a') || byteMode.IsUpper('0') {
		t.Error("byte mode IsUpper wrong on ASCII")
	}
	if byteMode.IsUpper(0xC4) {
		t.Error("byte mode IsUpper must not treat high bytes as letters")
	}
	if !utf8Mode.IsUpper('Ż') || utf8Mode.IsUpper('ż') {
		t.Error("utf8 mode IsUpper wrong on non-ASCII")
	}

	if !byteMode.IsAlnum('z') || !byteMode.IsAlnum('5') || byteMode.IsAlnum('_') {
		t.Error("byte mode IsAlnum wrong")
	}
	if !utf8Mode.IsAlnum('ż') || utf8Mode.IsAlnum('/') {
		t.Error("utf8 mode IsAlnum wrong")
	}

	if got := byteMode.ToLower('M'); got != 'm' {
		t.Errorf("byte mode ToLower('M') = %q", got)
	}
	if got := utf8Mode.ToLower('Ł'); got != 'ł' {
		t.Errorf("utf8 mode ToLower('Ł') = %q", got)
	}
}
