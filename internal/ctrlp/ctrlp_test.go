package ctrlp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kk-code-lab/pathmatch/internal/match"
)

func TestGroupPositions(t *testing.T) {
	positions := []int{0, 1, 4, 5, 6, 9}

	tests := []struct {
		mode string
		want []Group
	}{
		{"none", nil},
		{"", nil},
		{"basic", []Group{{0, 10}}},
		{"detailed", []Group{{0, 2}, {4, 7}, {9, 10}}},
	}
	for _, tt := range tests {
		got, err := GroupPositions(tt.mode, positions)
		if err != nil {
			t.Errorf("GroupPositions(%q) failed: %v", tt.mode, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("GroupPositions(%q) mismatch (-want +got):\n%s", tt.mode, diff)
		}
	}

	if got, err := GroupPositions("basic", nil); err != nil || got != nil {
		t.Errorf("GroupPositions(basic, nil) = %v, %v; want nil", got, err)
	}
	if _, err := GroupPositions("rainbow", positions); !errors.Is(err, match.ErrInvalidOption) {
		t.Errorf("unknown mode error = %v, want ErrInvalidOption", err)
	}
}

func TestHighlightRegexes(t *testing.T) {
	regexes, err := HighlightRegexes("detailed", "ab\\cd", []int{1, 3}, "> ")
	if err != nil {
		t.Fatalf("HighlightRegexes failed: %v", err)
	}
	want := []string{
		`\V\C\^> a\zsb\ze\\cd\$`,
		`\V\C\^> ab\\\zsc\zed\$`,
	}
	if diff := cmp.Diff(want, regexes); diff != "" {
		t.Errorf("regexes mismatch (-want +got):\n%s", diff)
	}

	none, err := HighlightRegexes("none", "abc", []int{0}, "")
	if err != nil || len(none) != 0 {
		t.Errorf("HighlightRegexes(none) = %v, %v; want empty", none, err)
	}
}
