package match

import (
	"fmt"
	"strings"
)

// Mode selects which portion of an item is offered to the matcher. The full
// item is always what results report; positions computed against the match
// key are shifted back by the key's byte offset.
type Mode int

const (
	// ModeFullLine matches the entire item.
	ModeFullLine Mode = iota
	// ModeFilenameOnly matches the portion after the last path separator.
	ModeFilenameOnly
	// ModeFirstNonTab matches up to the first tab.
	ModeFirstNonTab
	// ModeUntilLastTab matches up to, excluding, the last tab.
	ModeUntilLastTab
)

// ParseMode parses a match mode name. The empty string means full-line.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "full-line":
		return ModeFullLine, nil
	case "filename-only":
		return ModeFilenameOnly, nil
	case "first-non-tab":
		return ModeFirstNonTab, nil
	case "until-last-tab":
		return ModeUntilLastTab, nil
	}
	return 0, fmt.Errorf("%w: unknown match mode %q", ErrInvalidOption, name)
}

// keyBounds returns the byte range of item that the mode offers for
// matching.
func (m Mode) keyBounds(item string) (begin, end int) {
	switch m {
	case ModeFilenameOnly:
		return strings.LastIndexByte(item, '/') + 1, len(item)
	case ModeFirstNonTab:
		if i := strings.IndexByte(item, '\t'); i >= 0 {
			return 0, i
		}
	case ModeUntilLastTab:
		if i := strings.LastIndexByte(item, '\t'); i >= 0 {
			return 0, i
		}
	}
	return 0, len(item)
}

// LineItem is one candidate line under a match mode. The full line is the
// sort key and what results carry; only the mode-selected substring is
// matched.
type LineItem struct {
	Line string
	Mode Mode
}

func (it LineItem) MatchKey() string {
	begin, end := it.Mode.keyBounds(it.Line)
	return it.Line[begin:end]
}

func (it LineItem) SortKey() string { return it.Line }

// KeyOffset returns the byte offset of the match key within the full line,
// to be added to match positions when highlighting the full item.
func (it LineItem) KeyOffset() int {
	begin, _ := it.Mode.keyBounds(it.Line)
	return begin
}
