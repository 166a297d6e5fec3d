// Package ctrlp builds the editor-facing representation of match results:
// grouped highlight spans and the Vim regexes CtrlP uses to paint them.
package ctrlp

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/pathmatch/internal/match"
)

// Group is a half-open [Begin, End) byte range of an item to highlight.
type Group struct {
	Begin, End int
}

// GroupPositions collapses sorted match positions into highlight groups.
// Mode "none" (or empty) yields nothing, "basic" a single span from first
// to last matched byte, "detailed" one span per consecutive run.
func GroupPositions(mode string, positions []int) ([]Group, error) {
	switch mode {
	case "", "none":
		return nil, nil
	case "basic":
		if len(positions) == 0 {
			return nil, nil
		}
		return []Group{{Begin: positions[0], End: positions[len(positions)-1] + 1}}, nil
	case "detailed":
		return groupDetailed(positions), nil
	}
	return nil, fmt.Errorf("%w: unknown highlight mode %q", match.ErrInvalidOption, mode)
}

func groupDetailed(positions []int) []Group {
	var groups []Group
	begin, end := 0, 0
	for _, pos := range positions {
		if pos != end {
			if begin != end {
				groups = append(groups, Group{Begin: begin, End: end})
			}
			begin, end = pos, pos
		}
		end++
	}
	if begin != end {
		groups = append(groups, Group{Begin: begin, End: end})
	}
	return groups
}

// HighlightRegexes returns one Vim very-nomagic regex per highlight group,
// anchored over linePrefix+item, with \zs and \ze delimiting the matched
// span. positions must be sorted.
func HighlightRegexes(mode, item string, positions []int, linePrefix string) ([]string, error) {
	groups, err := GroupPositions(mode, positions)
	if err != nil {
		return nil, err
	}
	regexes := make([]string, 0, len(groups))
	for _, g := range groups {
		var b strings.Builder
		b.WriteString(`\V\C\^`)
		writeEscaped(&b, linePrefix)
		writeEscaped(&b, item[:g.Begin])
		b.WriteString(`\zs`)
		writeEscaped(&b, item[g.Begin:g.End])
		b.WriteString(`\ze`)
		writeEscaped(&b, item[g.End:])
		b.WriteString(`\$`)
		regexes = append(regexes, b.String())
	}
	return regexes, nil
}

// writeEscaped writes s escaping backslashes, the only magic character
// under \V.
func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			b.WriteString(`\\`)
		} else {
			b.WriteByte(s[i])
		}
	}
}
