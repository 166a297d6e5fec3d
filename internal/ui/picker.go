// Package ui implements the interactive terminal picker: type to re-rank
// the candidate list, arrows to move, Enter to print the selection.
package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/pathmatch/internal/ctrlp"
	"github.com/kk-code-lab/pathmatch/internal/match"
)

// Config carries the matcher options the picker re-runs on every keystroke.
type Config struct {
	CRFile    string
	NrThreads int
	Path      bool
	Unicode   bool
	Mode      match.Mode
}

// Picker owns the screen and the candidate list for one interactive run.
type Picker struct {
	screen tcell.Screen
	cfg    Config
	items  []match.Item

	query     string
	rows      []row
	selected  int
	scroll    int
	nrMatched int
}

type row struct {
	line   string
	spans  []ctrlp.Group
	offset int
}

// NewPicker initialises a screen over the given candidate lines.
func NewPicker(lines []string, cfg Config) (*Picker, error) {
	if cfg.NrThreads < 1 {
		cfg.NrThreads = 1
	}
	items := make([]match.Item, len(lines))
	for i, line := range lines {
		items[i] = match.LineItem{Line: line, Mode: cfg.Mode}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Picker{screen: screen, cfg: cfg, items: items}, nil
}

// Run drives the event loop until the user accepts or cancels. It returns
// the selected line, or ok=false on cancel.
func (p *Picker) Run() (selection string, ok bool) {
	defer p.screen.Fini()

	p.refresh()
	for {
		p.render()
		ev := p.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			p.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return "", false
			case tcell.KeyEnter:
				if p.selected < len(p.rows) {
					return p.rows[p.selected].line, true
				}
			case tcell.KeyUp, tcell.KeyCtrlP:
				p.move(-1)
			case tcell.KeyDown, tcell.KeyCtrlN:
				p.move(1)
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if p.query != "" {
					p.query = trimLastRune(p.query)
					p.refresh()
				}
			case tcell.KeyCtrlU:
				if p.query != "" {
					p.query = ""
					p.refresh()
				}
			case tcell.KeyRune:
				p.query += string(ev.Rune())
				p.refresh()
			}
		}
	}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

func (p *Picker) move(delta int) {
	next := p.selected + delta
	if next < 0 || next >= len(p.rows) {
		return
	}
	p.selected = next
}

// refresh re-ranks the candidates for the current query. The limit tracks
// the tallest plausible screen rather than the visible height so resizes
// don't force a re-match.
func (p *Picker) refresh() {
	const keep = 500

	p.rows = p.rows[:0]
	p.selected = 0
	p.scroll = 0
	p.nrMatched = 0

	opts := match.Options{
		CRFile:        p.cfg.CRFile,
		Limit:         keep,
		NrThreads:     p.cfg.NrThreads,
		Path:          p.cfg.Path,
		Unicode:       p.cfg.Unicode,
		WantMatchInfo: true,
	}
	err := match.ForEachMatch(p.query, opts, match.NewSliceSource(p.items),
		func(item match.Item, info *match.MatchInfo) {
			li := item.(match.LineItem)
			spans, _ := ctrlp.GroupPositions("detailed", info.MatchPositions())
			p.rows = append(p.rows, row{
				line:   li.Line,
				spans:  spans,
				offset: li.KeyOffset(),
			})
		})
	if err != nil {
		return
	}
	p.nrMatched = len(p.rows)
}

func (p *Picker) render() {
	w, h := p.screen.Size()
	p.screen.Clear()
	if h < 2 {
		p.screen.Show()
		return
	}

	listHeight := h - 1
	if p.selected < p.scroll {
		p.scroll = p.selected
	}
	if p.selected >= p.scroll+listHeight {
		p.scroll = p.selected - listHeight + 1
	}

	base := tcell.StyleDefault
	highlight := base.Foreground(tcell.ColorYellow).Bold(true)
	selectedStyle := base.Reverse(true)

	for y := 0; y < listHeight; y++ {
		idx := p.scroll + y
		if idx >= len(p.rows) {
			break
		}
		r := p.rows[idx]
		rowStyle := base
		if idx == p.selected {
			rowStyle = selectedStyle
		}
		p.drawLine(0, y, w, r, rowStyle, highlight, idx == p.selected)
	}

	prompt := sanitizeRow("> " + p.query)
	p.drawText(0, h-1, w, prompt, base.Bold(true))
	counter := fmt.Sprintf(" %d/%d ", p.nrMatched, len(p.items))
	if cx := w - runewidth.StringWidth(counter); cx > runewidth.StringWidth(prompt)+1 {
		p.drawText(cx, h-1, w, counter, base.Dim(true))
	}
	p.screen.ShowCursor(runewidth.StringWidth(prompt), h-1)
	p.screen.Show()
}

// drawLine paints one candidate, bolding the bytes inside its match spans.
func (p *Picker) drawLine(x, y, maxW int, r row, base, highlight tcell.Style, selected bool) {
	byteOff := 0
	for _, ch := range r.line {
		if x >= maxW {
			return
		}
		style := base
		if inSpans(r.spans, byteOff-r.offset) {
			style = highlight
			if selected {
				style = style.Reverse(true)
			}
		}
		display := ch
		if ch < 0x20 || ch == 0x7F {
			// Control characters from candidate lists must not reach the
			// terminal.
			display = '?'
		}
		p.screen.SetContent(x, y, display, nil, style)
		x += runewidth.RuneWidth(display)
		byteOff += len(string(ch))
	}
}

func (p *Picker) drawText(x, y, maxW int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= maxW {
			return
		}
		p.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}

func inSpans(spans []ctrlp.Group, pos int) bool {
	for _, s := range spans {
		if pos >= s.Begin && pos < s.End {
			return true
		}
	}
	return false
}

// sanitizeRow strips control characters so candidate text cannot inject
// escape sequences into the terminal.
func sanitizeRow(text string) string {
	clean := true
	for _, r := range text {
		if r < 0x20 || r == 0x7F {
			clean = false
			break
		}
	}
	if clean {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		if r < 0x20 || r == 0x7F {
			b.WriteRune('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
