package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kk-code-lab/pathmatch/internal/ctrlp"
	"github.com/kk-code-lab/pathmatch/internal/match"
	"github.com/kk-code-lab/pathmatch/internal/textio"
	"github.com/kk-code-lab/pathmatch/internal/ui"
)

func main() {
	app := &cli.App{
		Name:      "pathmatch",
		Usage:     "rank candidate paths against a fuzzy query",
		ArgsUsage: "[candidates-file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "query to match items against"},
			&cli.StringFlag{Name: "crfile", Usage: "currently open file; pulls its neighbors up the ranking"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Usage: "maximum number of matches to print (0 = unlimited)"},
			&cli.IntFlag{Name: "threads", Aliases: []string{"j"}, Value: runtime.NumCPU(), Usage: "number of matcher workers"},
			&cli.StringFlag{Name: "match-mode", Value: "full-line", Usage: "portion of each item to match: full-line, filename-only, first-non-tab, until-last-tab"},
			&cli.StringFlag{Name: "highlight-mode", Value: "none", Usage: "highlight regex output: none, basic, detailed"},
			&cli.StringFlag{Name: "path-mode", Value: "auto", Usage: "component matching: auto, normal, strict"},
			&cli.StringFlag{Name: "invert-delimiter", Usage: "split the query on this character and reverse the pieces"},
			&cli.BoolFlag{Name: "unicode", Usage: "decode the query and items as UTF-8"},
			&cli.BoolFlag{Name: "no-path", Usage: "treat items as plain strings instead of paths"},
			&cli.BoolFlag{Name: "match-crfile", Usage: "keep the currently open file in the results"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "pick interactively in the terminal"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pathmatch: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	mode, err := match.ParseMode(c.String("match-mode"))
	if err != nil {
		return err
	}
	pathMode, err := match.ParsePathMode(c.String("path-mode"))
	if err != nil {
		return err
	}
	highlightMode := c.String("highlight-mode")
	if _, err := ctrlp.GroupPositions(highlightMode, nil); err != nil {
		return err
	}
	query, err := match.InvertQuery(c.String("query"), c.String("invert-delimiter"))
	if err != nil {
		return err
	}

	if c.Bool("interactive") && c.Args().First() == "" {
		// The terminal is needed for the picker, so candidates cannot
		// arrive on stdin.
		return fmt.Errorf("%w: interactive mode requires a candidates file", match.ErrInvalidOption)
	}

	lines, err := readCandidates(c)
	if err != nil {
		return err
	}

	if c.Bool("interactive") {
		return runInteractive(c, lines, mode)
	}

	opts := match.Options{
		CRFile:        c.String("crfile"),
		Limit:         c.Int("limit"),
		MatchCRFile:   c.Bool("match-crfile"),
		NrThreads:     c.Int("threads"),
		Path:          !c.Bool("no-path"),
		Unicode:       c.Bool("unicode"),
		WantMatchInfo: true,
		PathMode:      pathMode,
	}

	items := make([]match.Item, len(lines))
	for i, line := range lines {
		items[i] = match.LineItem{Line: line, Mode: mode}
	}

	out := os.Stdout
	return match.ForEachMatch(query, opts, match.NewSliceSource(items),
		func(item match.Item, info *match.MatchInfo) {
			li := item.(match.LineItem)
			positions := info.MatchPositions()
			if off := li.KeyOffset(); off != 0 {
				shifted := make([]int, len(positions))
				for i, pos := range positions {
					shifted[i] = pos + off
				}
				positions = shifted
			}

			fmt.Fprintf(out, "%s\n- score: %d; %s\n- match positions: %s\n",
				li.Line, info.Score(), info.ScoreDebugString(), joinInts(positions))
			if highlightMode != "none" {
				regexes, err := ctrlp.HighlightRegexes(highlightMode, li.Line, positions, "")
				if err == nil {
					for _, regex := range regexes {
						fmt.Fprintf(out, "- highlight: %s\n", regex)
					}
				}
			}
		})
}

func readCandidates(c *cli.Context) ([]string, error) {
	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		return textio.ReadLines(f)
	}
	return textio.ReadLines(os.Stdin)
}

func runInteractive(c *cli.Context, lines []string, mode match.Mode) error {
	picker, err := ui.NewPicker(lines, ui.Config{
		CRFile:    c.String("crfile"),
		NrThreads: c.Int("threads"),
		Path:      !c.Bool("no-path"),
		Unicode:   c.Bool("unicode"),
		Mode:      mode,
	})
	if err != nil {
		return err
	}
	selection, ok := picker.Run()
	if ok {
		fmt.Println(selection)
	}
	return nil
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}
