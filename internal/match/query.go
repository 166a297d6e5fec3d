package match

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/pathmatch/internal/pathutil"
	"github.com/kk-code-lab/pathmatch/internal/strutil"
)

// PathMode controls whether path components of the query must match whole
// trailing path components of the item.
type PathMode int

const (
	// PathModeAuto requires full components only when the query itself
	// contains a separator.
	PathModeAuto PathMode = iota
	// PathModeNormal never requires full components.
	PathModeNormal
	// PathModeStrict always requires full components.
	PathModeStrict
)

// ParsePathMode parses a path mode name.
func ParsePathMode(name string) (PathMode, error) {
	switch name {
	case "", "auto":
		return PathModeAuto, nil
	case "normal":
		return PathModeNormal, nil
	case "strict":
		return PathModeStrict, nil
	}
	return 0, fmt.Errorf("%w: unknown path mode %q", ErrInvalidOption, name)
}

// Options configure a single matching run.
type Options struct {
	// CRFile is the currently open file; it pulls siblings and neighbors
	// up the ranking.
	CRFile string

	// Limit caps the number of results; 0 means unlimited.
	Limit int

	// MatchCRFile keeps the current file itself in the candidate set.
	// When false the current file is hidden from results.
	MatchCRFile bool

	// NrThreads is the number of matcher workers; must be at least 1.
	NrThreads int

	// Path treats the query and all items as paths.
	Path bool

	// Unicode decodes the query and items as UTF-8 instead of raw bytes.
	Unicode bool

	// WantMatchInfo passes per-match positions and a score breakdown to
	// the sink.
	WantMatchInfo bool

	// PathMode selects full-component matching behavior; see PathMode.
	PathMode PathMode
}

// InvertQuery splits query on the given single-character delimiter,
// reverses the pieces and concatenates them, so "name dir" with a space
// delimiter matches the same items as "dirname". An empty delimiter returns
// the query unchanged.
func InvertQuery(query, delimiter string) (string, error) {
	if delimiter == "" {
		return query, nil
	}
	if len(delimiter) > 1 {
		return "", fmt.Errorf("%w: query inverting delimiter must be a single character", ErrInvalidOption)
	}
	pieces := strings.Split(query, delimiter)
	var b strings.Builder
	for i := len(pieces) - 1; i >= 0; i-- {
		b.WriteString(pieces[i])
	}
	return b.String(), nil
}

// Query is the immutable per-invocation matcher state. It is built once and
// shared read-only by every worker's matcher.
type Query struct {
	handler strutil.Handler

	chars  []rune
	qAlnum []bool

	// Index of the first query character after the rightmost separator;
	// zero when the query has none.
	basenameIdx int

	// Case-sensitive iff the query contains an uppercase character.
	caseSensitive bool

	requireFullPart bool
	isPath          bool
	matchCRFile     bool

	// Decoded current file, its basename, and the index one past each word
	// of the basename.
	crChars    []rune
	crBasename []rune
	crWordEnds []int
}

// NewQuery decodes the query and current file and derives the shared match
// state.
func NewQuery(query string, opts Options) *Query {
	h := strutil.NewHandler(opts.Unicode)
	q := &Query{
		handler:     h,
		isPath:      opts.Path,
		matchCRFile: opts.MatchCRFile,
	}
	q.chars = h.Decode(query, nil, nil)

	q.qAlnum = make([]bool, len(q.chars))
	hasSeparator := false
	for i, c := range q.chars {
		q.qAlnum[i] = h.IsAlnum(c)
		if h.IsUpper(c) {
			q.caseSensitive = true
		}
		if pathutil.IsSeparator(c) {
			hasSeparator = true
		}
	}

	if opts.Path {
		q.basenameIdx = pathutil.BasenameIndex(q.chars)
		switch opts.PathMode {
		case PathModeStrict:
			q.requireFullPart = true
		case PathModeAuto:
			q.requireFullPart = hasSeparator
		}
		q.crChars = h.Decode(opts.CRFile, nil, nil)
		q.crBasename = q.crChars[pathutil.BasenameIndex(q.crChars):]
		q.crWordEnds = wordEnds(h, q.crBasename)
	}
	return q
}

// Empty reports whether the query has no characters. An empty query matches
// every item except a hidden current file; without a current file all its
// scores are identical.
func (q *Query) Empty() bool { return len(q.chars) == 0 }

// wordEnds returns, for each word of base, the index one past its last
// character. A word is a maximal alphanumeric run, split additionally where
// an uppercase character follows a non-uppercase one.
func wordEnds(h strutil.Handler, base []rune) []int {
	var ends []int
	inWord := false
	for i, c := range base {
		alnum := h.IsAlnum(c)
		startsWord := alnum && (!inWord ||
			(h.IsUpper(c) && i > 0 && !h.IsUpper(base[i-1])))
		if inWord && (!alnum || startsWord) {
			ends = append(ends, i)
			inWord = false
		}
		if startsWord {
			inWord = true
		}
	}
	if inWord {
		ends = append(ends, len(base))
	}
	return ends
}
