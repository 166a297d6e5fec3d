package match

import (
	"sort"

	"github.com/kk-code-lab/pathmatch/internal/pathutil"
)

// Matcher runs one query against one item at a time. It owns decode and
// property buffers that are reused across items, so a matcher must stay on
// a single goroutine; any number of matchers can share one Query.
type Matcher struct {
	q *Query

	// Per-item scratch, reused across Match calls.
	chars   []rune
	bytePos []int
	isUpper []bool
	isAlnum []bool
	parts   []pathutil.Span
	words   []pathutil.Span

	// State of the last successful match.
	matched  bool
	score    Score
	keyBegin int
	keyEnd   int
	// Query index where the basename-assigned portion of the query starts.
	qitKey int
	// Matched code-point positions in the directory portion and in the
	// basename, each sorted ascending by the time scoring finishes.
	dirPos []int
	keyPos []int
}

// NewMatcher returns a matcher bound to the given query state.
func NewMatcher(q *Query) *Matcher {
	return &Matcher{q: q}
}

// Match decides whether the item matches the query and, if so, computes its
// score. The result is kept on the matcher until the next call; use Score,
// PackedScore and MatchPositions to read it.
func (m *Matcher) Match(item string) bool {
	q := m.q
	m.matched = false
	m.score = Score{}
	m.dirPos = m.dirPos[:0]
	m.keyPos = m.keyPos[:0]
	m.bytePos = m.bytePos[:0]

	m.chars = q.handler.Decode(item, m.chars[:0], &m.bytePos)
	m.recordProps()

	if q.Empty() {
		// Every item except a hidden current file matches an empty
		// query. Only the current-file fields
		// are scored so that, without a current file, all scores tie and
		// the sort key alone orders the output.
		m.matched = m.gateCRFile()
		return m.matched
	}

	if !m.scanSubsequence() {
		return false
	}
	if !m.gateCRFile() {
		return false
	}

	// The item is a confirmed match; the rest ranks it.
	m.foldInPlace()
	m.splitParts()
	m.score.ItemLength = len(m.chars)

	if !m.componentPass() {
		m.score.Level = PrefixNone
		m.scoreGreedyItem()
		m.matched = true
		return true
	}

	m.score.Level = PrefixComponent
	m.score.MatchCount = len(q.chars) - m.qitKey
	m.score.WholeBasename = m.qitKey == q.basenameIdx

	if m.qitKey == len(q.chars) {
		// Nothing assigned to the basename; everything after its start is
		// an unmatched tail.
		m.score.UnmatchedSuffix = m.keyEnd - m.keyBegin
	} else if m.wordPrefixPass() {
		m.score.Level = PrefixBasenameWord
		m.scoreKeyPositions(true)
	} else {
		m.greedyKeyPass()
		m.scoreKeyPositions(false)
	}

	m.matched = true
	return true
}

// Matched reports whether the last Match call succeeded.
func (m *Matcher) Matched() bool { return m.matched }

// Score returns the score fields of the last match.
func (m *Matcher) Score() Score { return m.score }

// PackedScore returns the last match's score packed for unsigned
// comparison.
func (m *Matcher) PackedScore() uint64 { return m.score.Pack() }

// MatchPositions returns the sorted, deduplicated byte offsets in the item
// covered by matched query characters. Every byte of a matched code point
// is reported so multi-byte characters highlight whole.
func (m *Matcher) MatchPositions() []int {
	if !m.matched {
		return nil
	}
	points := make([]int, 0, len(m.dirPos)+len(m.keyPos))
	points = append(points, m.dirPos...)
	points = append(points, m.keyPos...)
	sort.Ints(points)

	out := make([]int, 0, len(points))
	prev := -1
	for _, p := range points {
		if p == prev {
			continue
		}
		prev = p
		for b := m.bytePos[p]; b < m.bytePos[p+1]; b++ {
			out = append(out, b)
		}
	}
	return out
}

func (m *Matcher) recordProps() {
	h := m.q.handler
	if cap(m.isUpper) < len(m.chars) {
		m.isUpper = make([]bool, len(m.chars))
		m.isAlnum = make([]bool, len(m.chars))
	}
	m.isUpper = m.isUpper[:len(m.chars)]
	m.isAlnum = m.isAlnum[:len(m.chars)]
	for i, c := range m.chars {
		m.isUpper[i] = h.IsUpper(c)
		m.isAlnum[i] = h.IsAlnum(c)
	}
}

// scanSubsequence walks the item left to right consuming query characters
// greedily, folding item characters when the query is case-insensitive.
func (m *Matcher) scanSubsequence() bool {
	q := m.q
	qk := 0
	for i := 0; i < len(m.chars) && qk < len(q.chars); i++ {
		c := m.chars[i]
		if !q.caseSensitive && m.isUpper[i] {
			c = q.handler.ToLower(c)
		}
		if c == q.chars[qk] {
			qk++
		}
	}
	return qk == len(q.chars)
}

// gateCRFile computes the current-file score fields and hides the current
// file itself unless MatchCRFile is set. It reports whether the item stays
// in the candidate set.
func (m *Matcher) gateCRFile() bool {
	q := m.q
	if !q.isPath || len(q.crChars) == 0 {
		return true
	}
	dist := pathutil.Distance(m.chars, q.crChars)
	if dist == 0 && !q.matchCRFile {
		return false
	}
	m.score.PathDistance = dist
	if dist != 0 {
		m.score.SharedWords = m.sharedWords()
	}
	return true
}

// sharedWords counts leading whole words of the current file's basename
// that the item basename reproduces. A word boundary is not counted when
// the item continues straight into more lowercase alphanumerics, so "mem"
// is not credited against "memory".
func (m *Matcher) sharedWords() int {
	q := m.q
	base := m.chars[pathutil.BasenameIndex(m.chars):]
	crBase := q.crBasename

	count := 0
	i := 0
	for _, end := range q.crWordEnds {
		for i < end {
			if i >= len(base) || i >= len(crBase) || base[i] != crBase[i] {
				return count
			}
			i++
		}
		if i < len(base) && q.handler.IsAlnum(base[i]) && q.handler.IsLower(base[i]) {
			continue
		}
		count++
	}
	return count
}

func (m *Matcher) foldInPlace() {
	q := m.q
	if q.caseSensitive {
		return
	}
	for i := range m.chars {
		if m.isUpper[i] {
			m.chars[i] = q.handler.ToLower(m.chars[i])
		}
	}
}

func (m *Matcher) splitParts() {
	m.parts = m.parts[:0]
	if m.q.isPath {
		m.parts = pathutil.SplitRetainingSeparators(m.chars, m.parts)
	} else if len(m.chars) > 0 {
		m.parts = append(m.parts, pathutil.Span{Begin: 0, End: len(m.chars)})
	}
	if len(m.parts) == 0 {
		m.keyBegin, m.keyEnd = 0, 0
		return
	}
	key := m.parts[len(m.parts)-1]
	m.keyBegin, m.keyEnd = key.Begin, key.End
}

// componentPass walks the item's path components right to left, consuming
// query characters greedily right to left within each component. In
// full-part mode a component match that stops mid-component is discarded.
// It records the matched directory positions and the query index where the
// basename's share of the query begins, and reports whether the whole query
// was placed.
func (m *Matcher) componentPass() bool {
	q := m.q
	qc := q.chars
	qi := len(qc) - 1
	last := len(m.parts) - 1
	m.qitKey = len(qc)

	for p := last; p >= 0 && qi >= 0; p-- {
		span := m.parts[p]
		prevQi := qi
		mark := len(m.dirPos)
		for j := span.End - 1; j >= span.Begin && qi >= 0; j-- {
			if m.chars[j] == qc[qi] {
				m.dirPos = append(m.dirPos, j)
				qi--
			}
		}
		if q.requireFullPart && qi >= 0 && !pathutil.IsSeparator(qc[qi]) {
			qi = prevQi
			m.dirPos = m.dirPos[:mark]
			continue
		}
		if p == last {
			m.qitKey = qi + 1
			// Basename positions are recomputed by the scoring passes.
			m.dirPos = m.dirPos[:mark]
		}
	}

	if qi >= 0 {
		m.dirPos = m.dirPos[:0]
		return false
	}
	// Restore ascending order after the right-to-left walk.
	sort.Ints(m.dirPos)
	return true
}

func (m *Matcher) isWordStart(i int) bool {
	if i == m.keyBegin {
		return true
	}
	if m.isAlnum[i] && !m.isAlnum[i-1] {
		return true
	}
	if m.isUpper[i] && !m.isUpper[i-1] {
		return true
	}
	return false
}

// buildKeyWords collects the word spans of the basename: maximal
// alphanumeric runs, split additionally at uppercase-after-non-uppercase
// starts.
func (m *Matcher) buildKeyWords() {
	m.words = m.words[:0]
	for i := m.keyBegin; i < m.keyEnd; i++ {
		if !m.isAlnum[i] {
			continue
		}
		n := len(m.words)
		if n > 0 && m.words[n-1].End == i && !m.isWordStart(i) {
			m.words[n-1].End = i + 1
		} else {
			m.words = append(m.words, pathutil.Span{Begin: i, End: i + 1})
		}
	}
}

// wordPrefixPass tries to place the basename's share of the query so that
// every alphanumeric query character either starts a word or extends a
// contiguously matched word prefix. When a word's first character refuses
// the current query character, a suffix of the previous word's matches may
// be given back — never its first — and retried here. Reports whether the
// whole share was placed; on success keyPos holds the positions.
func (m *Matcher) wordPrefixPass() bool {
	q := m.q
	qc := q.chars
	qk := m.qitKey
	m.keyPos = m.keyPos[:0]
	m.buildKeyWords()

	atWordStart := false
	prevConsumed := 0
	consumed := 0

	for i := m.keyBegin; i < m.keyEnd && qk < len(qc); i++ {
		isStart := m.isWordStart(i)
		if isStart {
			prevConsumed = consumed
			consumed = 0
			atWordStart = true
		}
		if q.qAlnum[qk] && !atWordStart {
			continue
		}
		if m.chars[i] == qc[qk] {
			m.keyPos = append(m.keyPos, i)
			consumed++
			qk++
			continue
		}
		if isStart && prevConsumed > 1 {
			recovered := false
			for r := 1; r < prevConsumed; r++ {
				if m.chars[i] == qc[qk-r] {
					qk -= r
					m.keyPos = m.keyPos[:len(m.keyPos)-r]
					m.keyPos = append(m.keyPos, i)
					consumed++
					qk++
					recovered = true
					break
				}
			}
			if recovered {
				continue
			}
		}
		atWordStart = false
	}

	if qk < len(qc) {
		m.keyPos = m.keyPos[:0]
		return false
	}
	return true
}

// greedyKeyPass places the basename's share of the query by a plain greedy
// left-to-right walk. The component pass already proved the share is a
// subsequence of the basename, so this always completes.
func (m *Matcher) greedyKeyPass() {
	qc := m.q.chars
	qk := m.qitKey
	m.keyPos = m.keyPos[:0]
	for i := m.keyBegin; i < m.keyEnd && qk < len(qc); i++ {
		if m.chars[i] == qc[qk] {
			m.keyPos = append(m.keyPos, i)
			qk++
		}
	}
}

// scoreKeyPositions derives the basename metrics from keyPos. Word gaps are
// only charged on word-prefix matches, where word structure is known to be
// meaningful.
func (m *Matcher) scoreKeyPositions(withGaps bool) {
	if len(m.keyPos) == 0 {
		m.score.UnmatchedSuffix = m.keyEnd - m.keyBegin
		return
	}

	run, best := 1, 1
	for i := 1; i < len(m.keyPos); i++ {
		if m.keyPos[i] == m.keyPos[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	last := m.keyPos[len(m.keyPos)-1]
	m.score.LongestSubmatch = best
	m.score.UnmatchedSuffix = m.keyEnd - (last + 1)

	if !withGaps {
		return
	}
	pi := 0
	for _, w := range m.words {
		if w.Begin > last {
			break
		}
		for pi < len(m.keyPos) && m.keyPos[pi] < w.Begin {
			pi++
		}
		if pi >= len(m.keyPos) || m.keyPos[pi] >= w.End {
			m.score.WordGaps++
		}
	}
}

// scoreGreedyItem scores a match the component pass rejected: a greedy left
// to right walk over the whole item, with only the basename's share of the
// matches contributing to the basename metrics.
func (m *Matcher) scoreGreedyItem() {
	qc := m.q.chars
	qk := 0
	for i := 0; i < len(m.chars) && qk < len(qc); i++ {
		if m.chars[i] == qc[qk] {
			if i >= m.keyBegin {
				m.keyPos = append(m.keyPos, i)
			} else {
				m.dirPos = append(m.dirPos, i)
			}
			qk++
		}
	}
	m.score.MatchCount = len(m.keyPos)
	m.scoreKeyPositions(false)
}
