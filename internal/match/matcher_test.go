package match

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pathOpts() Options {
	return Options{NrThreads: 1, Path: true}
}

func matchOne(t *testing.T, query string, opts Options, item string) (*Matcher, bool) {
	t.Helper()
	m := NewMatcher(NewQuery(query, opts))
	return m, m.Match(item)
}

func TestMatchSubsequence(t *testing.T) {
	tests := []struct {
		query string
		item  string
		want  bool
	}{
		{"fb", "fbar", true},
		{"fb", "foo/bar", true},
		{"fb", "barfoo", false},
		{"fb", "foo/qux", false},
		{"abc", "a/b/c", true},
		{"abc", "acb", false},
		{"", "anything", true},
		{"", "", true},
		{"x", "", false},
		{"foo", "f_o_o", true},
	}
	for _, tt := range tests {
		if _, got := matchOne(t, tt.query, pathOpts(), tt.item); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.query, tt.item, got, tt.want)
		}
	}
}

func TestMatchSmartcase(t *testing.T) {
	tests := []struct {
		query string
		item  string
		want  bool
	}{
		// Lowercase queries fold the item.
		{"foobar", "FooBar", true},
		{"readme", "README.md", true},
		// Any uppercase makes the query case-sensitive.
		{"FooBar", "FooBar", true},
		{"FooBar", "foobar", false},
		{"Readme", "README.md", false},
	}
	for _, tt := range tests {
		if _, got := matchOne(t, tt.query, pathOpts(), tt.item); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.query, tt.item, got, tt.want)
		}
	}
}

func TestMatchSpecialPaths(t *testing.T) {
	tests := []struct {
		item string
		want bool
	}{
		{"", false},
		{"/", false},
		{"a/", true},
		{"/a", true},
	}
	for _, tt := range tests {
		if _, got := matchOne(t, "a", pathOpts(), tt.item); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", "a", tt.item, got, tt.want)
		}
	}
}

func TestPrefixLevels(t *testing.T) {
	tests := []struct {
		query string
		item  string
		level PrefixLevel
		whole bool
	}{
		{"fb", "fbar", PrefixBasenameWord, true},
		{"fb", "foo/foo_bar", PrefixBasenameWord, true},
		{"fb", "foo/FooBar", PrefixBasenameWord, true},
		// The basename share of the query lands at a word start even
		// though the match crosses components.
		{"fb", "foo/bar", PrefixBasenameWord, false},
		// The 'b' is buried mid-word, so only the component pass holds.
		{"fb", "foo/foobar", PrefixComponent, true},
		{"fb", "foo/abar", PrefixComponent, false},
		{"fb", "foob/ar", PrefixComponent, false},
	}
	for _, tt := range tests {
		m, ok := matchOne(t, tt.query, pathOpts(), tt.item)
		if !ok {
			t.Errorf("Match(%q, %q) failed to match", tt.query, tt.item)
			continue
		}
		s := m.Score()
		if s.Level != tt.level {
			t.Errorf("Match(%q, %q) level = %v, want %v", tt.query, tt.item, s.Level, tt.level)
		}
		if s.WholeBasename != tt.whole {
			t.Errorf("Match(%q, %q) whole basename = %v, want %v", tt.query, tt.item, s.WholeBasename, tt.whole)
		}
	}
}

func TestWordGapsBreakTies(t *testing.T) {
	// "foo" matches both basenames entirely at word prefixes with the same
	// submatch length; the unmatched leading word demotes bar_foo.
	a, _ := matchOne(t, "foo", pathOpts(), "foo_bar")
	b, _ := matchOne(t, "foo", pathOpts(), "bar_foo")

	sa, sb := a.Score(), b.Score()
	if sa.WordGaps != 0 {
		t.Errorf("foo_bar word gaps = %d, want 0", sa.WordGaps)
	}
	if sb.WordGaps != 1 {
		t.Errorf("bar_foo word gaps = %d, want 1", sb.WordGaps)
	}
	if sa.Pack() <= sb.Pack() {
		t.Errorf("foo_bar (%v) should outrank bar_foo (%v)", sa, sb)
	}
}

func TestWordPrefixBacktrack(t *testing.T) {
	// The 'b' first binds to "ab"; entering "bc" recovers it so the whole
	// query still matches at word prefixes.
	m, ok := matchOne(t, "abc", pathOpts(), "ab_bc")
	if !ok {
		t.Fatal("expected match")
	}
	if got := m.Score().Level; got != PrefixBasenameWord {
		t.Errorf("level = %v, want %v", got, PrefixBasenameWord)
	}
	if diff := cmp.Diff([]int{0, 3, 4}, m.MatchPositions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrentFileHidden(t *testing.T) {
	opts := pathOpts()
	opts.CRFile = "mm/memcontrol.c"

	if _, ok := matchOne(t, "mem", opts, "mm/memcontrol.c"); ok {
		t.Error("current file must be hidden when MatchCRFile is false")
	}

	opts.MatchCRFile = true
	m, ok := matchOne(t, "mem", opts, "mm/memcontrol.c")
	if !ok {
		t.Fatal("current file must match when MatchCRFile is set")
	}
	s := m.Score()
	if s.PathDistance != 0 {
		t.Errorf("path distance = %d, want 0", s.PathDistance)
	}
	if s.SharedWords != 0 {
		t.Errorf("shared words = %d, want 0 for the current file itself", s.SharedWords)
	}
}

func TestSharedWords(t *testing.T) {
	tests := []struct {
		crfile string
		item   string
		want   int
	}{
		{"mm/memcontrol.c", "include/linux/memcontrol.h", 1},
		{"mm/memcontrol.c", "Kbuild", 0},
		{"kernel/signal.c", "arch/x86/um/signal.c", 2},
		{"kernel/signal.c", "arch/x86/Kbuild", 0},
		// "mem" must not be credited against a continuation like "memory".
		{"mm/mem.c", "mm/memory.c", 0},
		{"mm/mem.c", "mm/mem.h", 1},
	}
	for _, tt := range tests {
		opts := pathOpts()
		opts.CRFile = tt.crfile
		m, ok := matchOne(t, "", opts, tt.item)
		if !ok {
			t.Errorf("empty query failed to match %q", tt.item)
			continue
		}
		if got := m.Score().SharedWords; got != tt.want {
			t.Errorf("crfile=%q item=%q shared words = %d, want %d", tt.crfile, tt.item, got, tt.want)
		}
	}
}

func TestEmptyQueryScoresIdentical(t *testing.T) {
	q := NewQuery("", pathOpts())
	m := NewMatcher(q)
	var packed []uint64
	for _, item := range []string{"a", "deep/nested/path.go", "", "z/y"} {
		if !m.Match(item) {
			t.Fatalf("empty query failed to match %q", item)
		}
		packed = append(packed, m.PackedScore())
	}
	for i := 1; i < len(packed); i++ {
		if packed[i] != packed[0] {
			t.Fatalf("empty query scores differ: %v", packed)
		}
	}
}

func TestStrictPathMode(t *testing.T) {
	opts := pathOpts()
	opts.PathMode = PathModeAuto

	// A separator in the query turns on full-component matching in auto
	// mode: "x86" must consume a whole trailing component.
	m, ok := matchOne(t, "x86/", opts, "arch/x86/um/signal.c")
	if !ok {
		t.Fatal("expected match")
	}
	if got := m.Score().Level; got != PrefixComponent {
		t.Errorf("level = %v, want %v", got, PrefixComponent)
	}
	// All positions stay inside the "x86/" component.
	want := []int{5, 6, 7, 8}
	if diff := cmp.Diff(want, m.MatchPositions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchPositionsSound(t *testing.T) {
	tests := []struct {
		query string
		item  string
	}{
		{"fb", "fbar"},
		{"fb", "foo/bar"},
		{"fb", "foo/foo_bar_test"},
		{"fb", "foob/ar"},
		{"foo", "bar_foo"},
		{"abc", "a/b/c"},
		{"a.c", "src/alpha.c"},
	}
	for _, tt := range tests {
		m, ok := matchOne(t, tt.query, pathOpts(), tt.item)
		if !ok {
			t.Errorf("Match(%q, %q) failed", tt.query, tt.item)
			continue
		}
		positions := m.MatchPositions()
		if len(positions) != len(tt.query) {
			t.Errorf("Match(%q, %q): %d positions, want %d (%v)",
				tt.query, tt.item, len(positions), len(tt.query), positions)
			continue
		}
		got := make([]byte, 0, len(positions))
		for i, pos := range positions {
			if pos < 0 || pos >= len(tt.item) {
				t.Errorf("Match(%q, %q): position %d out of range", tt.query, tt.item, pos)
			}
			if i > 0 && positions[i-1] >= pos {
				t.Errorf("Match(%q, %q): positions not strictly increasing: %v", tt.query, tt.item, positions)
			}
			got = append(got, tt.item[pos])
		}
		if strings.ToLower(string(got)) != strings.ToLower(tt.query) {
			t.Errorf("Match(%q, %q): positions select %q", tt.query, tt.item, got)
		}
	}
}

func TestMatchPositionsUTF8(t *testing.T) {
	opts := pathOpts()
	opts.Unicode = true

	m, ok := matchOne(t, "\xc3\xa9", opts, "caf\xc3\xa9")
	if !ok {
		t.Fatal("expected match")
	}
	if diff := cmp.Diff([]int{3, 4}, m.MatchPositions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchPositionsMalformedUTF8(t *testing.T) {
	opts := pathOpts()
	opts.Unicode = true

	// A stray continuation byte neither fails the decode nor corrupts the
	// byte offsets of the characters after it.
	item := "a\x80b"
	m, ok := matchOne(t, "ab", opts, item)
	if !ok {
		t.Fatal("expected match")
	}
	if diff := cmp.Diff([]int{0, 2}, m.MatchPositions()); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcherScratchReuse(t *testing.T) {
	// One matcher across many items must behave like a fresh matcher per
	// item.
	q := NewQuery("fb", pathOpts())
	reused := NewMatcher(q)
	items := []string{"fbar", "barfoo", "foo/foo_bar", "", "foob/ar", "foo/FooBar"}
	for _, item := range items {
		fresh := NewMatcher(q)
		wantOK := fresh.Match(item)
		gotOK := reused.Match(item)
		if gotOK != wantOK {
			t.Fatalf("reused matcher: Match(%q) = %v, fresh = %v", item, gotOK, wantOK)
		}
		if !wantOK {
			continue
		}
		if reused.PackedScore() != fresh.PackedScore() {
			t.Errorf("reused matcher: score for %q = %v, fresh = %v", item, reused.Score(), fresh.Score())
		}
		if diff := cmp.Diff(fresh.MatchPositions(), reused.MatchPositions()); diff != "" {
			t.Errorf("reused matcher: positions for %q mismatch (-fresh +reused):\n%s", item, diff)
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	q := NewQuery("fbt", pathOpts())
	m := NewMatcher(q)
	items := []string{
		"fbar",
		"foo/bar",
		"foo/foo_bar_test",
		"drivers/net/ethernet/intel/e1000e/netdev.c",
		"Documentation/devicetree/bindings/arm/freescale.txt",
		"no match at all here",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Match(items[i%len(items)])
	}
}
