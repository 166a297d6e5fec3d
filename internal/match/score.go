package match

import "fmt"

// PrefixLevel describes how strongly the end of the query attaches to word
// boundaries in the item basename.
type PrefixLevel uint8

const (
	// PrefixNone: the right-to-left component pass could not place the
	// query, so only a greedy submatch over the basename is scored.
	PrefixNone PrefixLevel = iota

	// PrefixComponent: the query's tail was placed across trailing path
	// components.
	PrefixComponent

	// PrefixBasenameWord: in addition, the basename portion of the query
	// matched entirely at word prefixes inside the item basename.
	PrefixBasenameWord
)

func (l PrefixLevel) String() string {
	switch l {
	case PrefixComponent:
		return "component"
	case PrefixBasenameWord:
		return "basename_word"
	default:
		return "none"
	}
}

// Field widths of the packed score, most significant first. The widths sum
// to 64; each field occupies a fixed lane so unsigned comparison of packed
// scores equals lexicographic comparison of the fields.
const (
	bitsPrefixLevel     = 2
	bitsWholeBasename   = 1
	bitsLongestSubmatch = 7
	bitsMatchCount      = 7
	bitsWordGaps        = 7
	bitsSharedWords     = 7
	bitsPathDistance    = 11
	bitsUnmatchedSuffix = 8
	bitsItemLength      = 14
)

// Score is the multi-field rank of one matched item. Fields are listed in
// decreasing significance; see Pack for the better-than direction of each.
type Score struct {
	// Prefix level; higher is better.
	Level PrefixLevel
	// Whole query basename consumed inside the item basename; true is
	// better.
	WholeBasename bool
	// Longest run of consecutively matched basename characters; higher is
	// better.
	LongestSubmatch int
	// Query characters consumed inside the basename; higher is better.
	MatchCount int
	// Basename words up to the last matched word that contributed no
	// match; lower is better.
	WordGaps int
	// Leading whole words shared between the item basename and the
	// current file's basename; higher is better.
	SharedWords int
	// Directory hops between item and current file; lower is better.
	PathDistance int
	// Basename characters after the last matched one; lower is better.
	UnmatchedSuffix int
	// Total item length in code points; lower is weakly better.
	ItemLength int
}

func clampField(v, bits int) uint64 {
	limit := 1<<bits - 1
	if v < 0 {
		return 0
	}
	if v > limit {
		return uint64(limit)
	}
	return uint64(v)
}

func invertField(v, bits int) uint64 {
	return uint64(1<<bits-1) - clampField(v, bits)
}

// Pack folds the score into a single uint64 that compares as unsigned in
// the better-than direction: a strictly better score always packs to a
// strictly larger value. Lower-is-better fields are stored inverted.
func (s Score) Pack() uint64 {
	v := clampField(int(s.Level), bitsPrefixLevel)
	v = v<<bitsWholeBasename | boolField(s.WholeBasename)
	v = v<<bitsLongestSubmatch | clampField(s.LongestSubmatch, bitsLongestSubmatch)
	v = v<<bitsMatchCount | clampField(s.MatchCount, bitsMatchCount)
	v = v<<bitsWordGaps | invertField(s.WordGaps, bitsWordGaps)
	v = v<<bitsSharedWords | clampField(s.SharedWords, bitsSharedWords)
	v = v<<bitsPathDistance | invertField(s.PathDistance, bitsPathDistance)
	v = v<<bitsUnmatchedSuffix | invertField(s.UnmatchedSuffix, bitsUnmatchedSuffix)
	v = v<<bitsItemLength | invertField(s.ItemLength, bitsItemLength)
	return v
}

func boolField(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// String renders the raw field values for debug output.
func (s Score) String() string {
	return fmt.Sprintf(
		"prefix_level=%s, whole_basename=%t, longest_submatch=%d, match_count=%d, word_gaps=%d, shared_words=%d, path_distance=%d, unmatched_suffix=%d, item_length=%d",
		s.Level, s.WholeBasename, s.LongestSubmatch, s.MatchCount, s.WordGaps,
		s.SharedWords, s.PathDistance, s.UnmatchedSuffix, s.ItemLength)
}
