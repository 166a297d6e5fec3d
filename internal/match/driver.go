package match

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// MatchInfo carries per-result match metadata for sinks that asked for it.
type MatchInfo struct {
	score     uint64
	fields    Score
	positions []int
}

// Score returns the packed score.
func (mi *MatchInfo) Score() uint64 { return mi.score }

// MatchPositions returns the sorted, deduplicated byte offsets into the
// item's match key at which query characters matched.
func (mi *MatchInfo) MatchPositions() []int { return mi.positions }

// ScoreDebugString renders the score's field breakdown.
func (mi *MatchInfo) ScoreDebugString() string { return mi.fields.String() }

// ForEachMatch matches every item the source produces against the query and
// calls sink for each surviving item in descending match quality. Workers
// run in parallel; the sink runs on the calling goroutine after they join.
func ForEachMatch(query string, opts Options, src Source, sink Sink) error {
	if opts.NrThreads < 1 {
		return fmt.Errorf("%w: nr_threads must be at least 1, got %d", ErrInvalidOption, opts.NrThreads)
	}

	q := NewQuery(query, opts)

	perThread := make([][]Matched, opts.NrThreads)
	var g errgroup.Group
	for t := 0; t < opts.NrThreads; t++ {
		t := t
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", ErrWorkerFailed, r)
				}
			}()
			perThread[t] = matchWorker(q, opts, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if failing, ok := src.(interface{ Err() error }); ok {
		if err := failing.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceFailed, err)
		}
	}

	total := 0
	for _, matches := range perThread {
		total += len(matches)
	}
	all := make([]Matched, 0, total)
	for _, matches := range perThread {
		all = append(all, matches...)
	}

	sort.Slice(all, func(i, j int) bool { return better(all[i], all[j]) })
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}

	debugf("query=%q matched=%d emitted=%d threads=%d", query, total, len(all), opts.NrThreads)

	if !opts.WantMatchInfo {
		for _, m := range all {
			sink(m.Item, nil)
		}
		return nil
	}

	// Winners are re-matched on a fresh matcher to rebuild their positions.
	// A failure here means the matcher broke one of its own invariants.
	m := NewMatcher(q)
	for _, res := range all {
		if !m.Match(res.Item.MatchKey()) {
			return fmt.Errorf("%w: failed to re-match known match %q during position collection",
				ErrInternal, res.Item.MatchKey())
		}
		info := &MatchInfo{
			score:     m.PackedScore(),
			fields:    m.Score(),
			positions: m.MatchPositions(),
		}
		sink(res.Item, info)
	}
	return nil
}

// matchWorker pulls batches from the source until it is exhausted, matching
// each item on a thread-local matcher. With a limit, a bounded min-heap
// keeps only the worth-keeping matches per thread.
func matchWorker(q *Query, opts Options, src Source) []Matched {
	m := NewMatcher(q)
	tc := newTopCollector(opts.Limit)

	batchCap := src.BatchSize()
	if batchCap <= 0 {
		batchCap = defaultBatchSize
	}
	batch := make([]Item, 0, batchCap)
	for {
		batch = batch[:0]
		more := src.Fill(&batch)
		for _, item := range batch {
			if m.Match(item.MatchKey()) {
				tc.Add(Matched{Score: m.PackedScore(), Item: item})
			}
		}
		if !more {
			break
		}
	}
	return tc.Drain()
}
