package match

import "container/heap"

// Matched binds an item to its packed score.
type Matched struct {
	Score uint64
	Item  Item
}

// better reports whether x outranks y: higher score first, then ascending
// sort key.
func better(x, y Matched) bool {
	if x.Score != y.Score {
		return x.Score > y.Score
	}
	return x.Item.SortKey() < y.Item.SortKey()
}

// matchedMinHeap keeps the worst of the retained matches at the root so it
// can be evicted in O(log n) when a better one arrives.
type matchedMinHeap []Matched

func (h matchedMinHeap) Len() int           { return len(h) }
func (h matchedMinHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h matchedMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *matchedMinHeap) Push(x any) {
	*h = append(*h, x.(Matched))
}

func (h *matchedMinHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topCollector retains the best max matches seen so far. With max <= 0 it
// retains everything.
type topCollector struct {
	max  int
	all  []Matched
	minH matchedMinHeap
}

func newTopCollector(max int) *topCollector {
	tc := &topCollector{max: max}
	if max > 0 {
		tc.minH = make(matchedMinHeap, 0, max+1)
	}
	return tc
}

func (tc *topCollector) Add(m Matched) {
	if tc.max <= 0 {
		tc.all = append(tc.all, m)
		return
	}
	if tc.minH.Len() < tc.max {
		heap.Push(&tc.minH, m)
		return
	}
	if !better(m, tc.minH[0]) {
		return
	}
	heap.Pop(&tc.minH)
	heap.Push(&tc.minH, m)
}

// Drain returns the retained matches in unspecified order, transferring
// ownership to the caller.
func (tc *topCollector) Drain() []Matched {
	if tc.max <= 0 {
		out := tc.all
		tc.all = nil
		return out
	}
	out := []Matched(tc.minH)
	tc.minH = nil
	return out
}
