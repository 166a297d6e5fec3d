package match

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// defaultBatchSize amortises source lock acquisition over enough items that
// contention stays sub-linear in worker count while batches still fit in
// per-core cache.
const defaultBatchSize = 512

// Item is one match candidate. MatchKey is the text the query runs against;
// SortKey breaks score ties in ascending order.
type Item interface {
	MatchKey() string
	SortKey() string
}

// Source produces candidate items. Fill appends up to BatchSize items to
// batch and reports whether more may arrive later; it is called
// concurrently from every worker and must be thread-safe.
type Source interface {
	Fill(batch *[]Item) bool
	BatchSize() int
}

// Sink receives one result, best first. info is nil unless WantMatchInfo
// was set. Sinks always run on the calling goroutine after all workers have
// joined.
type Sink func(item Item, info *MatchInfo)

// SliceSource hands out items from a fixed slice. A single mutex guards the
// cursor; workers hold it only while filling a batch.
type SliceSource struct {
	mu    sync.Mutex
	items []Item
	next  int
}

// NewSliceSource returns a source over items.
func NewSliceSource(items []Item) *SliceSource {
	return &SliceSource{items: items}
}

// NewStringSource wraps plain lines as StringItems.
func NewStringSource(lines []string) *SliceSource {
	items := make([]Item, len(lines))
	for i, line := range lines {
		items[i] = StringItem(line)
	}
	return &SliceSource{items: items}
}

func (s *SliceSource) Fill(batch *[]Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := min(s.next+defaultBatchSize, len(s.items))
	*batch = append(*batch, s.items[s.next:end]...)
	s.next = end
	return s.next < len(s.items)
}

func (s *SliceSource) BatchSize() int { return defaultBatchSize }

// StringItem is the simplest Item: the string is both match and sort key.
type StringItem string

func (s StringItem) MatchKey() string { return string(s) }
func (s StringItem) SortKey() string  { return string(s) }

// ReaderSource streams newline-delimited candidates from a reader without
// loading them all first. A read failure is held under the source lock and
// surfaced once after the workers join.
type ReaderSource struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	done    bool
	err     error
	wrap    func(line string) Item
}

// NewReaderSource returns a source reading one candidate per line from r.
// wrap converts each line into an item; nil wraps lines as StringItems.
func NewReaderSource(r io.Reader, wrap func(line string) Item) *ReaderSource {
	if wrap == nil {
		wrap = func(line string) Item { return StringItem(line) }
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReaderSource{scanner: sc, wrap: wrap}
}

func (s *ReaderSource) Fill(batch *[]Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}
	for n := 0; n < defaultBatchSize; n++ {
		if !s.scanner.Scan() {
			s.done = true
			s.err = s.scanner.Err()
			return false
		}
		line := strings.TrimSuffix(s.scanner.Text(), "\r")
		*batch = append(*batch, s.wrap(line))
	}
	return true
}

func (s *ReaderSource) BatchSize() int { return defaultBatchSize }

// Err returns the read failure that ended the stream, if any.
func (s *ReaderSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
