package search

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the delay between the last keystroke and the query.
const DefaultDebounce = 200 * time.Millisecond

// Response carries the result for one request. Seq increases with every
// Search, SearchNow or Clear call, so a response whose Seq is below
// Searcher.Latest has been superseded.
type Response struct {
	Seq     uint64
	Keyword string
	Result  Result
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithDebounce sets the debounce delay. Zero queries immediately.
func WithDebounce(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithMode selects the matcher. ModeIndex keeps an InvertedIndex.
func WithMode(m Mode) SearcherOption {
	return func(s *Searcher) {
		s.mode = m
	}
}

// WithSearchLogger reports indexing and query timings to l.
func WithSearchLogger(l *log.Logger) SearcherOption {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

type request struct {
	seq     uint64
	keyword string
	reindex []Item
	rebuild bool
}

// Searcher answers queries on its own goroutine. Requests made before the
// first index build completes are queued and answered once it does.
type Searcher struct {
	debounce time.Duration
	mode     Mode
	logger   *log.Logger

	requests chan request
	results  chan Response
	ready    chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup

	seq       atomic.Uint64
	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
}

// NewSearcher starts a Searcher over items.
func NewSearcher(items []Item, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		debounce: DefaultDebounce,
		logger:   log.New(io.Discard, "", 0),
		requests: make(chan request, 16),
		results:  make(chan Response, 16),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.run(items)
	return s
}

// Results delivers responses in request order. It is closed by Close.
func (s *Searcher) Results() <-chan Response {
	return s.results
}

// Ready is closed once the first index build completes.
func (s *Searcher) Ready() <-chan struct{} {
	return s.ready
}

// Latest returns the Seq of the most recent request.
func (s *Searcher) Latest() uint64 {
	return s.seq.Load()
}

// IsCurrent reports whether r answers the most recent request.
func (s *Searcher) IsCurrent(r Response) bool {
	return r.Seq == s.seq.Load()
}

// Search queries keyword after the debounce delay. A newer call before the
// delay elapses replaces this one. A blank keyword clears at once.
func (s *Searcher) Search(keyword string) uint64 {
	if _, ok := normalize(keyword); !ok {
		return s.Clear()
	}
	seq := s.seq.Add(1)
	req := request{seq: seq, keyword: keyword}

	s.mu.Lock()
	s.stopTimerLocked()
	if s.debounce > 0 {
		s.timer = time.AfterFunc(s.debounce, func() { s.send(req) })
	}
	s.mu.Unlock()

	if s.debounce == 0 {
		s.send(req)
	}
	return seq
}

// SearchNow queries keyword without waiting.
func (s *Searcher) SearchNow(keyword string) uint64 {
	if _, ok := normalize(keyword); !ok {
		return s.Clear()
	}
	seq := s.seq.Add(1)
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	s.send(request{seq: seq, keyword: keyword})
	return seq
}

// Clear cancels any pending query and delivers an empty result.
func (s *Searcher) Clear() uint64 {
	seq := s.seq.Add(1)
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	s.send(request{seq: seq})
	return seq
}

// Reindex replaces the corpus. Later queries see the new items.
func (s *Searcher) Reindex(items []Item) {
	s.send(request{reindex: items, rebuild: true})
}

// Close stops the goroutine and closes Results. Pending queries are dropped.
func (s *Searcher) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stopTimerLocked()
		s.mu.Unlock()
		close(s.done)
		s.wg.Wait()
		close(s.results)
	})
}

func (s *Searcher) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) send(req request) {
	select {
	case s.requests <- req:
	case <-s.done:
	}
}

func (s *Searcher) run(items []Item) {
	defer s.wg.Done()

	corpus, index := s.build(items)
	close(s.ready)

	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			if req.rebuild {
				corpus, index = s.build(req.reindex)
				continue
			}
			resp := Response{Seq: req.seq, Keyword: req.keyword, Result: s.query(req.keyword, corpus, index)}
			select {
			case s.results <- resp:
			case <-s.done:
				return
			}
		}
	}
}

func (s *Searcher) build(items []Item) ([]Item, *InvertedIndex) {
	if s.mode != ModeIndex {
		return items, nil
	}
	start := time.Now()
	index := NewInvertedIndex(items)
	s.logger.Printf("indexed %d items, %d tokens in %s", index.Len(), index.Tokens(), time.Since(start))
	return items, index
}

func (s *Searcher) query(keyword string, items []Item, index *InvertedIndex) Result {
	if _, ok := normalize(keyword); !ok {
		return EmptyResult()
	}
	start := time.Now()
	var r Result
	switch {
	case index != nil:
		r = index.Lookup(keyword)
	case s.mode == ModeFuzzy:
		r = Fuzzy(keyword, items)
	default:
		r = Sync(keyword, items)
	}
	s.logger.Printf("query %q: %d matches in %s", keyword, r.MatchIDs.Len(), time.Since(start))
	return r
}
