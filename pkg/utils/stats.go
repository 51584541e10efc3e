package utils

import (
	"container/list"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Stats keeps the samples recorded within a sliding time window and answers
// average and percentile queries over them.
type Stats struct {
	mu         sync.Mutex
	values     *RankTree
	window     *list.List
	windowSize time.Duration
	clock      clock.Clock
	sum        int64
}

func NewStats(windowSize time.Duration) *Stats {
	return NewStatsWithClock(windowSize, clock.New())
}

func NewStatsWithClock(windowSize time.Duration, clk clock.Clock) *Stats {
	return &Stats{
		values:     NewRankTree(),
		window:     list.New(),
		windowSize: windowSize,
		clock:      clk,
	}
}

type sample struct {
	at    time.Time
	value int64
}

func (s *Stats) Add(value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.values.Insert(value)
	s.window.PushBack(sample{at: now, value: value})
	s.sum += value
	s.expire(now)
}

func (s *Stats) Average() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expire(s.clock.Now())
	count := s.values.Len()
	if count == 0 {
		return 0, false
	}
	return float64(s.sum) / float64(count), true
}

// Percentiles returns the sample at each requested percentile in [0, 100],
// using nearest rank below.
func (s *Stats) Percentiles(percentiles ...float64) ([]int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(percentiles) == 0 {
		return nil, false
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return nil, false
		}
	}

	s.expire(s.clock.Now())
	count := s.values.Len()
	if count == 0 {
		return nil, false
	}

	results := make([]int64, 0, len(percentiles))
	for _, p := range percentiles {
		key, ok := s.values.Select(int(float64(count-1) * (p / 100.0)))
		if !ok {
			return nil, false
		}
		results = append(results, key)
	}
	return results, true
}

func (s *Stats) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(s.clock.Now())
	return s.values.Len()
}

// expire drops samples older than the window. Samples arrive in time order,
// so the scan stops at the first one still inside the window.
func (s *Stats) expire(now time.Time) {
	for e := s.window.Front(); e != nil; e = s.window.Front() {
		m := e.Value.(sample)
		if now.Sub(m.at) <= s.windowSize {
			return
		}
		s.values.Delete(m.value)
		s.sum -= m.value
		s.window.Remove(e)
	}
}
