package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at      time.Time
	us      int64
	matches int
}

// Snapshot aggregates recent search passes. Durations are in microseconds.
type Snapshot struct {
	Count      int     `json:"count"`
	Matches    int     `json:"matches"`
	MinUs      int64   `json:"min_us"`
	MaxUs      int64   `json:"max_us"`
	AvgUs      float64 `json:"avg_us"`
	P50Us      float64 `json:"p50_us"`
	P95Us      float64 `json:"p95_us"`
	P99Us      float64 `json:"p99_us"`
	WindowSecs float64 `json:"window_secs"`
}

// PassStats tracks search pass latencies within a rolling window.
// It is safe for concurrent use.
type PassStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewPassStats(maxAge time.Duration) *PassStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &PassStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one pass that took d and produced matches markers.
func (s *PassStats) Record(d time.Duration, matches int) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, us: us, matches: matches})
}

func (s *PassStats) Snapshot() Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := Snapshot{WindowSecs: s.maxAge.Seconds()}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.us)
		sum += sm.us
		snap.Matches += sm.matches
	}
	slices.Sort(values)

	snap.Count = len(values)
	snap.MinUs = values[0]
	snap.MaxUs = values[len(values)-1]
	snap.AvgUs = float64(sum) / float64(len(values))
	snap.P50Us = percentile(values, 50)
	snap.P95Us = percentile(values, 95)
	snap.P99Us = percentile(values, 99)
	return snap
}

func (s *PassStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := s.samples[:0]
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			keep = append(keep, sm)
		}
	}
	s.samples = keep
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
