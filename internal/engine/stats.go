package engine

import "time"

// StatsInterval is how often the frame rate is recomputed and logged.
const StatsInterval = 5 * time.Second

// Stats averages the frame rate over fixed intervals.
type Stats struct {
	interval time.Duration
	frames   int
	elapsed  time.Duration
	fps      float64
	total    uint64
}

// NewStats creates a Stats that reports every interval.
func NewStats(interval time.Duration) *Stats {
	if interval <= 0 {
		interval = StatsInterval
	}
	return &Stats{interval: interval}
}

// Tick records one frame of length dt. It returns true when an interval
// has completed and FPS has been updated.
func (s *Stats) Tick(dt time.Duration) bool {
	s.frames++
	s.total++
	s.elapsed += dt
	if s.elapsed < s.interval {
		return false
	}
	s.fps = float64(s.frames) / s.elapsed.Seconds()
	s.frames = 0
	s.elapsed = 0
	return true
}

// FPS returns the average frame rate of the last completed interval.
func (s *Stats) FPS() float64 { return s.fps }

// Frames returns the number of frames recorded since creation.
func (s *Stats) Frames() uint64 { return s.total }
