package domain

import (
	"fmt"
	"time"
)

// RunStats is owned by the aggregator. It is only touched between batches,
// never by running tasks.
type RunStats struct {
	Total     int
	Completed int
	Succeeded int
	Failed    int
	StartTime time.Time
}

func NewRunStats(total int, start time.Time) *RunStats {
	return &RunStats{Total: total, StartTime: start}
}

// Record counts one outcome.
func (s *RunStats) Record(o Outcome) {
	s.Completed++
	if o.Succeeded() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Progress is a point-in-time view of a run.
type Progress struct {
	Completed int
	Total     int
	Percent   float64
	Succeeded int
	Failed    int
	Elapsed   time.Duration
	Rate      float64 // items per second
	ETA       time.Duration
}

// Snapshot computes rate and ETA at now. ETA is zero while the rate is
// still unknown.
func (s *RunStats) Snapshot(now time.Time) Progress {
	p := Progress{
		Completed: s.Completed,
		Total:     s.Total,
		Succeeded: s.Succeeded,
		Failed:    s.Failed,
		Elapsed:   now.Sub(s.StartTime),
	}
	if s.Total > 0 {
		p.Percent = float64(s.Completed) / float64(s.Total) * 100
	}
	if secs := p.Elapsed.Seconds(); secs > 0 {
		p.Rate = float64(s.Completed) / secs
	}
	if p.Rate > 0 {
		remaining := float64(s.Total-s.Completed) / p.Rate
		p.ETA = time.Duration(remaining * float64(time.Second))
	}
	return p
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%) ok=%d failed=%d rate=%.1f/s eta=%s",
		p.Completed, p.Total, p.Percent, p.Succeeded, p.Failed, p.Rate, FormatDuration(p.ETA.Seconds()))
}

// Summary is the final report of a run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Throughput float64       `json:"throughput_per_sec"`
	ResultPath string        `json:"result_path"`
	OutputDir  string        `json:"output_dir"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Summarize closes the stats at now.
func (s *RunStats) Summarize(now time.Time) Summary {
	elapsed := now.Sub(s.StartTime)
	sum := Summary{
		Total:      s.Completed,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Elapsed:    elapsed,
		StartedAt:  s.StartTime,
		FinishedAt: now,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		sum.Throughput = float64(s.Completed) / secs
	}
	return sum
}

// SuccessRate returns the succeeded share in percent.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

func (s Summary) FailureRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Total) * 100
}
