package ingest

import "time"

// Stats summarizes one pipeline run. Processed counts every item seen;
// Stored counts new writes, Skipped covers dedup hits and per-item failures
// already logged, Failed counts items lost to errors.
type Stats struct {
	Processed int
	Stored    int
	Skipped   int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the wall-clock time of the run.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
