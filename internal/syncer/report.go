package syncer

import "time"

// PairResult captures the outcome of syncing one source series into its
// destination.
type PairResult struct {
	Source  string
	Dest    string
	DestDir string
	Created bool
	Skipped bool

	// Missing holds the chapter numbers absent from the destination before
	// any copying happened.
	Missing []float64
	Copied  int
	Files   int
	Bytes   int64

	// SoftFailures maps source paths to conflict reasons; the path keeps
	// two releases of the same chapter number distinct. Fatal is set when
	// the series' sync was aborted by a vanished source.
	SoftFailures map[string]string
	Fatal        string
}

// Report aggregates one run of the engine.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Pairs      []PairResult
	Unmatched  []string
}

// SeriesSynced counts pairs that actually copied something.
func (r *Report) SeriesSynced() int {
	n := 0
	for _, p := range r.Pairs {
		if p.Copied > 0 {
			n++
		}
	}
	return n
}

// TotalFiles sums files written across all pairs.
func (r *Report) TotalFiles() int {
	n := 0
	for _, p := range r.Pairs {
		n += p.Files
	}
	return n
}

// TotalBytes sums bytes written across all pairs.
func (r *Report) TotalBytes() int64 {
	var n int64
	for _, p := range r.Pairs {
		n += p.Bytes
	}
	return n
}

// SoftFailureCount sums conflict-style failures across all pairs.
func (r *Report) SoftFailureCount() int {
	n := 0
	for _, p := range r.Pairs {
		n += len(p.SoftFailures)
	}
	return n
}

// FatalFailureCount counts series whose sync was aborted.
func (r *Report) FatalFailureCount() int {
	n := 0
	for _, p := range r.Pairs {
		if p.Fatal != "" {
			n++
		}
	}
	return n
}
