package batch

import "fmt"

// Status is the outcome of one candidate.
type Status string

const (
	StatusRenamed   Status = "RENAMED"
	StatusSimulated Status = "SIMULATED"
	StatusUnchanged Status = "UNCHANGED"
	StatusFiltered  Status = "FILTERED"
	StatusSkipped   Status = "SKIPPED"
	StatusFailed    Status = "FAILED"
)

// Result represents the outcome of one file.
type Result struct {
	OldPath string
	NewPath string
	Status  Status
	Error   error
}

// Summary collects the results of a batch.
type Summary struct {
	Total       int
	Renamed     int // Renamed on disk, or would be in dry-run
	Unchanged   int
	Filtered    int
	Skipped     int
	Failed      int
	Interrupted bool
	Results     []Result
}

func newSummary() *Summary {
	return &Summary{Results: make([]Result, 0)}
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Status {
	case StatusRenamed, StatusSimulated:
		s.Renamed++
	case StatusUnchanged:
		s.Unchanged++
	case StatusFiltered:
		s.Filtered++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Merge adds the counts and results of other to s.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	for _, r := range other.Results {
		s.add(r)
	}
	s.Interrupted = s.Interrupted || other.Interrupted
}

// HasErrors returns true if any rename failed.
func (s *Summary) HasErrors() bool {
	return s.Failed > 0
}

// String returns a one-line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Processed %d files: %d renamed, %d unchanged, %d filtered, %d skipped, %d failed",
		s.Total, s.Renamed, s.Unchanged, s.Filtered, s.Skipped, s.Failed)
}
