package collector

import (
	"fmt"
	"time"
)

// Summary reports one job's run.
type Summary struct {
	Collection    string
	Target        string
	Fetched       int
	Enriched      int
	Invalid       int
	Duplicates    int
	Added         int
	Localized     int
	TotalExisting int
	Total         int
	Errors        []string
	SaveErr       error
	Duration      time.Duration
}

// Dropped counts incoming items that did not become new cards.
func (s Summary) Dropped() int {
	return s.Invalid + s.Duplicates
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: fetched %d, added %d to %s (%d existing, %d dropped)",
		s.Collection, s.Fetched, s.Added, s.Target, s.TotalExisting, s.Dropped())
}

// RunSummary aggregates every job in a run.
type RunSummary struct {
	Collections []Summary
	Duration    time.Duration
}

// Added totals cards added across jobs.
func (r RunSummary) Added() int {
	n := 0
	for _, s := range r.Collections {
		n += s.Added
	}
	return n
}

// ErrorCount totals fetch errors across jobs.
func (r RunSummary) ErrorCount() int {
	n := 0
	for _, s := range r.Collections {
		n += len(s.Errors)
	}
	return n
}

// Failed reports whether any job failed to save.
func (r RunSummary) Failed() bool {
	for _, s := range r.Collections {
		if s.SaveErr != nil {
			return true
		}
	}
	return false
}
