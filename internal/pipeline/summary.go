package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// Summary is one stage run's outcome, logged and forwarded to the notifier.
type Summary struct {
	Stage  string         `json:"stage"`
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
	// Skipped lists per-row diagnostics: unmatched fixtures, unpriceable
	// flags, orphan results.
	Skipped []string `json:"skipped,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

func newSummary(stage, date string) *Summary {
	return &Summary{Stage: stage, Date: date, Counts: map[string]int{}}
}

// String renders the summary as a short human-readable report, one line per
// count in stable order.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", s.Stage, s.Date)

	keys := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %d", k, s.Counts[k])
	}
	for _, note := range s.Notes {
		fmt.Fprintf(&b, "\n  %s", note)
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, "\n  skipped: %d", len(s.Skipped))
	}
	return b.String()
}

// MissingUpstreamError marks a stage run aborted because a required input
// snapshot does not exist yet.
type MissingUpstreamError struct {
	Kind string
	Date string
}

func (e *MissingUpstreamError) Error() string {
	return fmt.Sprintf("no %s snapshot for %s", e.Kind, e.Date)
}
