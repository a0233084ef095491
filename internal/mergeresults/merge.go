// Package mergeresults joins day-after final scores onto the previous day's
// combined rows, producing the history rows the model trainer consumes.
package mergeresults

import (
	"fmt"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// Merge attaches each result to its combined row by prediction-service match
// ID. Rows without a result keep a nil Result, and results without a matching
// row are reported as unmatched diagnostics. Input slices are not mutated.
func Merge(combined []models.CombinedRow, results []models.ResultRow) ([]models.CombinedRow, []string) {
	byMatchID := make(map[int64]models.ResultRow, len(results))
	for _, res := range results {
		if res.MatchID == 0 {
			continue
		}
		byMatchID[res.MatchID] = res
	}

	merged := make([]models.CombinedRow, len(combined))
	matched := map[int64]bool{}
	for i, row := range combined {
		merged[i] = row
		if res, ok := byMatchID[row.Tip.MatchID]; ok {
			r := res
			merged[i].Result = &r
			matched[res.MatchID] = true
		}
	}

	var unmatched []string
	for _, res := range results {
		if res.MatchID != 0 && !matched[res.MatchID] {
			unmatched = append(unmatched, fmt.Sprintf("result for match %d has no combined row", res.MatchID))
		}
	}
	return merged, unmatched
}
