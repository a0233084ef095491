// Package matcher reconciles bookmaker odds rows with prediction-service tip
// rows into one combined row per fixture, using fuzzy team-name matching.
package matcher

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// Matcher matches odds rows against tip rows at a similarity threshold.
type Matcher struct {
	threshold int
}

// New creates a matcher. Thresholds outside 0-100 fall back to 85.
func New(threshold int) *Matcher {
	if threshold < 0 || threshold > 100 {
		threshold = 85
	}
	return &Matcher{threshold: threshold}
}

// Match finds the best tip for every odds row and returns the combined rows,
// one per matched fixture, in odds-row order. Odds rows with no qualifying
// tip are dropped: an unmatched quote is not actionable without a prediction.
// Malformed rows (missing team names) are skipped with a diagnostic, never a
// failure. Empty feeds yield an empty result.
func (m *Matcher) Match(oddsRows []models.OddsRow, tipRows []models.TipRow) ([]models.CombinedRow, []string) {
	var combined []models.CombinedRow
	var skipped []string

	if len(oddsRows) == 0 || len(tipRows) == 0 {
		return combined, skipped
	}

	for _, odds := range oddsRows {
		if strings.TrimSpace(odds.HomeTeam) == "" || strings.TrimSpace(odds.AwayTeam) == "" {
			skipped = append(skipped, fmt.Sprintf("odds row missing team name: %q vs %q", odds.HomeTeam, odds.AwayTeam))
			continue
		}

		best, bestScore, ok := m.bestTip(odds, tipRows)
		if !ok {
			slog.Debug("No qualifying tip for odds row", "home", odds.HomeTeam, "away", odds.AwayTeam)
			continue
		}

		combined = append(combined, models.CombinedRow{
			OddsRow:         odds,
			Tip:             best,
			MatchConfidence: math.Round(bestScore*100) / 100,
		})
	}

	return combined, skipped
}

// bestTip returns the qualifying tip with the highest mean similarity.
// Both home and away names must clear the threshold; ties keep the first
// encountered tip.
func (m *Matcher) bestTip(odds models.OddsRow, tips []models.TipRow) (models.TipRow, float64, bool) {
	var best models.TipRow
	bestScore := 0.0
	found := false

	for _, tip := range tips {
		if strings.TrimSpace(tip.HomeTeam) == "" || strings.TrimSpace(tip.AwayTeam) == "" {
			continue
		}

		homeSim := TeamSimilarity(odds.HomeTeam, tip.HomeTeam)
		awaySim := TeamSimilarity(odds.AwayTeam, tip.AwayTeam)
		if homeSim < m.threshold || awaySim < m.threshold {
			continue
		}

		mean := float64(homeSim+awaySim) / 2.0
		if !found || mean > bestScore {
			best = tip
			bestScore = mean
			found = true
		}
	}

	return best, bestScore, found
}

// TeamSimilarity scores two team names 0-100. Exact matches (raw or after
// suffix stripping) score 100; otherwise the best of three fuzzy measures:
// plain ratio, substring-tolerant partial ratio, and word-order-tolerant
// token sort ratio.
func TeamSimilarity(a, b string) int {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}

	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == lb {
		return 100
	}
	if strings.EqualFold(NormalizeTeamName(a), NormalizeTeamName(b)) {
		return 100
	}

	score := fuzzy.Ratio(la, lb)
	if p := fuzzy.PartialRatio(la, lb); p > score {
		score = p
	}
	if ts := fuzzy.TokenSortRatio(la, lb); ts > score {
		score = ts
	}
	return score
}

// teamNameSuffixes are stripped before comparison so "Chelsea FC" and
// "Chelsea" count as the same club. Longer dotted variants come first.
var teamNameSuffixes = []string{
	" F.C.", " FC.", " FC", " A.F.C.", " AFC", " C.F.", " CF",
	" C.D.", " CD", " U.D.", " UD", " S.D.", " SD", " A.C.", " AC",
	" A.S.", " AS", " S.C.", " SC", " SV", " VfB", " VfL",
	" FK", " NK", " SK",
}

// NormalizeTeamName trims one known club suffix off the team name.
func NormalizeTeamName(name string) string {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return ""
	}
	for _, suffix := range teamNameSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(normalized[:len(normalized)-len(suffix)])
			break
		}
	}
	return normalized
}
