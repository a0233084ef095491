// Package markets applies the deterministic eligibility rules that flag
// candidate bets on combined rows.
package markets

import (
	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// HomeDrawMinProbability is the combined home-win + draw probability (integer
// percent) a fixture must exceed for the double-chance flag.
const HomeDrawMinProbability = 70

// Evaluator flags rows against per-bet-type odds minimums.
// Evaluate is pure: same row in, same flags out, rows never dropped.
type Evaluator struct {
	minOdds map[string]float64
}

// NewEvaluator creates an evaluator with the given odds minimums
// (keys: home_over_05, home_draw, over_1_5).
func NewEvaluator(oddsMinimums map[string]float64) *Evaluator {
	return &Evaluator{minOdds: oddsMinimums}
}

// Evaluate annotates every combined row with one boolean per bet type.
func (e *Evaluator) Evaluate(rows []models.CombinedRow) []models.MarketFlagRow {
	flagged := make([]models.MarketFlagRow, 0, len(rows))
	for _, row := range rows {
		flagged = append(flagged, models.MarketFlagRow{
			CombinedRow: row,
			Flags: models.MarketFlags{
				HomeOver05: e.Qualifies(row, models.BetHomeOver05),
				HomeDraw:   e.Qualifies(row, models.BetHomeDraw),
				Over15:     e.Qualifies(row, models.BetOver15),
			},
		})
	}
	return flagged
}

// Qualifies reports whether the row clears the rule for one bet type.
// Absent numeric fields are zero, so missing odds make a row ineligible
// rather than erroring.
func (e *Evaluator) Qualifies(row models.CombinedRow, bt models.BetType) bool {
	homePred := row.Tip.HomePredScore
	awayPred := row.Tip.AwayPredScore

	switch bt {
	case models.BetHomeOver05:
		return row.HomeOver05 >= e.min("home_over_05") &&
			homePred >= 1 &&
			homePred >= awayPred
	case models.BetHomeDraw:
		return row.HomeDrawOdds >= e.min("home_draw") &&
			homePred >= awayPred &&
			row.Tip.Prob1+row.Tip.ProbX > HomeDrawMinProbability
	case models.BetOver15:
		return row.TotalOver15 >= e.min("over_1_5") &&
			homePred+awayPred >= 2 &&
			row.Tip.AvgGoals > 2
	}
	return false
}

func (e *Evaluator) min(betType string) float64 {
	return e.minOdds[betType]
}
