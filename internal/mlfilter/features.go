package mlfilter

import (
	"strings"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// featureCount is the fixed width of every feature vector.
const featureCount = 12

// TopLeaguesCount bounds the league encoding to the most frequent leagues in
// history; everything else falls into the unknown bucket (-1).
const TopLeaguesCount = 20

// FeatureVector builds the model input for one (row, bet type) pair.
// Order matters and must match between training and scoring:
// the three market odds, predicted scores, outcome probabilities and their
// sum, predicted total goals, the average-goals estimate, the implied
// probability of the candidate's own market, and the encoded league.
func FeatureVector(row models.CombinedRow, bt models.BetType, leagueIndex map[string]int) []float64 {
	odds := row.OddsFor(bt)
	impliedProb := 0.0
	if odds > 0 {
		impliedProb = 1.0 / odds
	}

	encoded := -1.0
	if idx, ok := leagueIndex[LeagueKey(row)]; ok {
		encoded = float64(idx)
	}

	return []float64{
		row.HomeOver05,
		row.HomeDrawOdds,
		row.TotalOver15,
		float64(row.Tip.HomePredScore),
		float64(row.Tip.AwayPredScore),
		float64(row.Tip.Prob1),
		float64(row.Tip.ProbX),
		float64(row.Tip.Prob1 + row.Tip.ProbX),
		float64(row.Tip.HomePredScore + row.Tip.AwayPredScore),
		row.Tip.AvgGoals,
		impliedProb,
		encoded,
	}
}

// LeagueKey identifies a league as "country_league", or "unknown" when the
// tip carries neither.
func LeagueKey(row models.CombinedRow) string {
	key := strings.Trim(row.Tip.Country+"_"+row.Tip.LeagueName, "_")
	if key == "" {
		return "unknown"
	}
	return key
}
