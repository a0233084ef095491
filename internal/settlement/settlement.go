// Package settlement reconciles placed bets against published final scores.
package settlement

import (
	"strconv"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// Outcome settles one bet type against a final score. Unknown bet types
// settle to pending, never an error.
func Outcome(bt models.BetType, homeScore, awayScore int) models.SettlementStatus {
	switch bt {
	case models.BetHomeOver05:
		if homeScore >= 1 {
			return models.SettlementWon
		}
		return models.SettlementLost
	case models.BetHomeDraw:
		if homeScore >= awayScore {
			return models.SettlementWon
		}
		return models.SettlementLost
	case models.BetOver15:
		if homeScore+awayScore >= 2 {
			return models.SettlementWon
		}
		return models.SettlementLost
	}
	return models.SettlementPending
}

// Settle produces one settlement record per placed candidate. A candidate
// with no result row, or a result without a score yet, stays pending.
// Settle is a pure function of its inputs: re-running it reproduces the
// same records.
func Settle(placed []models.BetCandidate, results []models.ResultRow) []models.SettlementRecord {
	byID := make(map[int64]models.ResultRow, len(results))
	for _, r := range results {
		if r.MatchID != 0 {
			byID[r.MatchID] = r
		}
	}

	records := make([]models.SettlementRecord, 0, len(placed))
	for _, bet := range placed {
		record := models.SettlementRecord{
			FixtureKey:       bet.FixtureKey,
			HomeTeam:         bet.Row.HomeTeam,
			AwayTeam:         bet.Row.AwayTeam,
			BetID:            bet.ID,
			BetType:          bet.BetType,
			Team:             bet.Team,
			Odds:             bet.Odds,
			PlacementStatus:  bet.Status,
			SettlementStatus: models.SettlementPending,
		}

		if result, ok := lookupResult(byID, bet); ok {
			record.HomeScore = result.HomeScore
			record.AwayScore = result.AwayScore
			if result.Played() {
				record.SettlementStatus = Outcome(bet.BetType, *result.HomeScore, *result.AwayScore)
			}
		}

		records = append(records, record)
	}
	return records
}

func lookupResult(byID map[int64]models.ResultRow, bet models.BetCandidate) (models.ResultRow, bool) {
	if bet.Row.Tip.MatchID != 0 {
		r, ok := byID[bet.Row.Tip.MatchID]
		return r, ok
	}
	// composite fixture keys carry no external id; try parsing the key in
	// case the candidate was built from an id-keyed row
	if id, err := strconv.ParseInt(bet.FixtureKey, 10, 64); err == nil {
		r, ok := byID[id]
		return r, ok
	}
	return models.ResultRow{}, false
}
