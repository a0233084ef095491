package mlfilter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// BuildCandidates materializes one bet candidate per set eligibility flag.
// Flags whose market carries no usable price (decimal odds must exceed 1.0)
// are skipped with a diagnostic rather than producing an unpriceable bet.
func BuildCandidates(rows []models.MarketFlagRow) ([]models.BetCandidate, []string) {
	var candidates []models.BetCandidate
	var skipped []string

	for _, row := range rows {
		for _, bt := range models.BetTypes {
			if !flagFor(row.Flags, bt) {
				continue
			}
			odds := row.OddsFor(bt)
			if odds <= 1.0 {
				skipped = append(skipped, fmt.Sprintf("%s vs %s: %s flagged without valid odds (%v)",
					row.HomeTeam, row.AwayTeam, bt, odds))
				continue
			}
			candidates = append(candidates, models.BetCandidate{
				ID:         uuid.NewString(),
				FixtureKey: row.FixtureKey(),
				BetType:    bt,
				Direction:  bt.Direction(),
				Team:       teamLabel(row.CombinedRow, bt),
				Odds:       odds,
				GameURL:    row.GameURL,
				Row:        row.CombinedRow,
			})
		}
	}
	return candidates, skipped
}

func flagFor(flags models.MarketFlags, bt models.BetType) bool {
	switch bt {
	case models.BetHomeOver05:
		return flags.HomeOver05
	case models.BetHomeDraw:
		return flags.HomeDraw
	case models.BetOver15:
		return flags.Over15
	}
	return false
}

func teamLabel(row models.CombinedRow, bt models.BetType) string {
	switch bt {
	case models.BetHomeOver05:
		return row.HomeTeam + " Over 0.5"
	case models.BetHomeDraw:
		return row.HomeTeam + " or Draw"
	case models.BetOver15:
		return "Over 1.5 Goals"
	}
	return string(bt)
}
