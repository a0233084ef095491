package settlement

import (
	"reflect"
	"testing"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

func intp(v int) *int { return &v }

func placedBet(id string, matchID int64, bt models.BetType) models.BetCandidate {
	return models.BetCandidate{
		ID:         id,
		FixtureKey: "1",
		BetType:    bt,
		Odds:       1.40,
		Status:     models.PlacementPlaced,
		Row: models.CombinedRow{
			OddsRow: models.OddsRow{HomeTeam: "Chelsea FC", AwayTeam: "Arsenal FC"},
			Tip:     models.TipRow{MatchID: matchID},
		},
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		bt         models.BetType
		home, away int
		want       models.SettlementStatus
	}{
		{models.BetHomeOver05, 1, 0, models.SettlementWon},
		{models.BetHomeOver05, 0, 3, models.SettlementLost},
		{models.BetHomeDraw, 2, 2, models.SettlementWon},
		{models.BetHomeDraw, 2, 0, models.SettlementWon},
		{models.BetHomeDraw, 0, 1, models.SettlementLost},
		{models.BetOver15, 1, 1, models.SettlementWon},
		{models.BetOver15, 2, 0, models.SettlementWon},
		{models.BetOver15, 1, 0, models.SettlementLost},
		{models.BetOver15, 0, 0, models.SettlementLost},
		{models.BetType("away_over_05"), 3, 3, models.SettlementPending},
	}
	for _, tt := range tests {
		if got := Outcome(tt.bt, tt.home, tt.away); got != tt.want {
			t.Errorf("Outcome(%s, %d, %d) = %s, want %s", tt.bt, tt.home, tt.away, got, tt.want)
		}
	}
}

func TestSettle_WonLostPending(t *testing.T) {
	placed := []models.BetCandidate{
		placedBet("b1", 1, models.BetHomeOver05),
		placedBet("b2", 2, models.BetHomeDraw),
		placedBet("b3", 3, models.BetOver15), // no result row at all
		placedBet("b4", 4, models.BetOver15), // result exists but unplayed
	}
	results := []models.ResultRow{
		{MatchID: 1, HomeScore: intp(2), AwayScore: intp(0)},
		{MatchID: 2, HomeScore: intp(0), AwayScore: intp(1)},
		{MatchID: 4},
	}

	records := Settle(placed, results)
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	want := []models.SettlementStatus{
		models.SettlementWon,
		models.SettlementLost,
		models.SettlementPending,
		models.SettlementPending,
	}
	for i, w := range want {
		if records[i].SettlementStatus != w {
			t.Errorf("record %d (%s): status = %s, want %s", i, records[i].BetID, records[i].SettlementStatus, w)
		}
	}
	if records[0].HomeScore == nil || *records[0].HomeScore != 2 {
		t.Errorf("won record should carry the final score")
	}
	if records[2].HomeScore != nil {
		t.Errorf("record without a result row should have nil scores")
	}
}

func TestSettle_Idempotent(t *testing.T) {
	placed := []models.BetCandidate{
		placedBet("b1", 1, models.BetHomeOver05),
		placedBet("b2", 2, models.BetHomeDraw),
	}
	results := []models.ResultRow{
		{MatchID: 1, HomeScore: intp(1), AwayScore: intp(1)},
		{MatchID: 2, HomeScore: intp(3), AwayScore: intp(0)},
	}

	first := Settle(placed, results)
	second := Settle(placed, results)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Settle is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestSettle_UnrelatedResultDoesNotLeak(t *testing.T) {
	placed := []models.BetCandidate{placedBet("b1", 1, models.BetHomeOver05)}

	base := Settle(placed, []models.ResultRow{
		{MatchID: 1, HomeScore: intp(1), AwayScore: intp(0)},
	})
	withExtra := Settle(placed, []models.ResultRow{
		{MatchID: 1, HomeScore: intp(1), AwayScore: intp(0)},
		{MatchID: 99, HomeScore: intp(0), AwayScore: intp(9)},
	})

	if !reflect.DeepEqual(base, withExtra) {
		t.Errorf("an unrelated fixture's result changed settlement:\n%+v\n%+v", base, withExtra)
	}
}

func TestSettle_EndToEndScenarioScores(t *testing.T) {
	// 2-0 final: home scored, home >= away, total >= 2
	placed := []models.BetCandidate{
		placedBet("b1", 1818106, models.BetHomeOver05),
		placedBet("b2", 1818106, models.BetHomeDraw),
		placedBet("b3", 1818106, models.BetOver15),
	}
	results := []models.ResultRow{{MatchID: 1818106, HomeScore: intp(2), AwayScore: intp(0)}}

	for _, r := range Settle(placed, results) {
		if r.SettlementStatus != models.SettlementWon {
			t.Errorf("%s: status = %s, want won", r.BetType, r.SettlementStatus)
		}
	}
}
