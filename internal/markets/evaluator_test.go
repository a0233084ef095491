package markets

import (
	"reflect"
	"testing"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

func defaultMinimums() map[string]float64 {
	return map[string]float64{
		"home_over_05": 1.25,
		"home_draw":    1.35,
		"over_1_5":     1.35,
	}
}

// qualifyingRow clears all three rules:
// 1.30>=1.25 & 2>=1 & 2>=1; 1.40>=1.35 & 2>=1 & 75>70; 1.50>=1.35 & 3>=2 & 2.8>2.
func qualifyingRow() models.CombinedRow {
	return models.CombinedRow{
		OddsRow: models.OddsRow{
			HomeTeam:     "Chelsea FC",
			AwayTeam:     "Arsenal FC",
			HomeOver05:   1.30,
			HomeDrawOdds: 1.40,
			TotalOver15:  1.50,
		},
		Tip: models.TipRow{
			MatchID:       1818106,
			HomePredScore: 2,
			AwayPredScore: 1,
			Prob1:         55,
			ProbX:         20,
			AvgGoals:      2.8,
		},
		MatchConfidence: 100,
	}
}

func TestEvaluate_AllFlagsSet(t *testing.T) {
	flagged := NewEvaluator(defaultMinimums()).Evaluate([]models.CombinedRow{qualifyingRow()})
	if len(flagged) != 1 {
		t.Fatalf("got %d rows, want 1", len(flagged))
	}
	want := models.MarketFlags{HomeOver05: true, HomeDraw: true, Over15: true}
	if flagged[0].Flags != want {
		t.Errorf("Flags = %+v, want %+v", flagged[0].Flags, want)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	e := NewEvaluator(defaultMinimums())
	rows := []models.CombinedRow{qualifyingRow()}
	first := e.Evaluate(rows)
	second := e.Evaluate(rows)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Evaluate is not pure:\n%+v\n%+v", first, second)
	}
}

// Flipping one threshold-adjacent input flips exactly the corresponding flag.
func TestEvaluate_ThresholdAdjacentFlips(t *testing.T) {
	e := NewEvaluator(defaultMinimums())

	tests := []struct {
		name   string
		mutate func(*models.CombinedRow)
		want   models.MarketFlags
	}{
		{
			name:   "home over odds below minimum",
			mutate: func(r *models.CombinedRow) { r.HomeOver05 = 1.24 },
			want:   models.MarketFlags{HomeOver05: false, HomeDraw: true, Over15: true},
		},
		{
			name:   "home draw odds below minimum",
			mutate: func(r *models.CombinedRow) { r.HomeDrawOdds = 1.34 },
			want:   models.MarketFlags{HomeOver05: true, HomeDraw: false, Over15: true},
		},
		{
			name:   "combined probability not above 70",
			mutate: func(r *models.CombinedRow) { r.Tip.Prob1, r.Tip.ProbX = 50, 20 },
			want:   models.MarketFlags{HomeOver05: true, HomeDraw: false, Over15: true},
		},
		{
			name:   "average goals not above 2",
			mutate: func(r *models.CombinedRow) { r.Tip.AvgGoals = 2.0 },
			want:   models.MarketFlags{HomeOver05: true, HomeDraw: true, Over15: false},
		},
		{
			name: "away side predicted ahead",
			mutate: func(r *models.CombinedRow) {
				r.Tip.HomePredScore, r.Tip.AwayPredScore = 1, 2
			},
			// home rules require home >= away; over_1_5 still has 3 goals
			want: models.MarketFlags{HomeOver05: false, HomeDraw: false, Over15: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := qualifyingRow()
			tt.mutate(&row)
			got := e.Evaluate([]models.CombinedRow{row})[0].Flags
			if got != tt.want {
				t.Errorf("Flags = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_MissingOddsMeansIneligible(t *testing.T) {
	row := qualifyingRow()
	row.HomeOver05 = 0
	row.HomeDrawOdds = 0
	row.TotalOver15 = 0

	got := NewEvaluator(defaultMinimums()).Evaluate([]models.CombinedRow{row})[0].Flags
	if got != (models.MarketFlags{}) {
		t.Errorf("missing odds should clear every flag, got %+v", got)
	}
}

func TestEvaluate_RowsNeverDropped(t *testing.T) {
	rows := []models.CombinedRow{qualifyingRow(), {}, {}}
	flagged := NewEvaluator(defaultMinimums()).Evaluate(rows)
	if len(flagged) != len(rows) {
		t.Errorf("got %d rows, want %d: evaluation must not drop rows", len(flagged), len(rows))
	}
}

func TestQualifies_UnknownBetType(t *testing.T) {
	if NewEvaluator(defaultMinimums()).Qualifies(qualifyingRow(), models.BetType("away_over_05")) {
		t.Errorf("unknown bet type must never qualify")
	}
}
