package mlfilter

import (
	"testing"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

func makeCandidates(n int) []models.BetCandidate {
	out := make([]models.BetCandidate, n)
	for i := range out {
		out[i] = models.BetCandidate{
			ID:      string(rune('a' + i)),
			BetType: models.BetHomeOver05,
			Odds:    1.30,
			Row: models.CombinedRow{
				OddsRow: models.OddsRow{HomeOver05: 1.30},
				Tip:     models.TipRow{HomePredScore: 2, Prob1: 50 + i},
			},
		}
	}
	return out
}

func TestFilterFailsOpenWithoutModels(t *testing.T) {
	f := NewFilter(nil, nil, 0.75, 0)
	cands := makeCandidates(3)

	selected, rejected := f.Filter(cands)
	if len(selected) != 3 || len(rejected) != 0 {
		t.Fatalf("unloaded filter selected %d, rejected %d, want 3/0", len(selected), len(rejected))
	}
	for _, c := range selected {
		if c.MLWinProb != 1.0 {
			t.Errorf("candidate %s scored %v without a model, want 1.0", c.ID, c.MLWinProb)
		}
	}
}

func TestFilterEmptyInput(t *testing.T) {
	f := NewFilter(nil, nil, 0.75, 0)
	selected, rejected := f.Filter(nil)
	if len(selected) != 0 || len(rejected) != 0 {
		t.Fatalf("empty input produced %d selected, %d rejected", len(selected), len(rejected))
	}
}

func TestFilterRetention(t *testing.T) {
	// A trivial fitted model so the filter counts as loaded.
	model := &Model{
		Weights: make([]float64, featureCount),
		Means:   make([]float64, featureCount),
		Stds:    onesVector(featureCount),
	}
	f := NewFilter(map[models.BetType]*Model{models.BetHomeOver05: model}, nil, 0.75, 0)

	tests := []struct {
		n    int
		keep int
	}{
		{8, 6},
		{4, 3},
		{1, 1},
		{2, 1}, // floor(2*0.75) == 1
	}
	for _, tt := range tests {
		selected, rejected := f.Filter(makeCandidates(tt.n))
		if len(selected) != tt.keep {
			t.Errorf("n=%d: selected %d, want %d", tt.n, len(selected), tt.keep)
		}
		if len(selected)+len(rejected) != tt.n {
			t.Errorf("n=%d: partition lost candidates (%d + %d)", tt.n, len(selected), len(rejected))
		}
	}
}

func TestFilterPartitionIsComplete(t *testing.T) {
	model := &Model{
		Weights: make([]float64, featureCount),
		Means:   make([]float64, featureCount),
		Stds:    onesVector(featureCount),
	}
	f := NewFilter(map[models.BetType]*Model{models.BetHomeOver05: model}, nil, 0.75, 0)

	cands := makeCandidates(8)
	selected, rejected := f.Filter(cands)

	seen := map[string]bool{}
	for _, c := range append(selected, rejected...) {
		if seen[c.ID] {
			t.Errorf("candidate %s appears twice", c.ID)
		}
		seen[c.ID] = true
	}
	for _, c := range cands {
		if !seen[c.ID] {
			t.Errorf("candidate %s missing from output", c.ID)
		}
	}
}

func TestFilterMissingModelScoresOne(t *testing.T) {
	// Model only for home_over_05: an over_1_5 candidate must score 1.0 and
	// rank ahead of any modeled candidate.
	model := &Model{
		Weights: negOnesVector(featureCount),
		Means:   make([]float64, featureCount),
		Stds:    onesVector(featureCount),
	}
	f := NewFilter(map[models.BetType]*Model{models.BetHomeOver05: model}, nil, 0.5, 0)

	cands := []models.BetCandidate{
		{ID: "modeled", BetType: models.BetHomeOver05, Row: models.CombinedRow{
			OddsRow: models.OddsRow{HomeOver05: 1.30}, Tip: models.TipRow{HomePredScore: 2, Prob1: 60},
		}},
		{ID: "unmodeled", BetType: models.BetOver15, Row: models.CombinedRow{
			OddsRow: models.OddsRow{TotalOver15: 1.40},
		}},
	}

	selected, _ := f.Filter(cands)
	if len(selected) != 1 {
		t.Fatalf("selected %d, want 1", len(selected))
	}
	if selected[0].ID != "unmodeled" {
		t.Errorf("top candidate is %s, want the unmodeled one at prob 1.0", selected[0].ID)
	}
	if selected[0].MLWinProb != 1.0 {
		t.Errorf("unmodeled candidate scored %v, want 1.0", selected[0].MLWinProb)
	}
}

func TestFilterProbabilityFloorKeepsTopCandidate(t *testing.T) {
	// Strong negative weights push every probability near zero. The floor
	// must still keep the top-ranked candidate.
	model := &Model{
		Weights: negOnesVector(featureCount),
		Bias:    -10,
		Means:   make([]float64, featureCount),
		Stds:    onesVector(featureCount),
	}
	f := NewFilter(map[models.BetType]*Model{models.BetHomeOver05: model}, nil, 1.0, 0.9)

	selected, rejected := f.Filter(makeCandidates(4))
	if len(selected) != 1 {
		t.Fatalf("selected %d under an unreachable floor, want exactly 1", len(selected))
	}
	if len(rejected) != 3 {
		t.Errorf("rejected %d, want 3", len(rejected))
	}
}

func onesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func negOnesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = -1
	}
	return v
}
