package mlfilter

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/kmuriithi/betpipe/internal/markets"
	"github.com/kmuriithi/betpipe/internal/pkg/models"
	"github.com/kmuriithi/betpipe/internal/settlement"
)

// TrainMetrics summarizes one bet type's training run.
type TrainMetrics struct {
	Samples  int     `json:"samples"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Skipped  bool    `json:"skipped,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

// TrainResult carries the fitted models, the shared league encoding and
// per-bet-type metrics.
type TrainResult struct {
	Models      map[models.BetType]*Model
	LeagueIndex map[string]int
	Metrics     map[models.BetType]TrainMetrics
}

// Trainer rebuilds every bet type's model from scratch out of historical
// merged rows. There is no incremental training: each run re-derives the
// full sample set.
type Trainer struct {
	evaluator  *markets.Evaluator
	minSamples int
}

// NewTrainer creates a trainer. The evaluator must apply the same
// eligibility rules the live pipeline uses, so training samples replicate
// the rows that would actually have been flagged.
func NewTrainer(evaluator *markets.Evaluator, minSamples int) *Trainer {
	return &Trainer{evaluator: evaluator, minSamples: minSamples}
}

// Train builds one labeled sample per historically eligible (bet type, row)
// pair with a known final score and fits one classifier per bet type.
// Bet types under the minimum sample count are marked skipped, never fitted.
func (t *Trainer) Train(history []models.CombinedRow) *TrainResult {
	leagueIndex := t.buildLeagueIndex(history)

	type sample struct {
		features []float64
		label    float64
	}
	samplesByType := map[models.BetType][]sample{}

	for _, row := range history {
		if row.Result == nil || !row.Result.Played() {
			continue
		}
		for _, bt := range models.BetTypes {
			if !t.evaluator.Qualifies(row, bt) {
				continue
			}
			label := 0.0
			if settlement.Outcome(bt, *row.Result.HomeScore, *row.Result.AwayScore) == models.SettlementWon {
				label = 1.0
			}
			samplesByType[bt] = append(samplesByType[bt], sample{
				features: FeatureVector(row, bt, leagueIndex),
				label:    label,
			})
		}
	}

	result := &TrainResult{
		Models:      map[models.BetType]*Model{},
		LeagueIndex: leagueIndex,
		Metrics:     map[models.BetType]TrainMetrics{},
	}

	for _, bt := range models.BetTypes {
		samples := samplesByType[bt]
		n := len(samples)

		if n < t.minSamples {
			result.Metrics[bt] = TrainMetrics{
				Samples: n,
				Skipped: true,
				Reason:  fmt.Sprintf("insufficient samples (%d < %d)", n, t.minSamples),
			}
			slog.Warn("Skipping model training", "bet_type", bt, "samples", n, "min_samples", t.minSamples)
			continue
		}

		features := make([][]float64, n)
		labels := make([]float64, n)
		for i, s := range samples {
			features[i] = s.features
			labels[i] = s.label
		}

		model := fit(features, labels)
		result.Models[bt] = model
		result.Metrics[bt] = TrainMetrics{Samples: n, Accuracy: model.Accuracy}
		slog.Info("Trained model", "bet_type", bt, "samples", n, "accuracy", model.Accuracy)
	}

	return result
}

// buildLeagueIndex ranks leagues by frequency over rows with a known score
// and keeps the top ones. Count ties resolve alphabetically so the index is
// deterministic across runs.
func (t *Trainer) buildLeagueIndex(history []models.CombinedRow) map[string]int {
	counts := map[string]int{}
	for _, row := range history {
		if row.Result == nil || !row.Result.Played() {
			continue
		}
		counts[LeagueKey(row)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > TopLeaguesCount {
		keys = keys[:TopLeaguesCount]
	}

	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return index
}
