package mlfilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
	"github.com/kmuriithi/betpipe/internal/pkg/storage"
)

// Persisted model names. One row per bet type plus the shared league index.
const (
	modelNamePrefix = "market_filter_"
	leagueIndexName = "market_filter_league_index"
)

func modelName(bt models.BetType) string {
	return modelNamePrefix + string(bt)
}

// Filter re-ranks candidates by predicted win probability and keeps the top
// fraction. A filter without loadable models fails open: it selects
// everything, because a broken filter must only reduce selectivity, never
// block the betting flow.
type Filter struct {
	models         map[models.BetType]*Model
	leagueIndex    map[string]int
	keepFraction   float64
	minProbability float64
	loaded         bool
}

// NewFilter builds a filter from in-memory models. minProbability of 0
// disables the probability floor.
func NewFilter(byType map[models.BetType]*Model, leagueIndex map[string]int, keepFraction, minProbability float64) *Filter {
	if keepFraction <= 0 || keepFraction > 1 {
		keepFraction = 0.75
	}
	return &Filter{
		models:         byType,
		leagueIndex:    leagueIndex,
		keepFraction:   keepFraction,
		minProbability: minProbability,
		loaded:         len(byType) > 0,
	}
}

// LoadFilter reads persisted models from the store. Any load failure yields
// a fail-open filter rather than an error.
func LoadFilter(ctx context.Context, store storage.ModelStore, keepFraction, minProbability float64) *Filter {
	byType := map[models.BetType]*Model{}
	leagueIndex := map[string]int{}

	raw, err := store.GetModel(ctx, leagueIndexName)
	if err != nil {
		if !errors.Is(err, storage.ErrModelNotFound) {
			slog.Warn("Failed to load league index, filter will pass all candidates", "error", err)
		}
		return NewFilter(nil, nil, keepFraction, minProbability)
	}
	if err := json.Unmarshal(raw, &leagueIndex); err != nil {
		slog.Warn("Failed to decode league index, filter will pass all candidates", "error", err)
		return NewFilter(nil, nil, keepFraction, minProbability)
	}

	for _, bt := range models.BetTypes {
		raw, err := store.GetModel(ctx, modelName(bt))
		if errors.Is(err, storage.ErrModelNotFound) {
			continue
		}
		if err != nil {
			slog.Warn("Failed to load model", "bet_type", bt, "error", err)
			continue
		}
		var m Model
		if err := json.Unmarshal(raw, &m); err != nil {
			slog.Warn("Failed to decode model", "bet_type", bt, "error", err)
			continue
		}
		byType[bt] = &m
	}

	return NewFilter(byType, leagueIndex, keepFraction, minProbability)
}

// SaveResult persists a training run: one payload per fitted model plus the
// league index. Upserts, so retraining overwrites.
func SaveResult(ctx context.Context, store storage.ModelStore, result *TrainResult) error {
	if err := store.PutModel(ctx, leagueIndexName, result.LeagueIndex); err != nil {
		return fmt.Errorf("failed to save league index: %w", err)
	}
	for bt, model := range result.Models {
		if err := store.PutModel(ctx, modelName(bt), model); err != nil {
			return fmt.Errorf("failed to save %s model: %w", bt, err)
		}
	}
	return nil
}

// Filter scores every candidate, ranks them by probability descending
// (stable, so input order breaks ties) and keeps the top fraction with a
// minimum of one for non-empty input. Rejected candidates are returned for
// audit, never re-scored. Candidates whose bet type has no model score 1.0
// and are never filtered out by the probability floor.
func (f *Filter) Filter(candidates []models.BetCandidate) (selected, rejected []models.BetCandidate) {
	if len(candidates) == 0 {
		return nil, nil
	}

	if !f.loaded {
		slog.Info("No trained models available, passing all candidates", "candidates", len(candidates))
		out := make([]models.BetCandidate, len(candidates))
		copy(out, candidates)
		for i := range out {
			out[i].MLWinProb = 1.0
		}
		return out, nil
	}

	scored := make([]models.BetCandidate, len(candidates))
	copy(scored, candidates)
	for i := range scored {
		model, ok := f.models[scored[i].BetType]
		if !ok {
			scored[i].MLWinProb = 1.0
			continue
		}
		scored[i].MLWinProb = model.Predict(FeatureVector(scored[i].Row, scored[i].BetType, f.leagueIndex))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MLWinProb > scored[j].MLWinProb
	})

	keep := int(float64(len(scored)) * f.keepFraction)
	if keep < 1 {
		keep = 1
	}
	selected = scored[:keep]
	rejected = scored[keep:]

	if f.minProbability > 0 {
		selected, rejected = applyProbabilityFloor(selected, rejected, f.minProbability)
	}
	return selected, rejected
}

// applyProbabilityFloor demotes selected candidates below the floor, always
// keeping the top-ranked one so a non-empty input never selects nothing.
func applyProbabilityFloor(selected, rejected []models.BetCandidate, floor float64) ([]models.BetCandidate, []models.BetCandidate) {
	kept := selected[:0:0]
	for i, c := range selected {
		if c.MLWinProb >= floor || i == 0 {
			kept = append(kept, c)
		} else {
			rejected = append(rejected, c)
		}
	}
	return kept, rejected
}
