// Package pipeline orchestrates the daily stages: each Run method loads its
// input snapshots, applies one pure stage, persists the output snapshot and
// returns a summary for logging and notification.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kmuriithi/betpipe/internal/markets"
	"github.com/kmuriithi/betpipe/internal/matcher"
	"github.com/kmuriithi/betpipe/internal/mergeresults"
	"github.com/kmuriithi/betpipe/internal/mlfilter"
	"github.com/kmuriithi/betpipe/internal/pkg/config"
	"github.com/kmuriithi/betpipe/internal/pkg/models"
	"github.com/kmuriithi/betpipe/internal/pkg/storage"
	"github.com/kmuriithi/betpipe/internal/settlement"
	"github.com/kmuriithi/betpipe/internal/tickets"
)

// Service wires the stages to the snapshot and model stores. One Service per
// process; every stage run is independent and idempotent per date.
type Service struct {
	store  storage.SnapshotStore
	models storage.ModelStore
	cfg    config.PipelineConfig
}

func NewService(store storage.SnapshotStore, modelStore storage.ModelStore, cfg config.PipelineConfig) *Service {
	cfg.ApplyDefaults()
	return &Service{store: store, models: modelStore, cfg: cfg}
}

// mlRunDoc is the persisted outcome of a filter run. Rejected candidates are
// kept for audit and never re-enter the pipeline.
type mlRunDoc struct {
	Selected []models.BetCandidate `json:"selected"`
	Rejected []models.BetCandidate `json:"rejected,omitempty"`
	Skipped  []string              `json:"skipped,omitempty"`
}

// betsDoc is the persisted outcome of a composer run.
type betsDoc struct {
	Tickets []models.Ticket `json:"tickets"`
	Dropped []string        `json:"dropped,omitempty"`
}

// RunMatcher joins the date's odds and tips snapshots into combined rows.
func (s *Service) RunMatcher(ctx context.Context, date string) (*Summary, error) {
	var oddsRows []models.OddsRow
	if err := s.loadSnapshot(ctx, storage.KindOdds, date, &oddsRows); err != nil {
		return nil, err
	}
	var tipRows []models.TipRow
	if err := s.loadSnapshot(ctx, storage.KindTips, date, &tipRows); err != nil {
		return nil, err
	}

	m := matcher.New(s.cfg.MatchThreshold)
	combined, skipped := m.Match(oddsRows, tipRows)

	if _, err := s.store.PutSnapshot(ctx, storage.KindCombined, date, combined); err != nil {
		return nil, fmt.Errorf("failed to store combined snapshot: %w", err)
	}

	summary := newSummary("matcher", date)
	summary.Counts["odds_rows"] = len(oddsRows)
	summary.Counts["tip_rows"] = len(tipRows)
	summary.Counts["matched"] = len(combined)
	summary.Skipped = skipped
	return summary, nil
}

// RunMarkets flags the date's combined rows against the eligibility rules.
func (s *Service) RunMarkets(ctx context.Context, date string) (*Summary, error) {
	var combined []models.CombinedRow
	if err := s.loadSnapshot(ctx, storage.KindCombined, date, &combined); err != nil {
		return nil, err
	}

	flagged := markets.NewEvaluator(s.cfg.OddsMinimums).Evaluate(combined)

	if _, err := s.store.PutSnapshot(ctx, storage.KindMarketFlags, date, flagged); err != nil {
		return nil, fmt.Errorf("failed to store market flags snapshot: %w", err)
	}

	summary := newSummary("markets", date)
	summary.Counts["rows"] = len(flagged)
	for _, row := range flagged {
		if row.Flags.HomeOver05 {
			summary.Counts["home_over_05"]++
		}
		if row.Flags.HomeDraw {
			summary.Counts["home_draw"]++
		}
		if row.Flags.Over15 {
			summary.Counts["over_1_5"]++
		}
	}
	return summary, nil
}

// TrainFilter rebuilds the per-bet-type models from every merged snapshot and
// persists them. Bet types without enough history are skipped and reported.
func (s *Service) TrainFilter(ctx context.Context) (*Summary, error) {
	dates, err := s.store.ListDates(ctx, storage.KindMerged)
	if err != nil {
		return nil, fmt.Errorf("failed to list merged snapshots: %w", err)
	}

	var history []models.CombinedRow
	for _, date := range dates {
		var rows []models.CombinedRow
		if err := s.loadSnapshot(ctx, storage.KindMerged, date, &rows); err != nil {
			return nil, err
		}
		history = append(history, rows...)
	}

	trainer := mlfilter.NewTrainer(markets.NewEvaluator(s.cfg.OddsMinimums), s.cfg.MinTrainingSamples)
	result := trainer.Train(history)

	if err := mlfilter.SaveResult(ctx, s.models, result); err != nil {
		return nil, err
	}

	summary := newSummary("train-filter", "all")
	summary.Counts["history_rows"] = len(history)
	summary.Counts["history_dates"] = len(dates)
	summary.Counts["models_trained"] = len(result.Models)
	for bt, m := range result.Metrics {
		if m.Skipped {
			summary.Notes = append(summary.Notes, fmt.Sprintf("%s: %s", bt, m.Reason))
		} else {
			summary.Notes = append(summary.Notes, fmt.Sprintf("%s: %d samples, accuracy %.2f", bt, m.Samples, m.Accuracy))
		}
	}
	return summary, nil
}

// RunFilter materializes candidates from the date's market flags, scores them
// with the persisted models and stores the selected and rejected partitions.
func (s *Service) RunFilter(ctx context.Context, date string) (*Summary, error) {
	var flagged []models.MarketFlagRow
	if err := s.loadSnapshot(ctx, storage.KindMarketFlags, date, &flagged); err != nil {
		return nil, err
	}

	candidates, skipped := mlfilter.BuildCandidates(flagged)
	filter := mlfilter.LoadFilter(ctx, s.models, s.cfg.KeepFraction, s.cfg.MinMLProbability)
	selected, rejected := filter.Filter(candidates)

	doc := mlRunDoc{Selected: selected, Rejected: rejected, Skipped: skipped}
	if _, err := s.store.PutSnapshot(ctx, storage.KindMLRun, date, doc); err != nil {
		return nil, fmt.Errorf("failed to store ml run snapshot: %w", err)
	}

	summary := newSummary("filter", date)
	summary.Counts["candidates"] = len(candidates)
	summary.Counts["selected"] = len(selected)
	summary.Counts["rejected"] = len(rejected)
	summary.Skipped = skipped
	return summary, nil
}

// RunComposer packs the date's selected candidates into tickets and submits
// them through the agent. Pass a DryRunAgent to compose without placing.
func (s *Service) RunComposer(ctx context.Context, date string, agent tickets.ExecutionAgent) (*Summary, error) {
	var run mlRunDoc
	if err := s.loadSnapshot(ctx, storage.KindMLRun, date, &run); err != nil {
		return nil, err
	}

	composed, dropped := tickets.NewComposer(s.cfg.MaxTicketSize).Compose(run.Selected)
	placed := tickets.PlaceAll(ctx, agent, composed)

	doc := betsDoc{Tickets: placed, Dropped: dropped}
	if _, err := s.store.PutSnapshot(ctx, storage.KindBets, date, doc); err != nil {
		return nil, fmt.Errorf("failed to store bets snapshot: %w", err)
	}

	summary := newSummary("composer", date)
	summary.Counts["selected"] = len(run.Selected)
	summary.Counts["tickets"] = len(placed)
	summary.Skipped = dropped
	for _, t := range placed {
		summary.Counts["tickets_"+string(t.Status)]++
	}
	return summary, nil
}

// MergeResults joins the date's results snapshot onto its combined rows,
// producing the merged history snapshot the trainer consumes.
func (s *Service) MergeResults(ctx context.Context, date string) (*Summary, error) {
	var combined []models.CombinedRow
	if err := s.loadSnapshot(ctx, storage.KindCombined, date, &combined); err != nil {
		return nil, err
	}
	var results []models.ResultRow
	if err := s.loadSnapshot(ctx, storage.KindResults, date, &results); err != nil {
		return nil, err
	}

	merged, unmatched := mergeresults.Merge(combined, results)

	if _, err := s.store.PutSnapshot(ctx, storage.KindMerged, date, merged); err != nil {
		return nil, fmt.Errorf("failed to store merged snapshot: %w", err)
	}

	summary := newSummary("merge-results", date)
	summary.Counts["combined"] = len(combined)
	summary.Counts["results"] = len(results)
	withResult := 0
	for _, row := range merged {
		if row.Result != nil {
			withResult++
		}
	}
	summary.Counts["merged"] = withResult
	summary.Skipped = unmatched
	return summary, nil
}

// RunSettlement settles the date's placed bets against its results snapshot
// and stores the records. Re-running reproduces the same records.
func (s *Service) RunSettlement(ctx context.Context, date string) (*Summary, error) {
	var bets betsDoc
	if err := s.loadSnapshot(ctx, storage.KindBets, date, &bets); err != nil {
		return nil, err
	}
	// Missing results just mean no fixture has settled yet: everything
	// stays pending rather than aborting the run.
	var results []models.ResultRow
	if err := s.loadSnapshot(ctx, storage.KindResults, date, &results); err != nil {
		var missing *MissingUpstreamError
		if !errors.As(err, &missing) {
			return nil, err
		}
		slog.Info("No results snapshot yet, all bets stay pending", "date", date)
	}

	var placed []models.BetCandidate
	for _, t := range bets.Tickets {
		for _, sel := range t.Selections {
			if sel.Status == models.PlacementPlaced {
				placed = append(placed, sel)
			}
		}
	}

	records := settlement.Settle(placed, results)

	if _, err := s.store.PutSnapshot(ctx, storage.KindSettlement, date, records); err != nil {
		return nil, fmt.Errorf("failed to store settlement snapshot: %w", err)
	}

	summary := newSummary("settlement", date)
	summary.Counts["placed_bets"] = len(placed)
	for _, r := range records {
		summary.Counts[string(r.SettlementStatus)]++
	}
	return summary, nil
}

// loadSnapshot fetches and decodes one snapshot, mapping a missing row to
// MissingUpstreamError so callers can tell "not yet produced" from real
// failures.
func (s *Service) loadSnapshot(ctx context.Context, kind storage.SnapshotKind, date string, out any) error {
	raw, err := s.store.GetSnapshot(ctx, kind, date)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		return &MissingUpstreamError{Kind: string(kind), Date: date}
	}
	if err != nil {
		return fmt.Errorf("failed to load %s snapshot for %s: %w", kind, date, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s snapshot for %s: %w", kind, date, err)
	}
	slog.Debug("Loaded snapshot", "kind", kind, "date", date)
	return nil
}
