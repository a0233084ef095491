package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// SnapshotKind names one per-date document family.
type SnapshotKind string

const (
	// Inputs, produced by the scraping collaborators.
	KindOdds    SnapshotKind = "odds"
	KindTips    SnapshotKind = "tips"
	KindResults SnapshotKind = "results"

	// Outputs, produced by pipeline stages.
	KindCombined    SnapshotKind = "combined"
	KindMarketFlags SnapshotKind = "market_flags"
	KindMerged      SnapshotKind = "merged"
	KindMLRun       SnapshotKind = "ml_run"
	KindBets        SnapshotKind = "bets"
	KindSettlement  SnapshotKind = "settlement"
)

// ErrSnapshotNotFound is returned when no snapshot exists for (kind, date).
// Whether that is fatal depends on the stage: missing odds/tips abort the
// matcher, missing results just mean nothing has settled yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrModelNotFound is returned when a persisted model does not exist.
var ErrModelNotFound = errors.New("model not found")

// SnapshotStore persists one JSON document per (kind, date).
// PutSnapshot upserts: re-running a stage for the same date overwrites.
type SnapshotStore interface {
	// GetSnapshot returns the raw document, or ErrSnapshotNotFound.
	GetSnapshot(ctx context.Context, kind SnapshotKind, date string) (json.RawMessage, error)

	// PutSnapshot stores the document, keyed by (kind, date).
	// Returns true if the row was newly created, false if it was overwritten.
	PutSnapshot(ctx context.Context, kind SnapshotKind, date string, doc any) (bool, error)

	// ListDates returns all dates (ascending) that have a snapshot of kind.
	ListDates(ctx context.Context, kind SnapshotKind) ([]string, error)

	Close() error
}

// ModelStore persists trained model payloads keyed by name, one row per
// model, upserted on retrain.
type ModelStore interface {
	// GetModel returns the stored payload, or ErrModelNotFound.
	GetModel(ctx context.Context, name string) (json.RawMessage, error)

	// PutModel stores the payload under name.
	PutModel(ctx context.Context, name string, payload any) error

	Close() error
}
