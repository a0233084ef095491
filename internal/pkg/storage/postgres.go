package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/kmuriithi/betpipe/internal/pkg/config"
)

// Ensure PostgresStore implements both store contracts.
var (
	_ SnapshotStore = (*PostgresStore)(nil)
	_ ModelStore    = (*PostgresStore)(nil)
)

// PostgresStore keeps one JSONB document per (kind, date) in the snapshots
// table and one payload per model name in ml_models.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the connection, pings it and creates the schema.
func NewPostgresStore(cfg *config.PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL snapshot storage initialized")
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id SERIAL PRIMARY KEY,
		kind VARCHAR(50) NOT NULL,
		snapshot_date DATE NOT NULL,
		doc JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(kind, snapshot_date)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_kind_date ON snapshots(kind, snapshot_date);

	CREATE TABLE IF NOT EXISTS ml_models (
		name VARCHAR(100) PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// GetSnapshot returns the stored document for (kind, date).
func (s *PostgresStore) GetSnapshot(ctx context.Context, kind SnapshotKind, date string) (json.RawMessage, error) {
	query := `SELECT doc FROM snapshots WHERE kind = $1 AND snapshot_date = $2`
	var doc []byte
	err := s.db.QueryRowContext(ctx, query, string(kind), date).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s snapshot for %s: %w", kind, date, err)
	}
	return doc, nil
}

// PutSnapshot upserts the document keyed by (kind, date). The xmax trick
// distinguishes insert from update without a second round trip.
func (s *PostgresStore) PutSnapshot(ctx context.Context, kind SnapshotKind, date string, doc any) (bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s snapshot: %w", kind, err)
	}

	query := `
	INSERT INTO snapshots (kind, snapshot_date, doc, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (kind, snapshot_date) DO UPDATE SET
		doc = EXCLUDED.doc,
		updated_at = NOW()
	RETURNING (xmax = 0)
	`
	var created bool
	if err := s.db.QueryRowContext(ctx, query, string(kind), date, data).Scan(&created); err != nil {
		return false, fmt.Errorf("failed to store %s snapshot for %s: %w", kind, date, err)
	}
	return created, nil
}

// ListDates returns all dates with a snapshot of kind, oldest first.
func (s *PostgresStore) ListDates(ctx context.Context, kind SnapshotKind) ([]string, error) {
	query := `SELECT to_char(snapshot_date, 'YYYY-MM-DD') FROM snapshots WHERE kind = $1 ORDER BY snapshot_date`
	rows, err := s.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s snapshot dates: %w", kind, err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// GetModel returns the stored model payload.
func (s *PostgresStore) GetModel(ctx context.Context, name string) (json.RawMessage, error) {
	query := `SELECT payload FROM ml_models WHERE name = $1`
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model %s: %w", name, err)
	}
	return payload, nil
}

// PutModel upserts the model payload keyed by name.
func (s *PostgresStore) PutModel(ctx context.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal model %s: %w", name, err)
	}

	query := `
	INSERT INTO ml_models (name, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE SET
		payload = EXCLUDED.payload,
		updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, name, data); err != nil {
		return fmt.Errorf("failed to store model %s: %w", name, err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
