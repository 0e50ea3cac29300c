package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/flitskaart/flitskaart-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// PostgresSnapshotStore implements the store.SnapshotStore interface using
// a PostgreSQL database. The whole collection lives in one JSONB row, so a
// save is a single upsert and a load is a single select.
type PostgresSnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the
// SnapshotStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSnapshotStore(db *sql.DB, logger *slog.Logger) *PostgresSnapshotStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_snapshot_store")),
	}
}

// Save implements store.SnapshotStore.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return store.NewStoreError("snapshot", "save", "encoding snapshot", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, data, updated_at)
		 VALUES (1, $1, now())
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		data)
	if err != nil {
		s.logger.Error("failed to upsert snapshot",
			slog.String("error", err.Error()))
		return store.NewStoreError("snapshot", "save", "upserting snapshot row", err)
	}

	s.logger.Debug("snapshot saved",
		slog.Int("bytes", len(data)),
		slog.Int("decks", len(snap.Decks)),
		slog.Int("cards", len(snap.Cards)))
	return nil
}

// Load implements store.SnapshotStore. A database without a snapshot row is
// a first run and returns an empty snapshot, not an error.
func (s *PostgresSnapshotStore) Load(ctx context.Context) (store.Snapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("no snapshot row yet, starting empty")
			return store.Snapshot{}, nil
		}
		return store.Snapshot{}, store.NewStoreError("snapshot", "load", "selecting snapshot row", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, store.NewStoreError("snapshot", "load", "decoding snapshot row", err)
	}

	s.logger.Info("snapshot loaded",
		slog.Int("decks", len(snap.Decks)),
		slog.Int("cards", len(snap.Cards)))
	return snap, nil
}
