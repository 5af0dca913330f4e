package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/sqlite"
)

// SnapshotRepository is a key/value store for serialized documents such as the case catalog.
type SnapshotRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSnapshotRepository(dbs *sqlite.Database, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		dbs:    dbs,
		logger: logger.With("source", "SnapshotRepository"),
	}
}

// ReadSnapshot returns the value stored under key. The boolean is false when nothing has been stored yet.
func (r *SnapshotRepository) ReadSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.dbs.ReadOnly.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read snapshot", slog.String("key", key))
	}
	return []byte(value), true, nil
}

// WriteSnapshot replaces the value stored under key.
func (r *SnapshotRepository) WriteSnapshot(ctx context.Context, key string, value []byte) error {
	stmt := `INSERT INTO snapshots (key, value, updated)
VALUES (:key, :value, :updated)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated = excluded.updated`
	params := []any{
		sql.Named("key", key),
		sql.Named("value", string(value)),
		sql.Named("updated", time.Now().UTC().Format(time.RFC3339Nano)),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "write snapshot", slog.String("key", key))
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "snapshot written",
		slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}
