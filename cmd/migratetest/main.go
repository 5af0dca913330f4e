package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/repositories"
	"github.com/myoungji/website/internal/sqlite"
	"github.com/myoungji/website/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("MYOUNGJI_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "MYOUNGJI_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// The migrated copy of production data must still hold a readable case snapshot.
	_, found, err := repositories.NewSnapshotRepository(db, logger).ReadSnapshot(ctx, catalog.SnapshotKey)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error reading case snapshot", errors.SlogError(err))
		os.Exit(1)
	}
	if !found {
		logger.LogAttrs(ctx, slog.LevelError, "no case snapshot found, something is likely wrong")
		os.Exit(1)
	}
	cases := catalog.NewStore(repositories.NewSnapshotRepository(db, logger), logger)
	if err = cases.Load(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error loading cases", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "case count", slog.Int("count", len(cases.List())))

	var inquiries int
	if err = db.ReadOnly.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&inquiries); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching inquiry count", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "inquiry count", slog.Int("count", inquiries))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
