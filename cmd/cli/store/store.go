// Package store opens the website database for the command line utilities.
package store

import (
	"context"
	"io"
	"log/slog"

	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/logging"
	"github.com/myoungji/website/internal/repositories"
	"github.com/myoungji/website/internal/sqlite"
	"github.com/spf13/cobra"
)

// SqliteURLFlag is the persistent flag naming the database every command works on.
const SqliteURLFlag = "sqlite-url"

// Store bundles the database with the repositories built on it.
type Store struct {
	DB        *sqlite.Database
	Cases     *catalog.Store
	Inquiries *repositories.InquiryRepository
	Logger    *slog.Logger
}

// Open connects to the database named by the sqlite-url flag of cmd and loads the cases.
func Open(ctx context.Context, cmd *cobra.Command) (*Store, error) {
	url, err := cmd.Flags().GetString(SqliteURLFlag)
	if err != nil {
		return nil, errors.Wrap(err, "read flag", slog.String("flag", SqliteURLFlag))
	}

	logger := logging.NewLogger(logSink(cmd), slog.LevelInfo, false, nil)
	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, url, logger); err != nil {
		return nil, errors.Wrap(err, "open database", slog.String("url", url))
	}

	cases := catalog.NewStore(repositories.NewSnapshotRepository(db, logger), logger)
	if err = cases.Load(ctx); err != nil {
		return nil, errors.Join(errors.Wrap(err, "load cases"), db.Close())
	}
	return &Store{
		DB:        db,
		Cases:     cases,
		Inquiries: repositories.NewInquiryRepository(db, logger),
		Logger:    logger,
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// logSink keeps the logs on stderr so that exported data on stdout stays clean.
func logSink(cmd *cobra.Command) io.Writer {
	return cmd.ErrOrStderr()
}
