package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myoungji/website/internal/sqlite"
	"github.com/myoungji/website/internal/testhelpers"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	dbs, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		cancel()
		t.Fatal(err)
	}

	t.Cleanup(func() {
		cancel()
		if err = dbs.Close(); err != nil {
			t.Error(err)
		}
	})

	return dbs
}
