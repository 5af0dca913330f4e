package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/myoungji/website/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug, false, nil).With(slog.String("component", "test"))

	ctx := logging.WithAttrs(context.Background(), slog.String("session_hash", "abc"))
	sibling := logging.WithAttrs(ctx, slog.String("case_id", "1"))
	other := logging.WithAttrs(ctx, slog.String("case_id", "2"))

	logger.LogAttrs(sibling, slog.LevelInfo, "first")
	require.Contains(t, buf.String(), "component=test")
	require.Contains(t, buf.String(), "session_hash=abc")
	require.Contains(t, buf.String(), "case_id=1")

	buf.Reset()
	logger.LogAttrs(other, slog.LevelInfo, "second")
	require.Contains(t, buf.String(), "case_id=2")
	require.NotContains(t, buf.String(), "case_id=1")
}
