package errors_test

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/myoungji/website/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := errors.New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := errors.NewSentinel("sentinel")
	require.NotErrorIs(t, err, sentinel)
	wrapped := errors.Wrap(sentinel, "load case", slog.String("case_id", "42"))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "load case: sentinel", wrapped.Error())

	// Ensure log values are coming through, including the ones from inner annotations.
	outer := errors.Wrap(wrapped, "handle request")
	var annotated errors.AnnotatedError
	require.True(t, errors.As(outer, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("case_id", "42"))

	// Assert there's a valid source.
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.NotEqual(t, -1, sourceIdx)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, errors.Wrap(nil, "nothing to wrap"))
}

func TestSlogError(t *testing.T) {
	plain := errors.SlogError(errors.NewSentinel("plain"))
	require.Equal(t, "error", plain.Key)
	require.Equal(t, "plain", plain.Value.String())

	annotated := errors.SlogError(errors.New("annotated"))
	require.Equal(t, slog.KindLogValuer, annotated.Value.Kind())
}
