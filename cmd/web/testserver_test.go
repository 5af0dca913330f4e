package main

import (
	"context"
	"io"
	"testing"

	"github.com/myoungji/website/internal/e2etest"
	"github.com/stretchr/testify/require"
)

const testAdminSecret = "test-admin-secret"

// testLookupEnv serves an in-memory database on a random port. overrides take precedence.
func testLookupEnv(overrides map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if value, ok := overrides[key]; ok {
			return value, true
		}
		switch key {
		case "MYOUNGJI_ADDR":
			return "localhost:0", true
		case "MYOUNGJI_SQLITE_URL":
			return ":memory:", true
		case "MYOUNGJI_ADMIN_SECRET":
			return testAdminSecret, true
		default:
			return "", false
		}
	}
}

// startTestServer runs the application until the test finishes.
func startTestServer(t *testing.T, overrides map[string]string) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv(overrides), run)
	require.NoError(t, err)
	return server
}

// newTestClient returns a client with a session of its own.
func newTestClient(t *testing.T, server *e2etest.Server) *e2etest.Client {
	t.Helper()
	client, err := server.NewClient()
	require.NoError(t, err)
	return client
}

// loggedInClient returns a client that has passed the admin gate.
func loggedInClient(t *testing.T, server *e2etest.Server) *e2etest.Client {
	t.Helper()
	client := newTestClient(t, server)
	doc, err := client.Login(context.Background(), testAdminSecret)
	require.NoError(t, err)
	require.Equal(t, "포트폴리오 관리", doc.Find("h1").Text())
	return client
}
