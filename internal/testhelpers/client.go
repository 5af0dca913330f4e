package testhelpers

import (
	"net/http"
	"net/http/cookiejar"
	"testing"
)

// NewCookieClient returns an HTTP client that keeps cookies between requests.
func NewCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}
