// Package remote inserts inquiries into a hosted table through a PostgREST compatible REST endpoint.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/models"
)

const inquiriesPath = "/rest/v1/inquiries"

var ErrUnexpectedStatus = errors.NewSentinel("unexpected status code")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second} //nolint:mnd // generous for a single insert
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger.With("source", "remote"),
	}
}

// Insert sends one inquiry. Only 201 Created counts as success; there are no retries.
func (c *Client) Insert(ctx context.Context, inquiry models.Inquiry) error {
	body, err := json.Marshal([]models.Inquiry{inquiry})
	if err != nil {
		return errors.Wrap(err, "encode inquiry")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+inquiriesPath, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:mnd // enough for an error message
		return errors.Wrap(ErrUnexpectedStatus, "insert inquiry",
			slog.Int("status", resp.StatusCode), slog.String("body", string(detail)))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "inquiry forwarded", slog.Int("status", resp.StatusCode))
	return nil
}
