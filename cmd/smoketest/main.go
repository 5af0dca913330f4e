package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myoungji/website/internal/e2etest"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/logging"
)

// TestPages fetches the public pages and checks that the portfolio has content.
func TestPages(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for healthy")
	}
	for _, urlPath := range []string{"/", "/about", "/contact", "/consult"} {
		if _, err := client.GetDoc(ctx, urlPath); err != nil {
			return errors.Wrap(err, "get page", slog.String("path", urlPath))
		}
	}

	doc, err := client.GetDoc(ctx, "/cases")
	if err != nil {
		return errors.Wrap(err, "get cases")
	}
	cards := doc.Find("#cases-grid .case-card a")
	if cards.Length() == 0 {
		return errors.New("no cases published")
	}
	href, _ := cards.First().Attr("href")
	if _, err = client.GetDoc(ctx, href); err != nil {
		return errors.Wrap(err, "get case", slog.String("path", href))
	}
	return nil
}

// TestAdmin logs in and out when the admin secret is provided.
func TestAdmin(ctx context.Context, client *e2etest.Client, secret string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.Login(ctx, secret)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	if doc.Find("table.admin-cases").Length() == 0 {
		return errors.New("login did not reach the admin page")
	}
	if _, err = client.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout")
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, false, nil)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPages(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing pages", errors.SlogError(err))
		os.Exit(1)
	}
	if secret, ok := os.LookupEnv("MYOUNGJI_ADMIN_SECRET"); ok {
		if err = TestAdmin(ctx, client, secret); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error testing admin", errors.SlogError(err))
			os.Exit(1)
		}
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
