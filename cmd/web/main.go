package main

import (
	"context"
	"encoding/gob"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myoungji/website/internal/ai"
	"github.com/myoungji/website/internal/catalog"
	"github.com/myoungji/website/internal/dataurl"
	"github.com/myoungji/website/internal/envstruct"
	"github.com/myoungji/website/internal/errors"
	"github.com/myoungji/website/internal/gate"
	"github.com/myoungji/website/internal/inquiry"
	"github.com/myoungji/website/internal/logging"
	"github.com/myoungji/website/internal/models"
	"github.com/myoungji/website/internal/pprofserver"
	"github.com/myoungji/website/internal/remote"
	"github.com/myoungji/website/internal/repositories"
	"github.com/myoungji/website/internal/sqlite"
)

func init() {
	// Session values are gob encoded.
	gob.Register(models.Case{})
	gob.Register(time.Time{})
}

type application struct {
	logger         *slog.Logger
	cfg            config
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	templates      templateCache
	cases          *catalog.Store
	gate           *gate.Gate
	inquiries      *inquiry.Controller
	// inquiryLog is nil when inquiries are sent to the remote table.
	inquiryLog *repositories.InquiryRepository
	// consultant is nil when AI consultation is disabled.
	consultant ai.Consultant
	encoder    dataurl.Encoder
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "close database", errors.SlogError(closeErr))
		}
	}()

	cases := catalog.NewStore(repositories.NewSnapshotRepository(db, logger), logger)
	if err = cases.Load(ctx); err != nil {
		return errors.Wrap(err, "load cases")
	}

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour) //nolint:mnd // daily
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // a working day
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	adminGate, err := gate.New(cfg.AdminSecret, sessionManager, logger)
	if err != nil {
		return errors.Wrap(err, "configure admin gate")
	}

	var (
		inserter   inquiry.Inserter
		inquiryLog *repositories.InquiryRepository
	)
	if cfg.InquiryRemoteURL != "" {
		inserter = remote.NewClient(cfg.InquiryRemoteURL, cfg.InquiryRemoteKey, nil, logger)
	} else {
		inquiryLog = repositories.NewInquiryRepository(db, logger)
		inserter = inquiryLog
	}

	consultant, err := ai.New(ctx, ai.Config{
		Provider:      cfg.AIProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	}, logger)
	switch {
	case errors.Is(err, ai.ErrDisabled):
		logger.LogAttrs(ctx, slog.LevelInfo, "AI consultation disabled", slog.String("provider", cfg.AIProvider))
	case err != nil:
		return errors.Wrap(err, "configure AI consultant")
	}

	templates, err := newTemplateCache()
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	app := application{
		logger:         logger,
		cfg:            cfg,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		templates:      templates,
		cases:          cases,
		gate:           adminGate,
		inquiries:      inquiry.NewController(inserter, sessionManager, cfg.InquiryCooldown, logger),
		inquiryLog:     inquiryLog,
		consultant:     consultant,
		encoder:        dataurl.Encoder{MaxBytes: cfg.MaxImageBytes},
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug, true, nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
