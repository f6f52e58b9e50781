package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	adapthttp "mindspace/internal/adapter/http"
	"mindspace/internal/adapter/memory"
	"mindspace/internal/adapter/postgres"
	"mindspace/internal/adapter/sqlite"
	"mindspace/internal/app"
	"mindspace/internal/config"
	"mindspace/internal/domain"
)

// store is what every backend provides.
type store interface {
	domain.EntryRepository
	domain.UserRepository
}

func main() {
	cfg := config.Load()

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repo, sessions, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	journalSvc := app.NewJournalService(repo)
	chartsSvc := app.NewChartsService(repo, loc)
	authSvc := app.NewAuthService(repo, sessions).WithSessionTTL(cfg.SessionTTL)

	api := adapthttp.New(journalSvc, chartsSvc, authSvc, cfg.WebDir).
		WithLogger(logger.With("component", "http")).
		WithForwardAuth(cfg.TrustForwardAuth)
	if cfg.TrustForwardAuth {
		logger.Info("Trusting Remote-User header from the reverse proxy")
	}
	if cfg.DisableAuth {
		logger.Warn("Authentication disabled; every request acts as the local user")
		api.WithoutAuth()
	}
	if cfg.OIDCEnabled() {
		oidcCfg, err := setupOIDC(ctx, cfg)
		if err != nil {
			return err
		}
		api.WithOIDC(oidcCfg)
		logger.Info("SSO enabled", "issuer", cfg.OIDCIssuer)
	}

	srv := &http.Server{
		Addr:           cfg.Addr,
		Handler:        api.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting mindspace server", "addr", cfg.Addr, "backend", cfg.DataBackend, "tz", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweepSessions(gctx, authSvc, cfg.SessionSweepInterval, logger.With("component", "sessions"))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, domain.SessionRepository, func(), error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Initialized postgres backend")
		return db, postgres.NewSessionRepo(db), func() { _ = db.Close() }, nil
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return db, sqlite.NewSessionRepo(db), func() { _ = db.Close() }, nil
	default:
		db := memory.New()
		if cfg.SeedFile != "" {
			n, err := db.LoadSeed(cfg.SeedFile)
			if err != nil {
				return nil, nil, nil, err
			}
			logger.Info("Loaded seed entries", "file", cfg.SeedFile, "count", n)
		}
		logger.Info("Initialized memory backend")
		return db, db.NewSessionRepo(), func() {}, nil
	}
}

func setupOIDC(ctx context.Context, cfg *config.Config) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func sweepSessions(ctx context.Context, auth *app.AuthService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.SweepExpired(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Expired session sweep failed", "error", err)
			}
		}
	}
}
