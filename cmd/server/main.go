package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"runpool/internal/config"
	"runpool/internal/database"
	"runpool/internal/handlers"
	"runpool/internal/logging"
	"runpool/internal/metrics"
	"runpool/internal/ranking"
	"runpool/internal/realtime"
	"runpool/internal/repository"
	"runpool/internal/security"
	"runpool/internal/service"
)

// repos bundles the storage the services run on
type repos struct {
	groups     service.GroupRepository
	users      service.UserRepository
	challenges service.ChallengeRepository
	proofs     service.ProofRepository
	snapshots  service.SnapshotRepository
}

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	policy, err := ranking.ParsePolicy(cfg.ResubmissionPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing or unreachable database does not stop the server; every
	// request reports the problem instead.
	var (
		store   repos
		ping    handlers.Pinger
		dialect database.Dialect
	)
	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		logger.Error("database unavailable", zap.String("type", cfg.DatabaseType), zap.Error(err))
		dbErr := err
		u := repository.Unavailable{Err: dbErr}
		store = repos{groups: u, users: u, challenges: u, proofs: u, snapshots: u}
		ping = func(context.Context) error { return dbErr }
	} else {
		defer db.Close()
		logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

		if err := db.RunMigrations(ctx, cfg.MigrationsPath, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations completed successfully")

		store = repos{
			groups:     repository.NewGroupRepository(db),
			users:      repository.NewUserRepository(db),
			challenges: repository.NewChallengeRepository(db),
			proofs:     repository.NewProofRepository(db),
			snapshots:  repository.NewSnapshotRepository(db),
		}
		ping = db.PingContext
		dialect = db.Dialect
	}

	// Initialize services
	leaderboards := service.NewLeaderboardService(store.proofs, store.challenges, store.groups, store.snapshots, policy, cfg.StreakWindow, logger)
	recaps := service.NewRecapService(store.challenges, store.groups, leaderboards, cfg.RecapDefaultLimit, logger)
	groups := service.NewGroupService(store.groups, store.users, logger)
	challenges := service.NewChallengeService(store.challenges, groups, logger)

	email, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	dispatcher := service.NewRecapDispatcher(email, cfg.AppBaseURL, logger)

	hub := realtime.NewHub(leaderboards.Standings, logger)
	go hub.Run(ctx)

	// Postgres pushes proof changes through NOTIFY so every instance hears
	// them; other databases publish in process.
	var notifier service.Notifier = hub
	if dialect != nil && dialect.SupportsNotify() {
		listener, err := realtime.NewPGListener(cfg.DatabaseURL, database.ProofChangesChannel, hub, logger)
		if err != nil {
			logger.Warn("falling back to in-process proof notifications", zap.Error(err))
		} else {
			notifier = nil
			go listener.Run(ctx)
		}
	}
	proofs := service.NewProofService(store.proofs, challenges, groups, store.users, notifier, logger)

	// Proof submissions are limited to 30 per minute per runner
	limiter := security.NewRateLimiter(ctx, 30, time.Minute)
	mw := handlers.NewMiddleware(security.NewTokenVerifier(cfg.JWTSecret), limiter, cfg.RecapTriggerSecret, logger)

	metrics.Register()

	router := handlers.NewRouter(handlers.Handlers{
		Recap:       handlers.NewRecapHandler(recaps, dispatcher, cfg.RecapTestRecipients, logger),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboards, hub, logger),
		Group:       handlers.NewGroupHandler(groups, logger),
		Challenge:   handlers.NewChallengeHandler(challenges, logger),
		Proof:       handlers.NewProofHandler(proofs, logger),
		Health:      handlers.NewHealthHandler(ping, logger),
		Metrics:     promhttp.Handler(),
	}, mw, logger)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Cron-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(router)

	// Start server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("email_enabled", email.IsEnabled()),
			zap.String("resubmission_policy", string(policy)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
