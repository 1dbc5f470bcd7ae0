package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"watchlist/config"
	"watchlist/internal/cache"
	"watchlist/internal/database"
	"watchlist/internal/logger"
	"watchlist/internal/middleware"
	"watchlist/internal/router"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "watchlist-server",
		Usage: "Watchlist REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("WATCHLIST_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema and exit",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Logger.Fatalf("application error: %v", err)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log)
	return cfg, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	logger.WithContext("main", "migrate").Info("schema up to date")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.WithContext("main", "serve")

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	var catalogCache cache.Cache = cache.Noop{}
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, catalog cache disabled")
		} else {
			defer rc.Close()
			catalogCache = rc
		}
	}
	if cfg.Catalog.APIKey == "" && cfg.Catalog.ReadToken == "" {
		log.Warn("no TMDB credentials configured, catalog requests will fail")
	}

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, 10*time.Minute)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go limiter.Run(stopCleanup)

	engine := router.Setup(cfg, db, router.Dependencies{Cache: catalogCache, Limiter: limiter})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
