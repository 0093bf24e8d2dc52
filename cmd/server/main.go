package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/lovequiz/internal/config"
	"github.com/playperu/lovequiz/internal/database"
	"github.com/playperu/lovequiz/internal/handler/health"
	"github.com/playperu/lovequiz/internal/handler/preview"
	"github.com/playperu/lovequiz/internal/migrations"
	"github.com/playperu/lovequiz/internal/quiz"
	"github.com/playperu/lovequiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if problems := quiz.CheckCatalog(); len(problems) > 0 {
		for _, p := range problems {
			logger.Error("question catalog problem", "problem", p)
		}
		return fmt.Errorf("question catalog has %d problems", len(problems))
	}

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := []health.Check{
		{Name: "database", Checker: health.CheckerFunc(store.Ping)},
	}

	// --- Redis (optional) ---
	var replay server.ReplayCache
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis", "replay_ttl", cfg.ReplayTTL.String())

		replay = server.NewRedisReplay(rdb, cfg.ReplayTTL)
		checks = append(checks, health.Check{
			Name:     "redis",
			Checker:  health.CheckerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
			Optional: true,
		})
	}

	engine := quiz.NewEngine(logger)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:   store,
		Replay:  replay,
		Engine:  engine,
		SPADir:  cfg.SPADir,
		SiteURL: cfg.SiteURL,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks...).Routes())
		r.Mount("/ws", preview.NewHandler(logger, engine).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openStore connects to Postgres when DATABASE_URL is set and falls back to
// the embedded SQLite file otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (server.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := server.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("connected to postgres")
		return pg, pg.Close, nil
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	version, err := migrations.Version(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)
	return server.NewSQLiteStore(db), func() { db.Close() }, nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
