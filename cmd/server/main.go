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

	"github.com/AngelCh415/channel-roi/internal/config"
	"github.com/AngelCh415/channel-roi/internal/httpx"
	"github.com/AngelCh415/channel-roi/internal/ingest"
	"github.com/AngelCh415/channel-roi/internal/metrics"
	"github.com/AngelCh415/channel-roi/internal/scenario"
	"github.com/AngelCh415/channel-roi/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout())
	table, err := ingest.NewLoader(cl, logger, cfg).Load(ctx)
	if err != nil {
		logger.Error("load channels", slog.String("err", err.Error()))
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("open run store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	m := metrics.New()
	runner := scenario.NewRunner(logger, m, scenario.OptionsFromConfig(cfg))
	svc := scenario.NewService(runner, st, table, scenario.DefaultsFromConfig(cfg), m)

	r := httpx.NewRouter(logger, svc, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", slog.String("port", cfg.Port), slog.Int("channels", len(table)))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (store.RunStore, error) {
	if cfg.RunsDBPath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(cfg.RunsDBPath)
}
