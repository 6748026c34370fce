package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyclarb/internal/api/rest"
	"cyclarb/internal/arbitrage"
	"cyclarb/internal/backtest"
	"cyclarb/internal/config"
	"cyclarb/internal/currency"
	"cyclarb/internal/infra/cache"
	"cyclarb/internal/infra/health"
	"cyclarb/internal/infra/http/middleware"
	"cyclarb/internal/infra/log"
	"cyclarb/internal/infra/metrics"
	"cyclarb/internal/infra/netutil"
	"cyclarb/internal/infra/runner"
	"cyclarb/internal/infra/version"
	"cyclarb/internal/rates"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := log.NewLogger(cfg)

	registry := metrics.Init(logger)

	// backtest mode replays CSV snapshots and exits
	if cfg.Backtest.CSVPath != "" {
		if err := backtest.RunCSV(cfg, logger); err != nil {
			logger.Error().Err(err).Msg("backtest failed")
			os.Exit(1)
		}
		return
	}

	reg, err := currency.Load(cfg.Scan.RegistryPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Scan.RegistryPath).Msg("failed to load currency registry")
		os.Exit(1)
	}

	source := rates.NewClient(cfg, cache.New(cfg.Rates.RedisAddr), logger)
	engine := arbitrage.NewEngine(cfg, source, reg, logger)

	// one-shot mode: scan, log, exit
	if cfg.Scan.Once {
		if err := engine.ScanOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("scan failed")
			os.Exit(1)
		}
		return
	}

	mux := http.NewServeMux()
	adminCIDRs := netutil.MustParseCIDRs(cfg.Server.AdminAllowCIDRs)
	mux.Handle("/metrics", middleware.AdminGate(adminCIDRs, metrics.Handler(registry)))
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	api := rest.New(engine.Store())
	mux.Handle("/status", api.Handler())
	mux.Handle("/opportunities", api.Handler())
	if cfg.Server.Pprof {
		mux.Handle("/debug/pprof/", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Index)))
		mux.Handle("/debug/pprof/cmdline", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("/debug/pprof/profile", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Profile)))
		mux.Handle("/debug/pprof/symbol", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Symbol)))
		mux.Handle("/debug/pprof/trace", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Trace)))
	}

	handler := middleware.RequestID(middleware.Logger(logger)(mux))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Strs("tickers", cfg.Scan.Tickers).Msg("cycle scanner started")

	g := &runner.Group{}
	workerErrCh := g.Go(ctx, engine.Run)

	health.SetReady(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case s := <-sigCh:
		logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
	case err := <-workerErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("worker error")
			health.SetReady(false)
		}
	}

	health.SetReady(false)
	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	g.Wait()
	logger.Info().Msg("shutdown complete")
}
