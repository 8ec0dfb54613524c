package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/xtding233/roic-sim/internal/config"
	"github.com/xtding233/roic-sim/internal/httpapi"
	"github.com/xtding233/roic-sim/internal/logging"
	"github.com/xtding233/roic-sim/internal/metrics"
	"github.com/xtding233/roic-sim/internal/rpc"
	"github.com/xtding233/roic-sim/internal/scenario"
	"github.com/xtding233/roic-sim/internal/simulator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "optional config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}
	logger := logging.New("roic-sim", cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	loader := scenario.NewLoader(cfg.ProfilesDir)
	watcher := scenario.WatchLoader(loader, cfg.WatchInterval, func(path string) {
		m.ProfileReloads.Inc()
		logger.Info("profile changed, cache invalidated", "path", path)
	})

	svc := simulator.New(loader, simulator.Options{
		Logger:         logger,
		Observer:       m,
		Workers:        cfg.Workers,
		MaxSimulations: cfg.MaxSimulations,
		MaxYears:       cfg.MaxYears,
		MaxPoints:      cfg.MaxPoints,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(svc, m, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(rpc.MetricsInterceptor(m)))
	rpc.Register(grpcSrv, rpc.NewServer(svc))
	reflection.Register(grpcSrv)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc listening", "addr", cfg.GRPCAddr)
		return grpcSrv.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(sctx)
	})
	return g.Wait()
}
