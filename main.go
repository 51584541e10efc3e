package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pliu/orderlist/pkg/config"
	"github.com/pliu/orderlist/pkg/metrics"
	"github.com/pliu/orderlist/pkg/workload"
)

var (
	debug       = flag.Bool("debug", false, "Enable debug logging")
	metricsPort = flag.Int("metrics.port", 2112, "Port for the Prometheus metrics server")
	configPath  = flag.String("config.path", "config.yaml", "Path to the configuration file")
	linger      = flag.Bool("linger", false, "Keep serving metrics after the workload finishes until a signal arrives")
)

func main() {
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Caller:     1,
		TimeFormat: "2006-01-02 15:04:05",
	}

	if *debug {
		log.DefaultLogger.Level = log.DebugLevel
		log.Debug().Msg("Debug logging enabled")
	}

	log.Info().Msgf("Using config file: %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	// Setup Prometheus metrics server
	addr := fmt.Sprintf(":%d", *metricsPort)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Info().Msgf("Starting Prometheus metrics server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Prometheus metrics server failed")
		}
	}()

	runner := workload.NewRunnerFromConfig(cfg)
	exitCode := 0
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("workload failed")
		exitCode = 1
	}
	if *linger {
		<-ctx.Done()
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("orderlist workload stopped")
	cancel()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
