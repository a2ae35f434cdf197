package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/x402-solana/facilitator/internal/chain"
	"github.com/x402-solana/facilitator/internal/circuitbreaker"
	"github.com/x402-solana/facilitator/internal/config"
	"github.com/x402-solana/facilitator/internal/facilitator"
	"github.com/x402-solana/facilitator/internal/lifecycle"
	"github.com/x402-solana/facilitator/internal/logger"
	"github.com/x402-solana/facilitator/internal/metrics"
	"github.com/x402-solana/facilitator/internal/scheme"
	"github.com/x402-solana/facilitator/pkg/x402"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Service:     "facilitator",
		Version:     "dev",
		Environment: cfg.Logging.Environment,
	})

	breakerCfg := circuitbreaker.BreakerConfig{
		MaxRequests:         cfg.CircuitBreaker.MaxRequests,
		Interval:            cfg.CircuitBreaker.Interval.Duration,
		Timeout:             cfg.CircuitBreaker.Timeout.Duration,
		ConsecutiveFailures: cfg.CircuitBreaker.ConsecutiveFailures,
		FailureRatio:        cfg.CircuitBreaker.FailureRatio,
		MinRequests:         cfg.CircuitBreaker.MinRequests,
	}
	breaker := circuitbreaker.NewManager(cfg.CircuitBreaker.Enabled, breakerCfg)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	shutdown := lifecycle.NewManager()

	registry := scheme.NewRegistry()
	adapters := make(map[x402.Network]chain.Adapter, len(cfg.Networks))

	for name, netCfg := range cfg.Networks {
		network := x402.Network(name)
		adapter, err := chain.NewSolanaAdapter(name, netCfg.RPCURL, netCfg.WSURL, breaker, m)
		if err != nil {
			log.Fatal().Err(err).Str("network", name).Msg("failed to connect to network")
		}
		adapters[network] = adapter
		shutdown.RegisterFunc(name+" rpc/ws adapter", adapter.Close)

		registry.Register(scheme.NewTransferEngine(network, adapter))
		registry.Register(scheme.NewSPLEngine(network, adapter))

		log.Info().Str("network", name).Str("rpc_url", netCfg.RPCURL).Msg("network adapter ready")
	}

	svc := facilitator.NewService(registry, adapters, m)
	server := facilitator.New(cfg, svc, m, log)

	log.Info().Str("address", cfg.Server.Address).Msg("starting facilitator")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdown.RegisterFunc("http server", func() error { return server.Shutdown(ctx) })
	if err := shutdown.Close(); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
