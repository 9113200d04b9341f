package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"decisio/internal/decision"
	"decisio/internal/decision/adapters"
	decisionhandler "decisio/internal/decision/handler"
	decisionmetrics "decisio/internal/decision/metrics"
	"decisio/internal/platform/config"
	"decisio/internal/platform/health"
	"decisio/internal/platform/logger"
	"decisio/internal/platform/metrics"
	"decisio/internal/platform/redis"
	"decisio/internal/platform/tracer"
	"decisio/internal/registry/clients/creditregistry"
	registrymetrics "decisio/internal/registry/metrics"
	registryservice "decisio/internal/registry/service"
	"decisio/internal/registry/store"
	"decisio/internal/token"
	httptransport "decisio/internal/transport/http"
)

const (
	shutdownTimeout   = 10 * time.Second
	healthProbeBudget = 2 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP routers, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing decisio",
		"addr", cfg.Addr,
		"ops_addr", cfg.OpsAddr,
		"environment", cfg.Environment,
		"registry_mode", cfg.Registry.Mode,
	)

	httpMetrics := metrics.New(prometheus.DefaultRegisterer)
	decisionMetrics := decisionmetrics.New(prometheus.DefaultRegisterer)
	registryMetrics := registrymetrics.New()
	trc := tracer.NewOTel()

	healthHandler := health.New(cfg.Environment)

	// Redis is optional. Without it the segment cache lives in process
	// memory, which is fine for a single instance.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var cache store.CacheStore
	if redisClient != nil {
		cache = store.NewRedisCache(redisClient.Client, cfg.Registry.CacheTTL, registryMetrics)
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthProbeBudget)
			defer cancel()
			return redisClient.Health(ctx)
		})
		log.Info("segment cache backed by redis")
	} else {
		cache = store.NewInMemoryCache(cfg.Registry.CacheTTL)
		log.Info("segment cache backed by process memory")
	}

	var registryClient creditregistry.Client
	switch cfg.Registry.Mode {
	case config.RegistryModeHTTP:
		httpClient := creditregistry.NewHTTPClient(cfg.Registry.URL, cfg.Registry.APIKey, cfg.Registry.Timeout)
		healthHandler.RegisterCheck("registry", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthProbeBudget)
			defer cancel()
			return httpClient.Ping(ctx)
		})
		registryClient = httpClient
	default:
		registryClient = creditregistry.MockClient{Latency: cfg.Registry.MockLatency}
	}

	registrySvc := registryservice.New(registryClient,
		registryservice.WithCache(cache),
		registryservice.WithMetrics(registryMetrics),
		registryservice.WithTracer(trc),
		registryservice.WithLogger(log),
	)

	decisionSvc := decision.New(adapters.NewSegmentAdapter(registrySvc),
		decision.WithMetrics(decisionMetrics),
		decision.WithTracer(trc),
		decision.WithLogger(log),
	)

	tokenSvc := token.New(cfg.JWTSigningKey, cfg.Environment, cfg.TokenTTL)

	apiRouter := httptransport.NewRouter(
		decisionhandler.New(decisionSvc, log),
		token.NewMiddlewareAdapter(tokenSvc),
		httpMetrics,
		log,
	)
	opsRouter := httptransport.NewOpsRouter(healthHandler, registrySvc, cfg.AdminTokenHash, httpMetrics, log)

	apiServer := &http.Server{Addr: cfg.Addr, Handler: apiRouter, ReadHeaderTimeout: 10 * time.Second}
	opsServer := &http.Server{Addr: cfg.OpsAddr, Handler: opsRouter, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting ops server", "addr", cfg.OpsAddr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if redisClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					redisClient.RecordPoolStats()
				}
			}
		})
	}

	// Shutdown on signal or on the first listener failure.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down servers gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			opsServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}

	log.Info("server stopped")
}
