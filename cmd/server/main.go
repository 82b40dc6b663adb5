package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"meetingintel/internal/audit"
	insightshandler "meetingintel/internal/insights/handler"
	insightsmetrics "meetingintel/internal/insights/metrics"
	insightsservice "meetingintel/internal/insights/service"
	"meetingintel/internal/platform/config"
	"meetingintel/internal/platform/httpserver"
	"meetingintel/internal/platform/kafka/producer"
	"meetingintel/internal/platform/logger"
	"meetingintel/internal/platform/metrics"
	platformredis "meetingintel/internal/platform/redis"
	"meetingintel/internal/provider/openai"
	ratelimitmetrics "meetingintel/internal/ratelimit/metrics"
	ratelimitmw "meetingintel/internal/ratelimit/middleware"
	ratelimitservice "meetingintel/internal/ratelimit/service"
	"meetingintel/internal/ratelimit/store/window"
	httptransport "meetingintel/internal/transport/http"
	"meetingintel/pkg/platform/middleware/metadata"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	healthChecks := map[string]httptransport.HealthCheck{}

	// Shared window store when Redis is configured; per-process otherwise.
	var windowStore ratelimitservice.WindowStore = window.NewInMemoryWindowStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		windowStore = window.NewRedisWindowStore(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("rate limit store: redis")
	} else {
		log.Info("rate limit store: in-memory")
	}

	// Request-log events always go to the structured log; production
	// deployments additionally forward them to Kafka.
	publisherOpts := []audit.Option{}
	if cfg.IsProduction() && cfg.Kafka.Brokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()

		publisherOpts = append(publisherOpts,
			audit.WithSink(audit.NewKafkaSink(kafkaProducer, cfg.Kafka.Topic)),
			audit.WithAsyncBuffer(256),
		)
		healthChecks["kafka"] = func(ctx context.Context) error {
			if !kafkaProducer.Healthy(ctx) {
				return errors.New("kafka unreachable")
			}
			return nil
		}
		log.Info("request-log forwarding enabled", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewPublisher(log, publisherOpts...)
	defer publisher.Close()

	provider := openai.New(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, log)
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set, analysis requests will be rejected")
	}

	analyzer, err := insightsservice.New(provider, log, cfg.OpenAI.APIKey != "",
		insightsservice.WithMetrics(insightsmetrics.New()))
	if err != nil {
		log.Error("insights service init failed", "error", err)
		os.Exit(1)
	}

	checker, err := ratelimitservice.New(windowStore, log,
		ratelimitservice.WithLimit(cfg.RateLimit.Requests),
		ratelimitservice.WithWindow(cfg.RateLimit.Window),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		log.Error("rate limiter init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Insights:  insightshandler.New(analyzer, log),
		RateLimit: ratelimitmw.New(checker, log),
		Metadata: metadata.New(&metadata.Config{
			TrustForwardedHeader: true,
			TrustedProxies:       cfg.Server.TrustedProxies,
		}),
		Audit:          publisher,
		Metrics:        metrics.New(),
		HealthChecks:   healthChecks,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
