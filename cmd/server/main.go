// Command server runs the inheritance calculation HTTP API. main wires
// configuration, storage, cache, and handlers; business logic lives in the
// internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"souzoku/internal/audit"
	audithandler "souzoku/internal/audit/handler"
	"souzoku/internal/calculation"
	calculationhandler "souzoku/internal/calculation/handler"
	casefilehandler "souzoku/internal/casefile/handler"
	casefileservice "souzoku/internal/casefile/service"
	casefilestore "souzoku/internal/casefile/store"
	erahandler "souzoku/internal/era/handler"
	"souzoku/internal/interview"
	interviewhandler "souzoku/internal/interview/handler"
	"souzoku/internal/platform/config"
	"souzoku/internal/platform/httpserver"
	"souzoku/internal/platform/logger"
	"souzoku/internal/platform/metrics"
	"souzoku/internal/platform/middleware"
	platformredis "souzoku/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	caseStore, closeStore, err := newCaseStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	auditStore, auditWorker, closeAudit := newAuditPipeline(cfg.Kafka, log)
	defer closeAudit()
	publisher := audit.NewPublisher(auditStore)

	caseOpts := []casefileservice.Option{
		casefileservice.WithMetrics(m),
		casefileservice.WithAudit(publisher),
	}
	calcOpts := []calculation.Option{
		calculation.WithMetrics(m),
		calculation.WithAudit(publisher),
	}
	if redisClient != nil {
		cache := calculation.NewRedisCache(redisClient.Client, log, cfg.CacheTTL)
		calcOpts = append(calcOpts, calculation.WithCache(cache))
		caseOpts = append(caseOpts, casefileservice.WithInvalidator(cache))
	}

	caseService := casefileservice.New(caseStore, log, caseOpts...)
	calcService := calculation.New(caseStore, log, calcOpts...)
	manager := interview.NewManager(newExtractor(cfg, log))

	router := newRouter(cfg, log, m, caseService, calcService, manager, publisher)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	if auditWorker != nil {
		g.Go(func() error { return auditWorker.Run(ctx) })
	}
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(
	cfg config.Server,
	log *slog.Logger,
	m *metrics.Metrics,
	caseService *casefileservice.Service,
	calcService *calculation.Service,
	manager *interview.Manager,
	publisher *audit.Publisher,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		if cfg.JWTSigningKey != "" {
			api.Use(middleware.RequireAuth(middleware.NewHMACValidator(cfg.JWTSigningKey), log))
		}
		casefilehandler.New(caseService, log).Register(api)
		calculationhandler.New(calcService, log).Register(api)
		erahandler.New(log).Register(api)
		interviewhandler.New(manager, log, publisher).Register(api)
		audithandler.New(publisher, log).Register(api)
	})
	return r
}

// newCaseStore selects PostgreSQL when a database URL is configured and the
// in-memory store otherwise.
func newCaseStore(ctx context.Context, cfg config.Server, log *slog.Logger) (casefileservice.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("no database configured, using in-memory case store")
		return casefilestore.NewMemory(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return casefilestore.NewPostgres(db), func() { db.Close() }, nil
}

const auditQueueSize = 256

// newAuditPipeline keeps an in-memory read model and, when brokers are
// configured, queues every event for background delivery to Kafka so broker
// round trips stay off the request path.
func newAuditPipeline(cfg config.KafkaConfig, log *slog.Logger) (audit.Store, *audit.Worker, func()) {
	memory := audit.NewInMemoryStore()
	if len(cfg.Brokers) == 0 {
		return memory, nil, func() {}
	}
	sink, err := audit.NewKafkaSink(cfg.Brokers, cfg.Topic)
	if err != nil {
		log.Warn("kafka audit sink unavailable, events stay in memory", "error", err)
		return memory, nil, func() {}
	}
	queue := audit.NewQueue(auditQueueSize)
	worker := audit.NewWorker(sink, queue, log)
	return audit.Tee{memory, queue}, worker, sink.Close
}

func newExtractor(cfg config.Server, log *slog.Logger) interview.NameExtractor {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	extractor, err := interview.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		log.Warn("openai extractor unavailable, falling back to rule-based", "error", err)
		return nil
	}
	return extractor
}
