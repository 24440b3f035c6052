package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/netquery/internal/config"
	dbRedis "github.com/kailas-cloud/netquery/internal/db/redis"
	"github.com/kailas-cloud/netquery/internal/domain"
	logpkg "github.com/kailas-cloud/netquery/internal/logger"
	"github.com/kailas-cloud/netquery/internal/metrics"
	auditrepo "github.com/kailas-cloud/netquery/internal/repository/audit"
	"github.com/kailas-cloud/netquery/internal/repository/embcache"
	retrievalrepo "github.com/kailas-cloud/netquery/internal/repository/retrieval"
	scoperepo "github.com/kailas-cloud/netquery/internal/repository/scope"
	"github.com/kailas-cloud/netquery/internal/tracing"
	chiTransport "github.com/kailas-cloud/netquery/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/netquery/internal/transport/openai"
	"github.com/kailas-cloud/netquery/internal/transport/upstream"
	audituc "github.com/kailas-cloud/netquery/internal/usecase/audit"
	embeddinguc "github.com/kailas-cloud/netquery/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/netquery/internal/usecase/health"
	"github.com/kailas-cloud/netquery/internal/usecase/integration"
	queryuc "github.com/kailas-cloud/netquery/internal/usecase/query"
	"github.com/kailas-cloud/netquery/internal/usecase/ranking"
	"github.com/kailas-cloud/netquery/internal/usecase/recommend"
	retrievaluc "github.com/kailas-cloud/netquery/internal/usecase/retrieval"
	"github.com/kailas-cloud/netquery/internal/usecase/summary"
	"github.com/kailas-cloud/netquery/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env,
		logpkg.WithLevel(cfg.Logging.Level),
		logpkg.WithFile(&logpkg.FileOutput{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		}),
	)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting netquery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("audit_driver", cfg.Audit.Driver),
	)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version.Version,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, logger)
	if err != nil {
		logger.Warn("Tracing init failed, continuing without export", zap.Error(err))
	}

	// Metrics are registered explicitly (no init()).
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterQueryMetrics()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	sink, closeSink := buildAuditSink(cfg.Audit, logger)
	defer closeSink()

	var dispatcher *audituc.Dispatcher
	var auditor queryuc.Auditor
	var auditPinger healthuc.AuditPinger
	if sink != nil {
		dispatcher = audituc.NewDispatcher(sink, time.Duration(cfg.Audit.TimeoutSec)*time.Second,
			metrics.AuditEventsTotal, logger)
		auditor = dispatcher
		auditPinger = sink
	}

	// Retrieval
	scopes := scoperepo.New(store, time.Duration(cfg.Cache.ScopeTTLSec)*time.Second, metrics.ScopeCacheTotal)
	retriever := retrievaluc.New(scopes, embedder, retrievalrepo.New(store), cfg.Retrieval.TopK)

	// Pipeline
	recommender := recommend.New(recommend.Policy{
		WarmIntroThreshold:    cfg.Recommendation.WarmIntroThreshold,
		MaxListed:             cfg.Recommendation.MaxListed,
		DecisionMakerKeywords: cfg.Recommendation.DecisionMakerKeywords,
	})
	querySvc := queryuc.New(
		retriever,
		ranking.New(logger, metrics.RelevanceOutOfRangeTotal),
		summary.New(summary.Limits{
			Inline:    cfg.Summary.Inline,
			Companies: cfg.Summary.Companies,
			Positions: cfg.Summary.Positions,
		}),
		recommender,
		auditor,
		queryuc.RetryPolicy{Attempts: cfg.Retrieval.RetryAttempts, Backoff: cfg.Retrieval.RetryBackoff()},
	)

	var crmSvc *integration.Service
	if cfg.Integration.Enabled {
		crmSvc = integration.New(buildUpstream(cfg.Integration, querySvc, logger), recommender, auditor,
			integration.Policy{
				TopConnections: cfg.Integration.TopConnections,
				HighIntro:      cfg.Integration.HighIntroThreshold,
				MediumIntro:    cfg.Integration.MedIntroThreshold,
			})
	}

	var embeddingCheck healthuc.EmbeddingChecker
	if hc, ok := embedder.(domain.HealthChecker); ok {
		embeddingCheck = hc
	}
	healthSvc := healthuc.New(store, embeddingCheck, auditPinger)

	// A nil *integration.Service must not reach the server as a non-nil interface.
	var server *chiTransport.Server
	if crmSvc != nil {
		server = chiTransport.NewServer(querySvc, crmSvc, healthSvc, logger)
	} else {
		server = chiTransport.NewServer(querySvc, nil, healthSvc, logger)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if dispatcher != nil {
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			logger.Warn("Audit events still in flight at shutdown", zap.Error(err))
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("Tracer shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	ec := cfg.Embedding
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     ec.APIKey,
		BaseURL:    ec.BaseURL,
		Model:      ec.Model,
		Dimensions: ec.Dimensions,
		Provider:   ec.Provider,
		Timeout:    time.Duration(ec.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = embcache.New(base, store,
		time.Duration(cfg.Cache.EmbeddingTTLSec)*time.Second, metrics.EmbeddingCacheTotal, logger)

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, ec.Provider, ec.Model, logger)

	// Outermost, so the cache key includes the instruction.
	if ec.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, ec.QueryInstruction)
	}
	return embedder
}

// auditSink is what both the dispatcher and the health check need from a sink.
type auditSink interface {
	audituc.Sink
	Ping(ctx context.Context) error
}

func buildAuditSink(cfg config.AuditConfig, logger *zap.Logger) (auditSink, func()) {
	switch cfg.Driver {
	case config.AuditDriverPostgres:
		sink, err := auditrepo.OpenPostgres(auditrepo.PostgresConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetime) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to open audit database", zap.Error(err))
		}
		return sink, func() { _ = sink.Close() }
	case config.AuditDriverLog:
		return auditrepo.NewLogSink(logger), func() {}
	default:
		logger.Warn("Audit disabled")
		return nil, func() {}
	}
}

func buildUpstream(cfg config.IntegrationConfig, local integration.QueryHandler, logger *zap.Logger) integration.Upstream {
	if cfg.UpstreamURL == "" {
		logger.Info("CRM integration answers in-process")
		return integration.NewLocalUpstream(local)
	}
	logger.Info("CRM integration calls upstream", zap.String("url", cfg.UpstreamURL))
	return upstream.New(upstream.Config{
		BaseURL: cfg.UpstreamURL,
		APIKey:  cfg.UpstreamAPIKey,
		Timeout: time.Duration(cfg.UpstreamTimeoutSec) * time.Second,
	}, nil)
}
