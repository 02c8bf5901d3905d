package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rgckd/hc-self-service-portal/internal/admin"
	"github.com/rgckd/hc-self-service-portal/internal/antispam"
	"github.com/rgckd/hc-self-service-portal/internal/audit"
	jwttoken "github.com/rgckd/hc-self-service-portal/internal/jwt_token"
	"github.com/rgckd/hc-self-service-portal/internal/platform/config"
	"github.com/rgckd/hc-self-service-portal/internal/platform/httpserver"
	"github.com/rgckd/hc-self-service-portal/internal/platform/logger"
	"github.com/rgckd/hc-self-service-portal/internal/platform/middleware"
	platformredis "github.com/rgckd/hc-self-service-portal/internal/platform/redis"
	portalhandler "github.com/rgckd/hc-self-service-portal/internal/portal/handler"
	portalmetrics "github.com/rgckd/hc-self-service-portal/internal/portal/metrics"
	"github.com/rgckd/hc-self-service-portal/internal/portal/registration"
	portalservice "github.com/rgckd/hc-self-service-portal/internal/portal/service"
	"github.com/rgckd/hc-self-service-portal/internal/portal/store"
	"github.com/rgckd/hc-self-service-portal/internal/ratelimit"
	"github.com/rgckd/hc-self-service-portal/internal/sheets"
	"github.com/rgckd/hc-self-service-portal/internal/submission"
	submissionstore "github.com/rgckd/hc-self-service-portal/internal/submission/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := sheets.NewCSVClient(cfg.Sheets)
	catalog := store.NewCatalog(source, cfg.Sheets.CatalogTable, log)
	resolver := registration.NewResolver(source, log)

	auditPublisher := audit.NewPublisher(256, log)
	auditStore := audit.NewMemoryStore()

	var auditSink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka)
		if err != nil {
			log.Error("failed to create kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
		log.Info("audit events forwarded to kafka", "topic", cfg.Kafka.Topic)
	}
	auditWorker := audit.NewWorker(auditStore, auditPublisher.Inbox(), auditSink, log)

	var recorder submission.Recorder
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("failed to open submission database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := submissionstore.NewPostgresStore(db)
		if err := pgStore.Init(ctx); err != nil {
			log.Error("failed to init submission table", "error", err)
			os.Exit(1)
		}
		recorder = pgStore
		log.Info("submissions recorded in postgres")
	} else {
		recorder = submissionstore.NewMemoryStore()
		log.Warn("no database configured, submissions recorded in memory only")
	}

	svc := portalservice.New(catalog, resolver, log,
		portalservice.WithRecorder(recorder),
		portalservice.WithAuditor(auditPublisher),
		portalservice.WithMetrics(portalmetrics.New()),
	)

	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiterStore = ratelimit.NewRedisStore(redisClient.Client, "")
		log.Info("rate limit windows shared via redis")
	}
	limiter := ratelimit.NewLimiter(limiterStore, cfg.RateLimit.Limit, cfg.RateLimit.Window, log)

	jwtService := jwttoken.NewJWTService(cfg.Admin.JWTSigningKey, "portal", "portal-admin")

	portalHandler := portalhandler.New(svc,
		antispam.NewHTTPVerifier(cfg.AntiSpam, log), auditPublisher, log)
	adminHandler := admin.New(auditStore, log)

	router := chi.NewRouter()
	router.Use(middleware.Metadata(log))
	router.Route("/api", func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter))
		portalHandler.Routes(r)
	})
	router.Route("/admin", adminHandler.Routes(jwttoken.NewMiddlewareAdapter(jwtService)))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := auditWorker.Run(groupCtx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("portal stopped", "error", err)
		os.Exit(1)
	}
	log.Info("portal stopped")
}
