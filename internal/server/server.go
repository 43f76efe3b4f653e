package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/recruitdesk/apiserver/config"
	"github.com/recruitdesk/apiserver/internal/activity"
	"github.com/recruitdesk/apiserver/internal/auth"
	"github.com/recruitdesk/apiserver/internal/db"
	"github.com/recruitdesk/apiserver/internal/handlers"
	"github.com/recruitdesk/apiserver/internal/logger"
	"github.com/recruitdesk/apiserver/internal/metrics"
	"github.com/recruitdesk/apiserver/internal/middleware"
	"github.com/recruitdesk/apiserver/internal/mq"
	"github.com/recruitdesk/apiserver/internal/notify"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/storage"
	"github.com/recruitdesk/apiserver/internal/store"
)

// Server wraps the HTTP server, its router and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	recorder   *activity.Recorder
	limiter    *middleware.RateLimiter
	broker     mq.Backend
	logger     *slog.Logger
}

// routes carries everything the router needs. Services are interfaces so
// the router can be exercised without a database.
type routes struct {
	accounts       handlers.AccountService
	jobs           handlers.JobService
	candidates     handlers.CandidateService
	interviews     handlers.InterviewService
	offers         handlers.OfferLetterService
	admin          handlers.AdminService
	dashboard      handlers.DashboardService
	recorder       *activity.Recorder
	metrics        *metrics.Collector
	gatherer       prometheus.Gatherer
	limiter        *middleware.RateLimiter
	logger         *slog.Logger
	allowedOrigins []string
}

// New connects to every configured backend and assembles the API.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	srv := &Server{db: dbConn, logger: log}
	fail := func(err error) (*Server, error) {
		_ = srv.closeResources(context.Background())
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	archive, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return fail(fmt.Errorf("init storage: %w", err))
	}
	var objects services.ObjectStore
	if archive != nil {
		objects = archive
		log.Info("offer letter archive enabled",
			slog.String("backend", cfg.Storage.Backend),
			slog.String("bucket", archive.Bucket()),
		)
	}

	srv.broker, err = mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		return fail(fmt.Errorf("init mq: %w", err))
	}

	var sink activity.Sink = activity.NewStoreSink(store.NewActivityRepository(dbConn))
	if srv.broker != nil {
		sink = activity.NewMQSink(srv.broker, cfg.MQ.ActivityChannel)
		log.Info("activity log routed through broker",
			slog.String("backend", cfg.MQ.Backend),
			slog.String("channel", cfg.MQ.ActivityChannel),
		)
	}
	srv.recorder = activity.NewRecorder(sink, activity.WithDropHook(collector.RecordActivityDropped))

	mailer, err := newMailer(cfg.SMTP, log)
	if err != nil {
		return fail(fmt.Errorf("init mailer: %w", err))
	}
	mailer = notify.WithObserver(mailer, collector.RecordEmail)

	srv.limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	})

	userRepo := store.NewUserRepository(dbConn)
	candidateRepo := store.NewCandidateRepository(dbConn)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	srv.router = newRouter(routes{
		accounts:       services.NewAccountService(userRepo, tokens, mailer, cfg.Auth),
		jobs:           services.NewJobService(store.NewJobRepository(dbConn)),
		candidates:     services.NewCandidateService(candidateRepo),
		interviews:     services.NewInterviewService(store.NewInterviewRepository(dbConn), candidateRepo),
		offers:         services.NewOfferLetterService(store.NewOfferLetterRepository(dbConn), candidateRepo, mailer, objects),
		admin:          services.NewAdminService(userRepo),
		dashboard:      services.NewDashboardService(store.NewDashboardRepository(dbConn)),
		recorder:       srv.recorder,
		metrics:        collector,
		gatherer:       registry,
		limiter:        srv.limiter,
		logger:         log,
		allowedOrigins: cfg.CORS.AllowedOrigins,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 5000
	}

	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

// newMailer returns the SMTP mailer, or a mailer that always fails when no
// sender address is configured.
func newMailer(cfg config.SMTPConfig, log *slog.Logger) (notify.Mailer, error) {
	if strings.TrimSpace(cfg.From) == "" {
		log.Warn("EMAIL_USER is not set; password reset and offer emails will fail")
		return notify.DisabledMailer{}, nil
	}
	mailer, err := notify.NewSMTPMailer(cfg)
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

func newRouter(rt routes) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.NewRecoveryMiddleware(),
		middleware.NewLoggingMiddleware(rt.logger),
		rt.metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   rt.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", metrics.Handler(rt.gatherer))

	router.Route("/api", func(r chi.Router) {
		r.Use(rt.limiter.Middleware)

		handlers.AuthRouter(r, rt.accounts, rt.recorder)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireAuth(rt.accounts), activity.Middleware(rt.recorder))

			r.Route("/jobs", func(r chi.Router) {
				handlers.JobRouter(r, rt.jobs)
			})
			r.Route("/candidates", func(r chi.Router) {
				handlers.CandidateRouter(r, rt.candidates)
			})
			r.Route("/interviews", func(r chi.Router) {
				handlers.InterviewRouter(r, rt.interviews)
			})
			r.Route("/offerLetter", func(r chi.Router) {
				handlers.OfferLetterRouter(r, rt.offers, rt.recorder)
			})
			r.Route("/users", func(r chi.Router) {
				handlers.UserRouter(r, rt.accounts, rt.recorder)
			})
			r.Post("/verify-password", handlers.NewUserHandler(rt.accounts, rt.recorder).VerifyPassword)
			r.Get("/dashboard", handlers.Dashboard(rt.dashboard))

			r.Route("/admin", func(r chi.Router) {
				r.Use(handlers.RequireAdmin)
				handlers.AdminRouter(r, rt.admin, rt.recorder)
			})
		})
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, flushes the
// activity queue and releases backends.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if err := s.closeResources(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) closeResources(ctx context.Context) error {
	var errs []error
	if s.recorder != nil {
		if err := s.recorder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush activity: %w", err))
		}
	}
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close mq: %w", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
