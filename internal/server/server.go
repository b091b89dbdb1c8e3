package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/handlers"
	"github.com/nordicmaskin/kma/internal/notify"
	"github.com/nordicmaskin/kma/internal/report"
	"github.com/nordicmaskin/kma/internal/services"
	"github.com/nordicmaskin/kma/internal/store"
	"github.com/nordicmaskin/kma/internal/workflow"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	closers    closers
	sessions   *workflow.Sessions
	stopSweep  chan struct{}
	logger     *zap.Logger
}

const sessionSweepInterval = 15 * time.Minute

// New wires the configured backends and constructs a Server.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *Server, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var opened closers
	defer func() {
		if err != nil {
			_ = opened.closeAll()
		}
	}()

	tables, err := OpenTables(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opened.add(tables.Close)

	archive, err := OpenArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	events, err := OpenMQ(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if events != nil {
		opened.add(events.Close)
	}

	catalog := services.NewEquipmentService(store.NewEquipmentRepository(tables.Store))
	deps := workflow.Deps{
		Users:     services.NewUserService(store.NewUserRepository(tables.Store)),
		Catalog:   catalog,
		Checklist: services.NewChecklistService(store.NewTemplateRepository(tables.Store)),
		Renderer:  report.NewRenderer(),
		Archive:   archive,
		Audit:     store.NewAuditRepository(tables.Store),
	}
	if cfg.SMTP.Host != "" {
		mailer, err := notify.NewMailer(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		deps.Sender = mailer
	}
	if events != nil {
		deps.Publisher = events
	}

	controller := workflow.NewController(deps,
		workflow.WithRecipients(cfg.Report.Recipients),
		workflow.WithLogger(logger.Named("workflow")),
	)
	sessions := workflow.NewSessions(workflow.WithTTL(workflow.DefaultSessionTTL))
	router := NewRouter(controller, sessions, catalog, cfg.JWTSecret, logger)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		zap.Int("port", port),
		zap.String("store", cfg.StoreBackend),
		zap.String("storage", cfg.StorageBackend),
		zap.String("mq", cfg.MQBackend),
		zap.Int("recipients", len(cfg.Report.Recipients)),
	)

	return &Server{
		httpServer: httpServer,
		router:     router,
		closers:    opened,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// NewRouter builds the HTTP routes around a controller.
func NewRouter(
	controller *workflow.Controller,
	sessions *workflow.Sessions,
	catalog *services.EquipmentService,
	jwtSecret string,
	logger *zap.Logger,
) *chi.Mux {
	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, controller, sessions, jwtSecret)
	})
	router.Route("/session", func(r chi.Router) {
		handlers.SessionRouter(r, controller, sessions, logger, authMiddleware)
	})
	router.Route("/equipment", func(r chi.Router) {
		handlers.EquipmentRouter(r, catalog, logger, authMiddleware)
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server and the session sweeper.
func (s *Server) Start() error {
	s.stopSweep = make(chan struct{})
	go sweepSessions(s.sessions, sessionSweepInterval, s.stopSweep, s.logger)

	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and releases the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopSweep != nil {
		close(s.stopSweep)
		s.stopSweep = nil
	}
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.closers.closeAll())
}

// closers releases backends in reverse order of opening.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) closeAll() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// sweepSessions evicts idle sessions every interval until stop is closed.
func sweepSessions(sessions *workflow.Sessions, interval time.Duration, stop <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}
