// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it opens the database, builds the
// services on top of it, and decides which URL patterns reach which
// handler behind which gate.
//
// DEPENDENCY FLOW:
//
//	config.Config → sqlite.DB → services → handlers → chi routes
//
// GATES:
//   - admin:    HTTP Basic credentials from ADMIN_LOGIN / ADMIN_PASSWORD
//   - bearer:   auth.RequireAuth, 401 without a valid access token
//   - optional: auth.OptionalAuth, anonymous callers pass through
//   - limited:  per-IP token bucket on every /auth route
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/config"
	"github.com/sakif/bloggers-platform/internal/handler"
	"github.com/sakif/bloggers-platform/internal/mail"
	"github.com/sakif/bloggers-platform/internal/middleware"
	sqliteRepo "github.com/sakif/bloggers-platform/internal/repository/sqlite"
	"github.com/sakif/bloggers-platform/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server owns the router and the database connection, which it closes on
// shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	// stop ends background work such as the rate limiter sweeper
	stop context.CancelFunc
}

// New opens the database and wires every route. The mailer is SMTP when
// SMTP_HOST is set; otherwise messages are only logged.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var mailer mail.Mailer
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			BaseURL:  cfg.AppBaseURL,
		}, logger)
	} else {
		logger.Warn("SMTP_HOST not set, mail will only be logged")
		mailer = mail.NewLogMailer(cfg.AppBaseURL, logger)
	}

	s, err := newServer(cfg, logger, db, mailer)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newServer(cfg *config.Config, logger *slog.Logger, db *sqliteRepo.DB, mailer mail.Mailer) (*Server, error) {
	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		stop:   stop,
	}
	if err := s.setupRoutes(ctx, mailer); err != nil {
		stop()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes builds the services and mounts every route.
//
// MIDDLEWARE ORDER:
//  1. RequestID: assigns an id that the logger picks up
//  2. RealIP: rewrites RemoteAddr from proxy headers, read by the rate limiter
//  3. Logger, Metrics: see every request including panics turned into 500
//  4. Recoverer: catches panics and answers 500
func (s *Server) setupRoutes(ctx context.Context, mailer mail.Mailer) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)
	codes := auth.NewCodeIssuer()

	likes := service.NewLikeService(s.db, s.logger)
	blogs := handler.NewBlogHandler(service.NewBlogService(s.db, s.logger), s.logger)
	posts := handler.NewPostHandler(service.NewPostService(s.db, s.db, s.db, likes, s.logger), s.logger)
	comments := handler.NewCommentHandler(service.NewCommentService(s.db, s.db, s.db, likes, s.logger), s.logger)
	users := handler.NewUserHandler(service.NewUserService(s.db, passwords, s.logger), s.logger)
	authH := handler.NewAuthHandler(service.NewAuthService(s.db, passwords, tokens, codes, mailer, s.logger), s.logger)
	videos := handler.NewVideoHandler(service.NewVideoService(s.db, s.logger), s.logger)

	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(ctx, s.config.AuthRateLimit, s.config.AuthRateBurst)

	admin := chimiddleware.BasicAuth("admin", map[string]string{s.config.AdminLogin: s.config.AdminPassword})
	bearer := auth.RequireAuth(tokens)
	optional := auth.OptionalAuth(tokens)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", blogs.HandleList)
		r.Get("/{id}", blogs.HandleGet)
		r.With(optional).Get("/{blogId}/posts", posts.HandleListForBlog)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", blogs.HandleCreate)
			r.Put("/{id}", blogs.HandleUpdate)
			r.Delete("/{id}", blogs.HandleDelete)
			r.Post("/{blogId}/posts", posts.HandleCreateForBlog)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optional)
			r.Get("/", posts.HandleList)
			r.Get("/{id}", posts.HandleGet)
			r.Get("/{postId}/comments", comments.HandleListForPost)
		})
		r.Group(func(r chi.Router) {
			r.Use(bearer)
			r.Put("/{postId}/like-status", posts.HandleLikeStatus)
			r.Post("/{postId}/comments", comments.HandleCreateForPost)
		})
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", posts.HandleCreate)
			r.Put("/{id}", posts.HandleUpdate)
			r.Delete("/{id}", posts.HandleDelete)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.With(optional).Get("/{id}", comments.HandleGet)
		r.Group(func(r chi.Router) {
			r.Use(bearer)
			r.Put("/{id}", comments.HandleUpdate)
			r.Delete("/{id}", comments.HandleDelete)
			r.Put("/{id}/like-status", comments.HandleLikeStatus)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", users.HandleList)
		r.Post("/", users.HandleCreate)
		r.Delete("/{id}", users.HandleDelete)
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(bearer).Get("/me", authH.HandleMe)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/login", authH.HandleLogin)
			r.Post("/registration", authH.HandleRegistration)
			r.Post("/registration-confirmation", authH.HandleConfirmation)
			r.Post("/registration-email-resending", authH.HandleResendEmail)
			r.Post("/password-recovery", authH.HandlePasswordRecovery)
			r.Post("/new-password", authH.HandleNewPassword)
		})
	})

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", videos.HandleList)
		r.Post("/", videos.HandleCreate)
		r.Get("/{id}", videos.HandleGet)
		r.Put("/{id}", videos.HandleUpdate)
		r.Delete("/{id}", videos.HandleDelete)
	})

	if s.config.TestingRoutes {
		wipe := handler.NewTestingHandler(service.NewMaintenanceService(s.db, s.logger), s.logger)
		r.Delete("/testing/all-data", wipe.HandleDeleteAll)
		s.logger.Warn("testing routes enabled, DELETE /testing/all-data wipes every table")
	}

	return nil
}

// handleHealth answers 200 while the database responds.
//
// HTTP: GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Close stops background work and closes the database.
func (s *Server) Close() error {
	s.stop()
	return s.db.Close()
}

// Start serves until SIGINT or SIGTERM, then gives in-flight requests
// shutdownTimeout to finish before closing the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Bool("testingRoutes", s.config.TestingRoutes),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
