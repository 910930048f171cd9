// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware,
// and routes. It decides which URL patterns map to which handlers, what
// middleware guards which route groups, and how the server starts and
// stops gracefully.
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and creates the logger, then:
//
//	server.New() creates: sqlite.DB → token/password services →
//	AuthService / ProjectService → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired in
// one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/config"
	"github.com/muhub/projecthub/internal/handler"
	"github.com/muhub/projecthub/internal/middleware"
	sqliteRepo "github.com/muhub/projecthub/internal/repository/sqlite"
	"github.com/muhub/projecthub/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection. When the server shuts down we
// must close it to flush the WAL and release the file lock — handled in
// Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the auth and project
// services, and wires every route.
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories). The handler never touches the database directly and the
// service never touches HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                          → redirect to /dashboard
//	GET    /login                     → login page (HTML)
//	GET    /dashboard                 → dashboard page (HTML, guarded)
//	GET    /static/*                  → static files (CSS, JS)
//	POST   /auth/register             → create account (JSON)
//	POST   /auth/login                → start session (JSON + cookie)
//	POST   /auth/logout               → end session
//	GET    /auth/check                → whoami (JSON)
//	GET    /api/projects              → list project ideas (public)
//	GET    /api/projects/{id}         → get one project (public)
//	POST   /api/projects              → submit idea (guarded)
//	PUT    /api/projects/{id}         → edit idea (guarded, owner/admin)
//	DELETE /api/projects/{id}         → delete idea (guarded, owner/admin)
//	POST   /api/projects/{id}/mentor  → assign mentor (guarded, mentor/admin)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth plumbing ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	cookies := auth.NewCookieWriter(s.config.Production, s.config.TokenTTL)

	// === Services ===
	authService := service.NewAuthService(
		s.db.Users(), tokens, passwords,
		s.config.EmailDomain, s.config.TokenTTL, s.logger,
	)
	projectService := service.NewProjectService(s.db.Projects(), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, cookies, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)

	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	// === Static Files ===
	// http.StripPrefix removes "/static/" from the URL path before lookup,
	// so GET /static/css/style.css serves {StaticDir}/css/style.css.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Page Routes ===
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	s.router.Get("/login", pageHandler.HandleLogin)

	// Browser pages get the redirecting guard: no session → bounce to
	// /login with a ?next= back-reference instead of a JSON 401.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(tokens, "/login"))
		r.Get("/dashboard", pageHandler.HandleDashboard)
	})

	// === Auth Routes ===
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/check", authHandler.HandleCheck)
	})

	// === API Routes ===
	s.router.Route("/api", func(r chi.Router) {
		// Public: anyone can browse the catalog. OptionalAuth still
		// resolves the identity when a session is present, so a future
		// personalised listing needs no route changes.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/projects", projectHandler.HandleList)
			r.Get("/projects/{id}", projectHandler.HandleGet)
		})

		// Guarded: mutations require a valid session cookie. The guard
		// returns a JSON 401 — these are API routes, not pages.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/projects", projectHandler.HandleCreate)
			r.Put("/projects/{id}", projectHandler.HandleUpdate)
			r.Delete("/projects/{id}", projectHandler.HandleDelete)
			r.Post("/projects/{id}/mentor", projectHandler.HandleAssignMentor)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something
// panics.
func (s *Server) Start() error {
	defer s.db.Close()

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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
