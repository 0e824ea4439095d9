// Package server provides the HTTP server and routing for the fund admin.
package server

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/puyolnw/F/internal/config"
	"github.com/puyolnw/F/internal/di"
	accountshandlers "github.com/puyolnw/F/internal/modules/accounts/handlers"
	dashboardhandlers "github.com/puyolnw/F/internal/modules/dashboard/handlers"
	fundaccountshandlers "github.com/puyolnw/F/internal/modules/fundaccounts/handlers"
	loanshandlers "github.com/puyolnw/F/internal/modules/loans/handlers"
	membershandlers "github.com/puyolnw/F/internal/modules/members/handlers"
	transactionshandlers "github.com/puyolnw/F/internal/modules/transactions/handlers"
	"github.com/puyolnw/F/internal/session"
	"github.com/puyolnw/F/internal/web"
)

// MsgPageNotFound is shown for unknown paths.
const MsgPageNotFound = "ไม่พบหน้าที่ต้องการ"

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Port      int
	DevMode   bool
	Container *di.Container
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	port           int
	devMode        bool
	container      *di.Container
	authHandlers   *AuthHandlers
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")
	_ = mime.AddExtensionType(".woff2", "font/woff2")

	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		port:      cfg.Port,
		devMode:   cfg.DevMode,
		container: cfg.Container,
	}

	s.authHandlers = NewAuthHandlers(cfg.Container.Sessions, cfg.Container.Renderer, cfg.Log)
	s.systemHandlers = NewSystemHandlers(SystemDeps{
		Sessions:  cfg.Container.Sessions,
		Probe:     cfg.Container.BackendProbeMonitor,
		Scheduler: cfg.Container.Scheduler,
		Jobs:      jobsOf(cfg.Jobs),
		FundAPI:   cfg.Container.FundAPI.BaseURL(),
	}, cfg.Log)

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures the middleware shared by every route. Timeout
// and compression are applied per group in setupRoutes so the search socket
// can stay open.
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS. The screens are same-origin; other origins may read public
	// endpoints but never with the session cookie.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Signed-in user, if any
	s.router.Use(s.container.Sessions.Attach)
}

// bounded applies the request timeout and, outside dev mode, compression.
func (s *Server) bounded(r chi.Router) {
	r.Use(middleware.Timeout(60 * time.Second))
	if !s.devMode {
		r.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	c := s.container
	log := s.log

	transactionsHandler := transactionshandlers.NewHandler(c.TransactionService, c.Renderer, log)
	loansHandler := loanshandlers.NewHandler(c.LoanService, c.Navigation, c.Renderer, log)
	membersHandler := membershandlers.NewHandler(c.MemberService, c.Renderer, log)
	accountsHandler := accountshandlers.NewHandler(c.AccountService, c.Navigation, c.Renderer, log)
	fundAccountsHandler := fundaccountshandlers.NewHandler(c.FundAccountService, c.Renderer, log)
	dashboardHandler := dashboardhandlers.NewHandler(c.DashboardService, c.Renderer, log)

	// Public
	s.router.Group(func(r chi.Router) {
		s.bounded(r)

		r.Get("/health", s.handleHealth)
		r.Get("/api/system/status", s.systemHandlers.HandleSystemStatus)

		fileServer := http.FileServer(http.FS(c.Static))
		r.Handle("/static/*", http.StripPrefix("/static/", s.assetsHandler(fileServer)))

		s.authHandlers.RegisterRoutes(r)
	})

	// Signed-in pages
	s.router.Group(func(r chi.Router) {
		r.Use(session.RequireUser)
		s.bounded(r)

		dashboardHandler.RegisterRoutes(r)
		transactionsHandler.RegisterRoutes(r)
		loansHandler.RegisterRoutes(r)
		membersHandler.RegisterRoutes(r)
		accountsHandler.RegisterRoutes(r)
		fundAccountsHandler.RegisterRoutes(r)
	})

	// Page scripts; unauthenticated calls get 401 instead of a redirect
	s.router.Route("/ui", func(r chi.Router) {
		r.Use(session.RequireUser)

		r.Group(func(r chi.Router) {
			s.bounded(r)
			dashboardHandler.RegisterUIRoutes(r)
			accountsHandler.RegisterUIRoutes(r)
			s.systemHandlers.RegisterUIRoutes(r)
		})

		// Long-lived connections
		r.Group(accountsHandler.RegisterSocketRoutes)
	})

	s.router.NotFound(s.handleNotFound)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "villagefund-admin",
	}
	if err := s.container.SessionDB.QuickCheck(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("Session database unavailable")
		response["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	web.WriteJSON(w, status, response)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.container.Renderer.Render(w, r, http.StatusNotFound, "error", web.Page{
		Title: "ไม่พบหน้า",
		Data:  MsgPageNotFound,
	})
}

// assetsHandler wraps the file server to set correct MIME types
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			switch ext {
			case ".js":
				contentType = "application/javascript"
			case ".css":
				contentType = "text/css"
			case ".svg":
				contentType = "image/svg+xml"
			case ".woff", ".woff2":
				contentType = "font/woff2"
			default:
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
