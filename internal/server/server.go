// Package server provides the AgriMRV-Lite web application: server-rendered
// pages, the farmer input event stream and a small read-only JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/agrimrv-lite/internal/auth"
	"github.com/jonathan/agrimrv-lite/internal/config"
	"github.com/jonathan/agrimrv-lite/internal/db"
	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
	"github.com/jonathan/agrimrv-lite/internal/server/middleware"
	"github.com/jonathan/agrimrv-lite/internal/server/ratelimit"
	"github.com/jonathan/agrimrv-lite/internal/submission"
	"go.uber.org/zap"
)

// Options holds the runtime settings of the web server.
type Options struct {
	Port              int
	SecureCookies     bool
	RecordingDuration time.Duration
	VerificationDelay time.Duration
	VisitorTTL        time.Duration // idle visitors are forgotten after this (default 2h)

	// Clock drives the submission flow timers; nil uses the real clock.
	Clock submission.Clock
}

// Deps are the collaborators the server is built from.
type Deps struct {
	Source    proofs.Source
	Provider  auth.Provider
	Tokens    *auth.JWTService
	Verifier  submission.Verifier
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
	Pinger    func(ctx context.Context) error // health check of the backing store, optional
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	opts        Options
	logger      *zap.Logger
	table       navigation.Table
	source      proofs.Source
	provider    auth.Provider
	tokens      *auth.JWTService
	pinger      func(ctx context.Context) error
	rateLimiter *ratelimit.Limiter
	pages       *pageRenderer
	visitors    *visitorStore
	flows       *submission.Registry
	closers     []func()
}

// New builds a server from cfg. It connects to PostgreSQL when a database URL
// is configured and otherwise serves the built-in fixtures with an in-memory
// account store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		if os.Getenv("JWT_SECRET") != "" {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		// Sessions will not survive a restart
		logger.Warn("JWT_SECRET not set, using an ephemeral session secret")
		jwtConfig = &config.JWTConfig{Secret: uuid.NewString() + uuid.NewString(), ExpirationHours: 24}
	}

	rateLimit, err := ratelimit.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate limit config: %w", err)
	}

	deps := Deps{
		Tokens:    auth.NewJWTService(jwtConfig),
		RateLimit: rateLimit,
		Logger:    logger,
	}
	var closers []func()

	if cfg.UseDatabase() {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.Source = database
		deps.Provider = auth.NewUserService(database, passwordConfig, logger)
		deps.Pinger = database.Ping
		closers = append(closers, database.Close)
		logger.Info("using PostgreSQL storage")
	} else {
		fixtures, err := proofs.NewFixtureSource()
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		deps.Source = fixtures
		deps.Provider = auth.NewUserService(auth.NewMemoryStore(), passwordConfig, logger)
		logger.Info("DATABASE_URL not set, using built-in fixtures and in-memory accounts")
	}

	s, err := NewWithDeps(Options{
		Port:              cfg.Port,
		SecureCookies:     cfg.SecureCookies,
		RecordingDuration: cfg.RecordingDuration,
		VerificationDelay: cfg.VerificationDelay,
	}, deps)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	s.closers = append(s.closers, closers...)
	return s, nil
}

// NewWithDeps builds a server around explicit collaborators.
func NewWithDeps(opts Options, deps Deps) (*Server, error) {
	if deps.Source == nil || deps.Provider == nil || deps.Tokens == nil {
		return nil, errors.New("server requires a data source, an auth provider and a token service")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.VisitorTTL <= 0 {
		opts.VisitorTTL = 2 * time.Hour
	}

	pages, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:        opts,
		logger:      deps.Logger,
		table:       navigation.DefaultTable(),
		source:      deps.Source,
		provider:    deps.Provider,
		tokens:      deps.Tokens,
		pinger:      deps.Pinger,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		pages:       pages,
	}
	s.visitors = newVisitorStore(deps.Provider, deps.Logger, opts.VisitorTTL)
	s.flows = submission.NewRegistry(func(visitorID string) *submission.Flow {
		return submission.NewFlow(submission.Options{
			Clock:             opts.Clock,
			Notifier:          s.visitors.get(visitorID).notes,
			Verifier:          deps.Verifier,
			Logger:            deps.Logger.With(zap.String("visitor_id", visitorID)),
			RecordingDuration: opts.RecordingDuration,
			VerificationDelay: opts.VerificationDelay,
		})
	})

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /farmer-input", s.handleFarmerInput)
	mux.HandleFunc("GET /proofs", s.handleProofs)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("GET /register", s.handleRegisterPage)

	// Navigation bar
	mux.HandleFunc("POST /nav/{direction}", s.handleNavigate)

	// Farmer input actions
	mux.HandleFunc("POST /farmer-input/photo", s.handleSelectPhoto)
	mux.HandleFunc("POST /farmer-input/record", s.handleToggleRecording)
	mux.HandleFunc("POST /farmer-input/submit", s.handleSubmit)
	mux.HandleFunc("GET /farmer-input/events", s.handleFlowEvents)
	mux.HandleFunc("GET /farmer-input/state", s.handleFlowState)

	// Auth forms
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST "+navigation.LogoutPath, s.handleLogout)

	// Read-only JSON API
	mux.HandleFunc("GET /api/routes", s.handleAPIRoutes)
	mux.HandleFunc("GET /api/proofs", s.handleAPIProofs)
	mux.HandleFunc("GET /api/farmers", s.handleAPIFarmers)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withRateLimit(s.withLogging(
		middleware.VisitorMiddleware(opts.SecureCookies)(
			middleware.SessionMiddleware(s.tokens, opts.SecureCookies)(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // the event stream stays open
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sweepStop := make(chan struct{})
	go s.sweepVisitors(sweepStop)
	defer close(sweepStop)

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open event streams end once their flows are closed
	s.flows.CloseAll()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases the flows, the rate limiter and the storage.
func (s *Server) Close() {
	s.flows.CloseAll()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

func (s *Server) sweepVisitors(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			for _, id := range s.visitors.sweep(time.Now()) {
				s.flows.Release(id)
			}
		case <-stop:
			return
		}
	}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
