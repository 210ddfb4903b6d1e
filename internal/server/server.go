package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/rs/zerolog/log"
)

// Assistant generates writing-assistant content. *assist.Service implements it.
type Assistant interface {
	Generate(ctx context.Context, req assist.Request) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       DBClient
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	assistant   Assistant          // nil when no API key is configured
	pdf         export.PDFRenderer // headless Chrome in production
	archiver    export.Archiver    // optional
	llmClient   llm.Client         // closed on shutdown
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Model       string
	ChromePath  string
	Archive     export.ArchiveConfig
}

// Deps are the collaborators a Server is assembled from.
type Deps struct {
	Store     DBClient
	Passwords *config.PasswordConfig
	JWT       *config.JWTConfig
	Limiter   *ratelimit.Limiter
	Assistant Assistant
	PDF       export.PDFRenderer
	Archiver  export.Archiver
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	deps := Deps{
		Store:     database,
		Passwords: passwordConfig,
		JWT:       jwtConfig,
		Limiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		PDF:       export.NewChromeRenderer(cfg.ChromePath),
	}

	var client llm.Client
	if cfg.APIKey != "" {
		llmConfig := llm.DefaultConfig()
		if cfg.Model != "" {
			llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
		}
		client, err = llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		deps.Assistant = assist.NewService(client)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, content generation is disabled")
	}

	if cfg.Archive.Enabled() {
		archiver, err := export.NewS3Archiver(ctx, cfg.Archive)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to create export archiver: %w", err)
		}
		deps.Archiver = archiver
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("PDF export archiving enabled")
	}

	s := NewWithDeps(cfg.Port, deps)
	s.llmClient = client
	return s, nil
}

// NewWithDeps assembles a server from already-constructed collaborators.
func NewWithDeps(port int, deps Deps) *Server {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}

	s := &Server{
		store:       deps.Store,
		rateLimiter: limiter,
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.Store, deps.Passwords),
		assistant:   deps.Assistant,
		pdf:         deps.PDF,
		archiver:    deps.Archiver,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export and model calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
}

func (s *Server) routes() *http.ServeMux {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /preview", s.handlePreviewContent)

	// Authentication
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", protected(s.authHandler.UpdatePassword))

	// Resumes
	mux.Handle("GET /resumes", protected(s.handleListResumes))
	mux.Handle("POST /resumes", protected(s.handleCreateResume))
	mux.Handle("GET /resumes/{id}", protected(s.handleGetResume))
	mux.Handle("PATCH /resumes/{id}", protected(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", protected(s.handleDeleteResume))
	mux.Handle("POST /resumes/{id}/duplicate", protected(s.handleDuplicateResume))
	mux.Handle("PATCH /resumes/{id}/content", protected(s.handleMergeContent))

	// Section items
	mux.Handle("POST /resumes/{id}/sections/{section}", protected(s.handleAddItem))
	mux.Handle("PUT /resumes/{id}/sections/{section}/{item_id}", protected(s.handleReplaceItem))
	mux.Handle("DELETE /resumes/{id}/sections/{section}/{item_id}", protected(s.handleRemoveItem))

	// Rendering and export
	mux.Handle("GET /resumes/{id}/preview", protected(s.handlePreviewResume))
	mux.Handle("GET /resumes/{id}/export.pdf", protected(s.handleExportPDF))
	mux.Handle("GET /resumes/{id}/export.txt", protected(s.handleExportText))

	// Writing assistant
	mux.Handle("POST /functions/generate-resume-content", protected(s.handleGenerateContent))

	return mux
}

// Start begins listening for requests and blocks until ctx is cancelled or the process
// receives SIGINT/SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.release()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.release()
	log.Info().Msg("server stopped")
	return nil
}

// release stops background work and closes upstream connections.
func (s *Server) release() {
	s.rateLimiter.Stop()
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close LLM client")
		}
	}
	if s.store != nil {
		s.store.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed")
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Warn().Str("client", clientID).Int("limit", info.Limit).
		Time("reset_at", info.ResetTime).Msg("rate limit exceeded")

	jsonResponse(w, http.StatusTooManyRequests, response)
}
