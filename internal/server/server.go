package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"resume-tailor/internal/chat"
	"resume-tailor/internal/config"
	"resume-tailor/internal/identity"
	"resume-tailor/internal/provider"
	"resume-tailor/internal/server/middleware"
	"resume-tailor/internal/server/ratelimit"
	"resume-tailor/internal/store"
	"resume-tailor/internal/tailor"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	store      store.Store

	identityClient *identity.Client
	verifier       *identity.Verifier

	orchestrator *tailor.Orchestrator
	chatService  *chat.Service

	validate       *validator.Validate
	rateLimiter    *ratelimit.Limiter
	allowedOrigins []string
}

// New creates a server instance. With no DATABASE_URL configured the
// server runs on in-memory storage.
func New(cfg *config.Config) (*Server, error) {
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		st = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory storage")
		st = store.NewMemory()
	}

	identityClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityAnonKey)

	s := &Server{
		store:          st,
		identityClient: identityClient,
		verifier:       identity.NewVerifier(identityClient),
		orchestrator:   tailor.New(),
		chatService:    chat.NewService(st),
		validate:       validator.New(),
		rateLimiter:    ratelimit.NewLimiter(ratelimit.LoadConfig()),
		allowedOrigins: cfg.AllowedOrigins,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // AI calls and SSE streams are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the API router. AI, settings, chat and profile routes sit
// behind the auth middleware; auth passthroughs and health do not.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.Auth(s.verifier)
	protect := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Auth endpoints talk to the upstream identity provider directly;
	// token extraction happens in the handlers.
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/change-password", s.handleChangePassword)
	mux.HandleFunc("GET /api/auth/verify", s.handleVerify)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	// Profile
	mux.Handle("POST /api/profile", protect(s.handleSaveProfile))
	mux.Handle("GET /api/profile", protect(s.handleGetProfile))
	mux.Handle("DELETE /api/profile", protect(s.handleDeleteProfile))
	mux.Handle("GET /api/profile/{user_id}", protect(s.handleGetProfile))
	mux.Handle("DELETE /api/profile/{user_id}", protect(s.handleDeleteProfile))

	// AI
	mux.Handle("POST /api/ai/generate-summary", protect(s.handleGenerateSummary))
	mux.Handle("POST /api/ai/tailor-summary", protect(s.handleTailorSummary))
	mux.Handle("POST /api/ai/tailor-experience", protect(s.handleTailorExperience))
	mux.Handle("POST /api/ai/tailor-skills", protect(s.handleTailorSkills))
	mux.Handle("POST /api/ai/tailor-projects", protect(s.handleTailorProjects))
	mux.Handle("POST /api/ai/tailor-education", protect(s.handleTailorEducation))
	mux.Handle("POST /api/ai/tailor-resume", protect(s.handleTailorResume))
	mux.Handle("POST /api/ai/batch-tailor", protect(s.handleBatchTailor))
	mux.Handle("POST /api/ai/generate-cover-letter", protect(s.handleGenerateCoverLetter))
	mux.Handle("POST /api/ai/generate-proposal", protect(s.handleGenerateProposal))
	mux.Handle("POST /api/ai/ats-score", protect(s.handleNotImplemented("ATS scoring")))
	mux.Handle("POST /api/ai/ats-score-llm", protect(s.handleNotImplemented("LLM ATS scoring")))
	mux.Handle("POST /api/ai/rank-bullets", protect(s.handleNotImplemented("bullet ranking")))
	mux.Handle("POST /api/ai/verify-accuracy", protect(s.handleNotImplemented("accuracy verification")))

	// Settings and provider catalog
	mux.Handle("GET /api/ai/settings", protect(s.handleGetSettings))
	mux.Handle("POST /api/ai/settings", protect(s.handleSaveSettings))
	mux.Handle("DELETE /api/ai/settings", protect(s.handleDeleteSettings))
	mux.HandleFunc("GET /api/ai/providers", s.handleProviders)

	// Chat
	mux.Handle("POST /api/chat/completions", protect(s.handleChatCompletions))
	mux.Handle("GET /api/chat/history", protect(s.handleChatHistory))
	mux.Handle("GET /api/chat/history/{session_id}", protect(s.handleChatHistory))
	mux.Handle("DELETE /api/chat/history/{session_id}", protect(s.handleDeleteChatHistory))

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// resolveClient loads the user's provider settings and builds a client.
// No stored settings (or an empty stored key) means the provider is not
// configured yet.
func (s *Server) resolveClient(ctx context.Context, userID string) (provider.Client, error) {
	cfg, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &ErrProviderNotConfigured{}
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ErrProviderNotConfigured{}
	}
	return provider.New(*cfg)
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	origins := strings.Join(s.allowedOrigins, ", ")
	if origins == "" {
		origins = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles clients by authenticated user when possible,
// remote address otherwise.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := middleware.BearerToken(r)
		if clientID == "" {
			clientID = r.RemoteAddr
		}

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !allowed {
			retryAfter := int(time.Until(info.ResetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotImplemented builds a handler for a stubbed feature. The 501 is
// a deliberate, distinguishable condition, never disguised as success.
func (s *Server) handleNotImplemented(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, &ErrNotImplemented{Feature: feature})
	}
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its HTTP status and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status >= 500 && status != http.StatusNotImplemented {
		log.Printf("request failed: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON parses the request body into v and validates it.
func (s *Server) decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Message: "invalid JSON body"}
	}
	if err := s.validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return &ErrValidation{Message: "invalid request"}
		}
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return &ErrValidation{Field: fields[0].Field(), Message: "failed " + fields[0].Tag() + " validation"}
		}
		return &ErrValidation{Message: err.Error()}
	}
	return nil
}
