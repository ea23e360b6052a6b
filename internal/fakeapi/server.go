// Package fakeapi is an in-memory implementation of the bookmark REST API.
// It backs the client's integration tests and can run standalone for
// development through cmd/fakeapi.
package fakeapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/linkshelf/linkshelf/internal/auth"
	"github.com/linkshelf/linkshelf/internal/ratelimit"
	"github.com/linkshelf/linkshelf/internal/validation"
	"github.com/linkshelf/linkshelf/internal/view"
)

// Options configures a Server.
type Options struct {
	// SigningKey signs access tokens. A random key is generated when empty.
	SigningKey []byte
	// TokenTTL is the access token lifetime (default: 24h).
	TokenTTL time.Duration
	// RequestsPerSecond limits each client IP; zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *DB
	tokens   *auth.TokenService
	validate *validation.Validator
	views    *view.Builder
	limiter  *ratelimit.KeyedRateLimiter
	router   *chi.Mux
	logger   *slog.Logger

	replayMu sync.Mutex
	replays  map[string]replay
}

// NewServer creates a server with all routes configured.
func NewServer(db *DB, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	key := opts.SigningKey
	if len(key) == 0 {
		var err error
		if key, err = auth.GenerateKey(); err != nil {
			return nil, err
		}
	}
	tokens, err := auth.NewTokenService(key, opts.TokenTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:       db,
		tokens:   tokens,
		validate: validation.New(),
		views:    view.NewBuilder(language.Und),
		router:   chi.NewRouter(),
		logger:   logger,
		replays:  make(map[string]replay),
	}
	if opts.RequestsPerSecond > 0 {
		s.limiter = ratelimit.New(opts.RequestsPerSecond, max(opts.Burst, 1))
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the rate limiter.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	if s.limiter != nil {
		s.router.Use(s.rateLimit)
	}
	s.router.Use(s.idempotent)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signin", s.handleSignIn)
		r.Post("/signup", s.handleSignUp)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/user/me", s.handleGetMe)
		r.Patch("/user/update", s.handleUpdateMe)

		r.Route("/bookmark", func(r chi.Router) {
			r.Get("/", s.handleListBookmarks)
			r.Post("/create", s.handleCreateBookmark)
			r.Get("/{id}", s.handleGetBookmark)
			r.Patch("/{id}", s.handleUpdateBookmark)
			r.Delete("/{id}", s.handleDeleteBookmark)
			r.Patch("/{id}/favorite", s.handleToggleFavorite)
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Patch("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/tag", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleCreateTag)
			r.Delete("/{id}", s.handleDeleteTag)
		})
	})
}
