package fakeapi

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/http/response"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

// requireAuth validates the bearer token and attaches the user id.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Unauthorized", s.logger)
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			response.Unauthorized(w, "Unauthorized", s.logger)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "Unauthorized", s.logger)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			response.Unauthorized(w, "Unauthorized", s.logger)
			return
		}
		// the account may be gone even though its token is still valid
		if _, err := s.db.User(userID); err != nil {
			response.Unauthorized(w, "Unauthorized", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getUserID returns the authenticated user id, or 0.
func getUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(contextKeyUserID).(int64); ok {
		return id
	}
	return 0
}

// rateLimit rejects clients that exceed the per-IP budget with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !s.limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// logRequests logs one line per request with the client's request id.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Validationf("id must be a positive integer, got %q", raw)
	}
	return id, nil
}

// maxReplays bounds the idempotency cache; it is reset when full.
const maxReplays = 10_000

type replay struct {
	status      int
	contentType string
	body        []byte
}

// idempotent replays the stored response of a successful POST whose
// Idempotency-Key was seen before, instead of running it again.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		key = r.URL.Path + " " + key

		s.replayMu.Lock()
		rep, ok := s.replays[key]
		s.replayMu.Unlock()
		if ok {
			w.Header().Set("Content-Type", rep.contentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rep.status)
			_, _ = w.Write(rep.body)
			return
		}

		var buf bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&buf)
		next.ServeHTTP(ww, r)

		if ww.Status() >= 200 && ww.Status() < 300 {
			s.replayMu.Lock()
			if len(s.replays) >= maxReplays {
				s.replays = make(map[string]replay)
			}
			s.replays[key] = replay{
				status:      ww.Status(),
				contentType: ww.Header().Get("Content-Type"),
				body:        buf.Bytes(),
			}
			s.replayMu.Unlock()
		}
	})
}
