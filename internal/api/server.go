package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/secdash/internal/api/middleware"
	passwordapp "github.com/khanhnv2901/secdash/internal/application/password"
	"github.com/khanhnv2901/secdash/internal/domain/password"
	"github.com/khanhnv2901/secdash/internal/domain/report"
	"github.com/khanhnv2901/secdash/internal/render"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 1 << 20

type PasswordService interface {
	Submit(ctx context.Context, username, password string) (*passwordapp.Submission, error)
	Credentials(ctx context.Context) ([]password.Credential, error)
}

type ReportService interface {
	Latest(ctx context.Context) (report.Report, bool, error)
}

type HealthService interface {
	Check(ctx context.Context) error
	Ready(ctx context.Context) error
}

type JobService interface {
	StartJob(ctx context.Context, req ScanRequest) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]Job, error)
	Subscribe() (chan Job, func())
}

// PasswordRequest is the body of POST /api/v1/passwords
type PasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PasswordResponse never echoes the password
type PasswordResponse struct {
	Username   string   `json:"username"`
	Strength   string   `json:"strength"`
	Score      int      `json:"score"`
	Violations []string `json:"violations"`
	Stored     bool     `json:"stored"`
	Reused     bool     `json:"reused"`
}

// CredentialSummary exposes stored usernames only
type CredentialSummary struct {
	Username string `json:"username"`
}

type Config struct {
	Passwords   PasswordService
	Reports     ReportService
	Health      HealthService
	Jobs        JobService
	AuthToken   string
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
	RateLimit   int      // Requests per second per IP (0 = disabled)
	RateBurst   int      // Burst size for rate limiter
}

type Server struct {
	cfg      Config
	mux      *http.ServeMux
	limiters *rateLimiterMap
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		limiters: newRateLimiterMap(),
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// RequestID -> Logging -> RateLimit -> CORS -> Auth -> Handler
	handler := middleware.RequestID(s.withLogging(s.withRateLimit(s.withCORS(s.mux))))
	handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.Handle("/api/v1/health", s.withAuth(http.HandlerFunc(s.handleHealth)))
	s.mux.Handle("/api/v1/ready", s.withAuth(http.HandlerFunc(s.handleReady)))
	s.mux.Handle("/api/v1/passwords", s.withAuth(http.HandlerFunc(s.handlePasswords)))
	s.mux.Handle("/api/v1/credentials", s.withAuth(http.HandlerFunc(s.handleCredentials)))
	s.mux.Handle("/api/v1/reports/latest", s.withAuth(http.HandlerFunc(s.handleLatestReport)))
	s.mux.Handle("/api/v1/scans", s.withAuth(http.HandlerFunc(s.handleScans)))
	s.mux.Handle("/api/v1/scans/", s.withAuth(http.HandlerFunc(s.handleScanByID)))
	s.mux.Handle("/api/v1/scans-stream", s.withAuth(http.HandlerFunc(s.handleScanStream)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Check(r.Context()); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Ready(r.Context()); err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handlePasswords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Passwords == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("password service not available"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	sub, err := s.cfg.Passwords.Submit(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if sub.Stored {
		status = http.StatusCreated
	}
	writeJSON(w, status, PasswordResponse{
		Username:   sub.Username,
		Strength:   string(sub.Assessment.Tier),
		Score:      sub.Assessment.Score,
		Violations: sub.Assessment.Violations,
		Stored:     sub.Stored,
		Reused:     sub.Reused,
	})
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Passwords == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("password service not available"))
		return
	}

	creds, err := s.cfg.Passwords.Credentials(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	items := make([]CredentialSummary, len(creds))
	for i, c := range creds {
		items[i] = CredentialSummary{Username: c.Username}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Reports == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New(render.NoReportMessage))
		return
	}

	rep, ok, err := s.cfg.Reports.Latest(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	view := render.NewView(rep)
	if !ok || view == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New(render.NoReportMessage))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("scan service not available"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := 25
		if q := r.URL.Query().Get("limit"); q != "" {
			if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		jobs, err := s.cfg.Jobs.ListJobs(r.Context(), limit)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		job, err := s.cfg.Jobs.StartJob(r.Context(), req)
		if err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, err)
			return
		}
		writeJSON(w, http.StatusAccepted, job)
	default:
		s.methodNotAllowed(w, r)
	}
}

func (s *Server) handleScanByID(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("scan service not available"))
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/scans/")
	if id == "" {
		s.writeError(w, r, http.StatusNotFound, errors.New("scan ID required"))
		return
	}
	job, err := s.cfg.Jobs.GetJob(r.Context(), id)
	if err != nil || job == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("scan not found"))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleScanStream(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Jobs == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("scan service not available"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	// subscribe before the headers go out so a client that has seen them misses no update
	updates, unsubscribe := s.cfg.Jobs.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case job, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(job)
			if err != nil {
				s.requestLogger(r).Error("failed to marshal job", zap.Error(err))
				continue
			}
			if !s.writeStreamChunk(w, []byte("event: scan\ndata: ")) {
				return
			}
			if !s.writeStreamChunk(w, payload) {
				return
			}
			if !s.writeStreamChunk(w, []byte("\n\n")) {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := clientAddress(r)
		limiter := s.limiters.getLimiter(clientIP, s.cfg.RateLimit, s.cfg.RateBurst)
		if !limiter.Allow() {
			s.requestLogger(r).Warn("rate_limit_exceeded", zap.String("client_ip", clientIP))
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientAddress prefers the first X-Forwarded-For hop and strips the port
func clientAddress(r *http.Request) string {
	clientIP := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		clientIP = strings.TrimSpace(first)
	}
	if idx := strings.LastIndex(clientIP, ":"); idx > 0 {
		clientIP = clientIP[:idx]
	}
	return clientIP
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			for _, allowed := range s.cfg.CORSOrigins {
				if allowed == origin {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth-Token")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		if s.cfg.Logger != nil {
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Auth-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, r, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

// Flush lets the event stream pass through the logging wrapper
func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// 5xx details stay in the server log
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}
	if r == nil {
		return s.cfg.Logger
	}
	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func (s *Server) writeStreamChunk(w http.ResponseWriter, data []byte) bool {
	if _, err := w.Write(data); err != nil {
		s.requestLogger(nil).Error("failed to write stream chunk", zap.Error(err))
		return false
	}
	return true
}

// rateLimiterMap manages per-IP rate limiters. Limiters idle for longer than
// limiterTTL are dropped on the next lookup.
type rateLimiterMap struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	lastGC   time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterTTL = 5 * time.Minute

func newRateLimiterMap() *rateLimiterMap {
	return &rateLimiterMap{
		limiters: make(map[string]*ipLimiter),
		lastGC:   time.Now(),
	}
}

func (m *rateLimiterMap) getLimiter(ip string, rps, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastGC) > time.Minute {
		for key, l := range m.limiters {
			if now.Sub(l.lastSeen) > limiterTTL {
				delete(m.limiters, key)
			}
		}
		m.lastGC = now
	}

	if burst <= 0 {
		burst = rps
	}
	limiter, exists := m.limiters[ip]
	if !exists {
		limiter = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		m.limiters[ip] = limiter
	}
	limiter.lastSeen = now
	return limiter.limiter
}
