// Package http exposes the finance records and derived reports as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"financas/internal/events"
	"financas/internal/report"
	"financas/internal/store"
)

// EventPublisher pushes period change notifications after successful writes.
// A nil publisher disables eventing; publish failures never fail a request.
type EventPublisher interface {
	PublishPeriodChanged(ctx context.Context, entity, op string, month, year int) error
}

type Server struct {
	http.Server
	store       store.Store
	reports     *report.Service
	publisher   EventPublisher
	corsOrigins []string
}

// NewServer wires all routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st store.Store, reports *report.Service, publisher EventPublisher, corsOrigins []string) *Server {
	s := &Server{
		store:       st,
		reports:     reports,
		publisher:   publisher,
		corsOrigins: corsOrigins,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/fixed-expenses", s.handleCreateFixedExpense)
	mux.HandleFunc("GET /api/fixed-expenses", s.handleListFixedExpenses)
	mux.HandleFunc("PUT /api/fixed-expenses/{id}", s.handleUpdateFixedExpense)
	mux.HandleFunc("DELETE /api/fixed-expenses/{id}", s.handleDeleteFixedExpense)

	mux.HandleFunc("POST /api/alerts", s.handleReplaceAlert)
	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("GET /api/alerts/{mes}/{ano}", s.handleGetAlert)

	mux.HandleFunc("GET /api/reports/{mes}/{ano}", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/dashboard/{ano}", s.handleYearDashboard)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.withMiddleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// withMiddleware adds request IDs, request logging, security headers and CORS.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if origin := r.Header.Get("Origin"); origin != "" {
			if allowed := s.allowOrigin(origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	})
}

func (s *Server) allowOrigin(origin string) string {
	if slices.Contains(s.corsOrigins, "*") {
		return "*"
	}
	if slices.Contains(s.corsOrigins, origin) {
		return origin
	}
	return ""
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// publishChange notifies the event bus about a completed write. Best effort:
// a broker outage is logged and the request still succeeds.
func (s *Server) publishChange(ctx context.Context, entity, op string, month, year int) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPeriodChanged(ctx, entity, op, month, year); err != nil {
		slog.ErrorContext(ctx, "Failed to publish period changed event",
			"error", err, "entity", entity, "op", op, "month", month, "year", year)
	}
}

var _ EventPublisher = (*events.Client)(nil)

// pathInt parses an integer path segment; ok is false after a 422 was written.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid path parameter '"+name+"'")
		return 0, false
	}
	return v, true
}

// queryFilter reads the optional mes/ano query parameters. Absent parameters
// stay zero, which the store treats as unset.
func queryFilter(w http.ResponseWriter, r *http.Request) (store.Filter, bool) {
	var f store.Filter
	for _, p := range []struct {
		name string
		dst  *int
	}{{"mes", &f.Month}, {"ano", &f.Year}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid query parameter '"+p.name+"'")
			return store.Filter{}, false
		}
		*p.dst = v
	}
	return f, true
}
