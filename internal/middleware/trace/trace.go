// Package trace tags every request with an id and logs its start and completion.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"finproject/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// HeaderRequestID echoes the id back to the client.
	HeaderRequestID = "X-Request-ID"
)

type Middleware struct {
	extractIP func(*http.Request) string
	logger    *log.StructuredLogger
	total     int64
	lastMs    int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string) *Middleware {
	return &Middleware{
		extractIP: extractIP,
		logger:    log.NewStructuredLogger(logger),
	}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := GenerateRequestID()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		m.logger.LogHTTPStart(ctx, r, requestID, clientIP)
		atomic.AddInt64(&m.total, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		durationMs := time.Since(start).Milliseconds()
		atomic.StoreInt64(&m.lastMs, durationMs)
		m.logger.LogHTTPEnd(ctx, r, rw.statusCode, durationMs, requestID, clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID reads the id assigned by Middleware; shaped for log.RequestIDMiddleware.
func RequestID(r *http.Request) string {
	return GetRequestID(r.Context())
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests  int64
	LastDurationMs int64
}

func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:  atomic.LoadInt64(&m.total),
		LastDurationMs: atomic.LoadInt64(&m.lastMs),
	}
}
