package http

import (
	"context"
	"net/http"
	"time"

	"finproject/internal/aggregate"
	"finproject/internal/core"
	"finproject/internal/form"
	"finproject/internal/log"
	"finproject/internal/middleware/ratelimit"
	"finproject/internal/middleware/security"
	"finproject/internal/middleware/trace"
	"finproject/internal/services"
	"finproject/internal/view"
)

// HeaderConfirm carries the user's confirmation of a deletion.
const HeaderConfirm = "X-Confirm"

// TransactionService is what the handlers need from the service layer.
type TransactionService interface {
	NewDraft() form.Draft
	Submit(ctx context.Context, d form.Draft) (core.Transaction, error)
	Delete(ctx context.Context, id string, confirm services.ConfirmFunc) error
	History(ctx context.Context, opts view.Options) view.Result
	Summary(ctx context.Context, opts aggregate.Options) aggregate.Summary
	Categories(t core.Type) []string
}

type Options struct {
	// RateLimit is the number of mutating requests a client may send per minute.
	RateLimit int
}

type Server struct {
	http.Server
	svc         TransactionService
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
}

// NewServer builds the API server. Middleware order, outermost first:
// probe detection, security headers, tracing, request logger, rate limit.
func NewServer(addr string, svc TransactionService, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:         svc,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	detector := security.NewDetector(logger.WithComponent(log.ComponentSecurity).Slog())
	limited := s.rateLimiter.Middleware(detector.ExtractClientIP, ratelimit.MutatingOnly,
		func(w http.ResponseWriter, r *http.Request) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, detector.ExtractClientIP(r))
			TooManyRequestsError().Write(w)
		})(mux)

	var handler http.Handler = limited
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = trace.NewMiddleware(logger, detector.ExtractClientIP).Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = detector.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

// Shutdown stops accepting requests and the rate limiter's janitor.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}
