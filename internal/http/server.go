package http

import (
	"context"
	"net/http"
	"time"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/middleware/ratelimit"
	"moneymanager/internal/middleware/security"
	"moneymanager/internal/middleware/trace"
)

// Ledger is the mutation facade the API drives.
type Ledger interface {
	Ready() bool
	Now() time.Time
	Transactions() []core.Transaction
	Balance() core.Money
	Add(ctx context.Context, d core.Draft) (core.Transaction, error)
	Delete(ctx context.Context, id string) bool
	Summary(ref time.Time) core.Summary
}

// Scanner produces a prefilled draft from a receipt.
type Scanner interface {
	Scan(ctx context.Context) (core.Draft, error)
}

// Options tune the server. Zero values pick defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *log.Logger
	TrustedProxies     []string
}

type Server struct {
	http.Server
	ledger  Ledger
	scanner Scanner

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics
}

type appMetrics struct {
	created  int64
	deleted  int64
	rejected int64
	scans    int64
	uptime   time.Time
}

// NewServer wires the routes and middleware. Only mutating requests count
// against the rate limit.
func NewServer(addr string, ledger Ledger, scanner Scanner, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(context.Background()).WithComponent(log.ComponentHTTP)
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		ledger:           ledger,
		scanner:          scanner,
		securityDetector: detector,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/scan", s.handleScan)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(detector.ExtractClientIP, s.handleRateLimited,
		http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = detector.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// long enough for a receipt scan
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Shutdown stops the rate limiter and drains open connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}
