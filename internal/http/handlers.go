package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"moneymanager/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports 503 until the ledger has finished its initial load.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.ledger.Ready() {
		checks["ledger"] = "ok"
	} else {
		checks["ledger"] = "loading"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.scanner != nil {
		checks["scanner"] = "ok"
	} else {
		checks["scanner"] = "not_configured"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	metrics := []struct {
		name, help, kind string
		value            int64
	}{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"http_server_errors_total", "Responses with a 5xx status", "counter", traceMetrics.ServerErrors},
		{"http_response_time_avg_microseconds", "Average response time", "gauge", traceMetrics.AverageResponseTime},
		{"transactions_created_total", "Transactions added through the API", "counter", atomic.LoadInt64(&s.appMetrics.created)},
		{"transactions_deleted_total", "Transactions removed through the API", "counter", atomic.LoadInt64(&s.appMetrics.deleted)},
		{"transactions_rejected_total", "Transaction drafts that failed validation", "counter", atomic.LoadInt64(&s.appMetrics.rejected)},
		{"receipt_scans_total", "Completed receipt scans", "counter", atomic.LoadInt64(&s.appMetrics.scans)},
		{"ledger_transactions", "Transactions currently in the ledger", "gauge", int64(len(s.ledger.Transactions()))},
		{"ledger_balance", "Current balance in whole rupiah", "gauge", s.ledger.Balance().Units},
		{"rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.TotalHits},
		{"rate_limit_active_clients", "Clients tracked by the rate limiter", "gauge", rateLimitMetrics.ClientCount},
		{"security_suspicious_requests_total", "Requests matching probe patterns", "counter", securityMetrics.SuspiciousRequests},
		{"security_invalid_ip_total", "Unparseable client addresses", "counter", securityMetrics.InvalidIPAttempts},
		{"uptime_seconds", "Seconds since the server started", "gauge", int64(time.Since(s.appMetrics.uptime).Seconds())},
	}

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	fields := log.NewFields().
		WithHTTPRequest(r.Method, r.URL.Path).
		WithClientIP(s.securityDetector.ExtractClientIP(r))
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", fields.ToSlice()...)
	TooManyRequestsError().Write(w)
}
