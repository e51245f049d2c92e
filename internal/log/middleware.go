package log

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the
// process default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return derive(slog.Default(), "")
}

// Middleware creates HTTP middleware that adds a logger to the request context
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// RequestIDMiddleware adds the request ID to the context logger. It must run
// after the middleware that assigns the id.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := extractRequestID(r)
			if requestID == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger := FromContext(r.Context()).With(FieldRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// StructuredLogger emits the ledger's domain events with consistent fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// FromRequest returns a StructuredLogger bound to the request's logger.
func FromRequest(r *http.Request) *StructuredLogger {
	return NewStructuredLogger(FromContext(r.Context()))
}

func (sl *StructuredLogger) LogTransactionAdded(ctx context.Context, id, txType, category string, amount int64, date string) {
	fields := NewFields().
		WithTransaction(id, txType, category, amount, date).
		WithOperation(OpCreate)
	sl.logger.InfoContext(ctx, "Transaction created", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogTransactionDeleted(ctx context.Context, id string, removed bool) {
	sl.logger.InfoContext(ctx, "Transaction delete requested",
		FieldTxID, id,
		FieldOperation, OpDelete,
		"removed", removed)
}

// LogRejected logs a client error at warn level.
func (sl *StructuredLogger) LogRejected(ctx context.Context, msg string, err error, operation string) {
	fields := NewFields().
		WithError(err).
		WithOperation(operation).
		WithErrorType(ErrorTypeBadRequest)

	var fe interface{ FieldName() string }
	if errors.As(err, &fe) {
		fields[FieldField] = fe.FieldName()
		fields.WithErrorType(ErrorTypeValidation)
	}
	sl.logger.WarnContext(ctx, msg, fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithErrorType(ErrorTypeInternal)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
