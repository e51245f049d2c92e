package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
)

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      core.Money         `json:"balance"`
	Count        int                `json:"count"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.ledger.Transactions()
	NewJSONResponse().Body(transactionsResponse{
		Transactions: txs,
		Balance:      s.ledger.Balance(),
		Count:        len(txs),
	}).Write(w)
}

// handleCreateTransaction accepts a JSON or form draft. Validation failures
// answer 422 naming the field.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sl := log.FromRequest(r)

	draft, err := ParseDraft(w, r)
	if err != nil {
		sl.LogRejected(ctx, "Unreadable transaction body", err, log.OpCreate)
		BadRequestError("request body must be JSON or form encoded").Write(w)
		return
	}

	tx, err := s.ledger.Add(ctx, draft)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			atomic.AddInt64(&s.appMetrics.rejected, 1)
			sl.LogRejected(ctx, "Transaction rejected", err, log.OpCreate)
			UnprocessableEntityError(verr.Error(), verr.Field).Write(w)
			return
		}
		sl.LogError(ctx, "Failed to add transaction", err, log.OpCreate, nil)
		InternalServerError("could not add transaction").Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.created, 1)
	sl.LogTransactionAdded(ctx, tx.ID, string(tx.Type), string(tx.Category), tx.Amount.Units, tx.Date.String())
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Body(tx).
		Write(w)
}

// handleDeleteTransaction always answers 200; removed tells whether the id
// existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	removed := s.ledger.Delete(r.Context(), id)
	if removed {
		atomic.AddInt64(&s.appMetrics.deleted, 1)
	}
	log.FromRequest(r).LogTransactionDeleted(r.Context(), id, removed)
	NewJSONResponse().Body(deleteResponse{ID: id, Removed: removed}).Write(w)
}

// handleSummary returns every derived view for the month of ?date, which
// defaults to today.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref, err := ParseReferenceDate(r.URL.Query(), s.ledger.Now())
	if err != nil {
		log.FromRequest(r).LogRejected(r.Context(), "Bad summary date", err, log.OpSummary)
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().Body(s.ledger.Summary(ref)).Write(w)
}

// handleScan blocks for the scan delay and returns a prefilled draft. The
// draft is not added to the ledger.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		ServiceUnavailableError("receipt scanning is not configured").Write(w)
		return
	}

	draft, err := s.scanner.Scan(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.FromContext(r.Context()).InfoContext(r.Context(), "Receipt scan abandoned", log.FieldError, err.Error())
			ServiceUnavailableError("scan cancelled").Write(w)
			return
		}
		log.FromRequest(r).LogError(r.Context(), "Receipt scan failed", err, log.OpScan, nil)
		InternalServerError("scan failed").Write(w)
		return
	}

	atomic.AddInt64(&s.appMetrics.scans, 1)
	NewJSONResponse().Body(draft).Write(w)
}
