package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"moneymanager/internal/core"
	"moneymanager/internal/ledger"
)

const (
	OpAdd    = "add"
	OpDelete = "delete"
)

// SnapshotStore loads and saves the whole ledger. Load never fails; Save is
// best effort.
type SnapshotStore interface {
	Load(ctx context.Context) core.Snapshot
	Save(ctx context.Context, snap core.Snapshot)
}

// Notifier is told about every applied mutation.
type Notifier interface {
	PublishLedgerChanged(ctx context.Context, change core.LedgerChange) error
}

// LedgerService owns the in-memory transaction list. Mutations go through it
// and are persisted before they return; reads re-derive every view from the
// current list.
type LedgerService struct {
	store    SnapshotStore
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu    sync.RWMutex
	txs   []core.Transaction // newest first
	ready atomic.Bool
}

// Option customises a LedgerService.
type Option func(*LedgerService)

// WithNotifier publishes change events after each mutation.
func WithNotifier(n Notifier) Option {
	return func(s *LedgerService) { s.notifier = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *LedgerService) { s.newID = gen }
}

func NewLedgerService(store SnapshotStore, opts ...Option) *LedgerService {
	s := &LedgerService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open performs the initial load and marks the service ready.
// Calling it again reloads from the store.
func (s *LedgerService) Open(ctx context.Context) {
	snap := s.store.Load(ctx)

	s.mu.Lock()
	s.txs = append([]core.Transaction(nil), snap.Transactions...)
	s.mu.Unlock()

	s.ready.Store(true)
	slog.InfoContext(ctx, "Ledger loaded", "transactions", len(snap.Transactions), "balance", snap.Balance.Units)
}

// Ready reports whether the initial load has completed.
func (s *LedgerService) Ready() bool {
	return s.ready.Load()
}

// Now is the service clock; it is the default reference time for views.
func (s *LedgerService) Now() time.Time {
	return s.now()
}

// Add validates the draft and prepends the new transaction. Invalid input
// returns a *core.ValidationError and leaves the ledger untouched.
func (s *LedgerService) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	now := s.now()
	tx, err := d.Resolve(now)
	if err != nil {
		slog.InfoContext(ctx, "Transaction rejected", "error", err)
		return core.Transaction{}, err
	}
	tx.ID = s.newID()
	tx.CreatedAt = now

	s.mu.Lock()
	updated := make([]core.Transaction, 0, len(s.txs)+1)
	updated = append(updated, tx)
	updated = append(updated, s.txs...)
	s.txs = updated
	snap := ledger.NewSnapshot(updated)
	s.store.Save(ctx, snap)
	s.mu.Unlock()

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount.Units,
		"date", tx.Date.String())

	s.notify(ctx, OpAdd, tx.ID, snap)
	return tx, nil
}

// Delete removes the transaction with the given id and reports whether one
// was found. The snapshot is rewritten either way.
func (s *LedgerService) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	updated := make([]core.Transaction, 0, len(s.txs))
	removed := false
	for _, t := range s.txs {
		if !removed && t.ID == id {
			removed = true
			continue
		}
		updated = append(updated, t)
	}
	s.txs = updated
	snap := ledger.NewSnapshot(updated)
	s.store.Save(ctx, snap)
	s.mu.Unlock()

	if !removed {
		slog.InfoContext(ctx, "Delete ignored, transaction not found", "id", id)
		return false
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.notify(ctx, OpDelete, id, snap)
	return true
}

func (s *LedgerService) notify(ctx context.Context, op, id string, snap core.Snapshot) {
	if s.notifier == nil {
		return
	}
	change := core.LedgerChange{
		Operation:     op,
		TransactionID: id,
		Count:         len(snap.Transactions),
		Balance:       snap.Balance,
		Timestamp:     s.now(),
	}
	if err := s.notifier.PublishLedgerChanged(ctx, change); err != nil {
		// The mutation is already persisted locally.
		slog.ErrorContext(ctx, "Failed to publish ledger change", "operation", op, "id", id, "error", err)
	}
}

// Transactions returns a copy of the ledger, newest first.
func (s *LedgerService) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction{}, s.txs...)
}

func (s *LedgerService) Balance() core.Money {
	return ledger.Balance(s.Transactions())
}

func (s *LedgerService) MonthlyIncome(ref time.Time) core.Money {
	return ledger.MonthlyIncome(s.Transactions(), ref)
}

func (s *LedgerService) MonthlyExpense(ref time.Time) core.Money {
	return ledger.MonthlyExpense(s.Transactions(), ref)
}

func (s *LedgerService) SpendingByCategory() []core.CategorySpend {
	return ledger.SpendingByCategory(s.Transactions())
}

func (s *LedgerService) CashFlow(ref time.Time) []core.CashFlowDay {
	return ledger.CashFlowSeries(s.Transactions(), ref)
}

func (s *LedgerService) HealthScore(ref time.Time) int {
	return ledger.HealthScore(s.Transactions(), ref)
}

func (s *LedgerService) Tips(ref time.Time) []string {
	return ledger.Tips(s.Transactions(), ref)
}

// Summary derives every view from one consistent copy of the ledger.
func (s *LedgerService) Summary(ref time.Time) core.Summary {
	return ledger.Summarize(s.Transactions(), ref)
}
