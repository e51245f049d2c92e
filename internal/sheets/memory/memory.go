package memory

import (
	"context"
	"sync"

	"moneymanager/internal/core"
)

// Exporter keeps the last export in memory. It stands in for the spreadsheet
// when no Google credentials are configured.
type Exporter struct {
	mu      sync.Mutex
	rows    []core.Transaction
	exports int
	// Err, when set, is returned by every export.
	Err error
}

func New() *Exporter {
	return &Exporter{}
}

// ExportTransactions replaces the stored rows with a copy of txs.
func (e *Exporter) ExportTransactions(_ context.Context, txs []core.Transaction) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return 0, e.Err
	}
	e.rows = append([]core.Transaction(nil), txs...)
	e.exports++
	return len(txs), nil
}

// Rows returns the last exported transactions.
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Transaction(nil), e.rows...)
}

// Exports counts successful exports.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
