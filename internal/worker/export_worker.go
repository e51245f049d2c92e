package worker

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"moneymanager/internal/amqp"
	"moneymanager/internal/core"
	"moneymanager/internal/sheets"
	"moneymanager/internal/storage"
)

// SnapshotReader reads the ledger without side effects.
type SnapshotReader interface {
	Peek(ctx context.Context) (core.Snapshot, bool, error)
}

// ExportWorker mirrors the stored ledger into a spreadsheet whenever it is
// told the ledger changed.
type ExportWorker struct {
	store    SnapshotReader
	exporter sheets.LedgerExporter

	mu   sync.Mutex
	last []byte // encoded snapshot of the last successful export
}

func NewExportWorker(store SnapshotReader, exporter sheets.LedgerExporter) *ExportWorker {
	return &ExportWorker{store: store, exporter: exporter}
}

// HandleLedgerChanged exports the current snapshot. The message only
// triggers the export; its content is logged but never trusted.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"operation", msg.Operation,
		"id", msg.TransactionID,
		"count", msg.Count)

	if _, err := w.Export(ctx); err != nil {
		return fmt.Errorf("export after %s %s: %w", msg.Operation, msg.TransactionID, err)
	}
	return nil
}

// Export pushes the stored snapshot to the exporter unless it is identical to
// the last one exported. It reports whether an export happened.
func (w *ExportWorker) Export(ctx context.Context) (bool, error) {
	snap, ok, err := w.store.Peek(ctx)
	if err != nil {
		return false, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		slog.InfoContext(ctx, "No ledger stored yet, nothing to export")
		return false, nil
	}

	raw, err := storage.Encode(snap)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last != nil && bytes.Equal(raw, w.last) {
		slog.DebugContext(ctx, "Ledger unchanged since last export")
		return false, nil
	}

	rows, err := w.exporter.ExportTransactions(ctx, snap.Transactions)
	if err != nil {
		return false, fmt.Errorf("export transactions: %w", err)
	}
	w.last = raw

	slog.InfoContext(ctx, "Ledger exported",
		"rows", rows,
		"balance", snap.Balance.Units)
	return true, nil
}

// StartupExport exports once at startup to catch changes missed while the
// worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	exported, err := w.Export(ctx)
	if err != nil {
		return fmt.Errorf("startup export: %w", err)
	}
	slog.InfoContext(ctx, "Startup export completed", "exported", exported)
	return nil
}
