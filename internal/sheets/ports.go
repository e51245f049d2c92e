package sheets

import (
	"context"

	"moneymanager/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerExporter mirrors the whole ledger into an external sheet,
	// replacing whatever was exported before.
	LedgerExporter interface {
		ExportTransactions(ctx context.Context, txs []core.Transaction) (rows int, err error)
	}
)

// Header is the first row of every export.
var Header = []string{"ID", "Tanggal", "Deskripsi", "Kategori", "Tipe", "Jumlah", "Dibuat"}
