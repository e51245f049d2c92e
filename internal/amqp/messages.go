package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"moneymanager/internal/core"
)

// LedgerChangedMessage announces that the ledger snapshot was rewritten.
// It carries no transaction data; consumers read the snapshot from the store.
type LedgerChangedMessage struct {
	Operation     string    `json:"operation"`
	TransactionID string    `json:"transactionId"`
	Count         int       `json:"count"`
	Balance       int64     `json:"balance"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(c core.LedgerChange) *LedgerChangedMessage {
	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerChangedMessage{
		Operation:     c.Operation,
		TransactionID: c.TransactionID,
		Count:         c.Count,
		Balance:       c.Balance.Units,
		Timestamp:     ts,
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Operation == "" {
		return nil, fmt.Errorf("missing operation")
	}
	return &msg, nil
}
