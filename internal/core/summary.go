package core

import "time"

// CategorySpend is the all-time expense total of one category.
type CategorySpend struct {
	Name  Category `json:"name"`
	Value Money    `json:"value"`
	Color string   `json:"color"`
}

// CashFlowDay is one day of the weekly cash-flow chart.
type CashFlowDay struct {
	Label   string `json:"label"` // short weekday name
	Date    Date   `json:"date"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// Summary bundles every derived view for one reference day.
type Summary struct {
	Date               Date            `json:"date"`
	Balance            Money           `json:"balance"`
	MonthlyIncome      Money           `json:"monthlyIncome"`
	MonthlyExpense     Money           `json:"monthlyExpense"`
	SpendingByCategory []CategorySpend `json:"spendingByCategory"`
	CashFlow           []CashFlowDay   `json:"cashFlow"`
	HealthScore        int             `json:"healthScore"`
	Tips               []string        `json:"tips"`
}

// LedgerChange describes one applied mutation, for notifications.
type LedgerChange struct {
	Operation     string    `json:"operation"` // "add" or "delete"
	TransactionID string    `json:"transactionId"`
	Count         int       `json:"count"`
	Balance       Money     `json:"balance"`
	Timestamp     time.Time `json:"timestamp"`
}
