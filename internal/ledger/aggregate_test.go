package ledger

import (
	"math"
	"testing"
	"time"

	"moneymanager/internal/core"
)

var ref = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

func tx(id string, typ core.TransactionType, amount int64, cat core.Category, date core.Date) core.Transaction {
	return core.Transaction{ID: id, Description: "tx " + id, Amount: core.Rp(amount), Category: cat, Type: typ, Date: date}
}

func sampleList() []core.Transaction {
	return []core.Transaction{
		tx("1", core.Income, 8_500_000, core.Salary, core.NewDate(2025, 3, 1)),
		tx("2", core.Expense, 25_000, core.Food, core.NewDate(2025, 3, 14)),
		tx("3", core.Expense, 40_000, core.Transport, core.NewDate(2025, 3, 12)),
		tx("4", core.Income, 500_000, core.Freelance, core.NewDate(2025, 2, 20)),
		tx("5", core.Expense, 90_000, core.Category("Crypto"), core.NewDate(2025, 2, 28)),
		tx("6", core.Expense, 10_000, core.Food, core.NewDate(2024, 3, 14)),
		tx("7", core.Income, 1_000, core.Other, core.NewDate(2025, 3, 9)),
	}
}

func TestBalance(t *testing.T) {
	if got := Balance(nil); got.Units != 0 {
		t.Fatalf("empty balance = %d", got.Units)
	}
	list := sampleList()
	want := int64(8_500_000 + 500_000 + 1_000 - 25_000 - 40_000 - 90_000 - 10_000)
	if got := Balance(list); got.Units != want {
		t.Fatalf("balance = %d, want %d", got.Units, want)
	}

	reversed := make([]core.Transaction, len(list))
	for i, t := range list {
		reversed[len(list)-1-i] = t
	}
	if Balance(reversed) != Balance(list) {
		t.Fatalf("balance depends on order")
	}
}

func TestBalanceDoesNotWrap(t *testing.T) {
	huge := int64(math.MaxInt64/2 + 1)
	list := []core.Transaction{
		tx("1", core.Income, huge, core.Salary, core.NewDate(2025, 3, 1)),
		tx("2", core.Income, huge, core.Salary, core.NewDate(2025, 3, 2)),
	}
	if got := Balance(list); got.Units != math.MaxInt64 {
		t.Fatalf("balance = %d, want saturation at MaxInt64", got.Units)
	}
}

func TestNewSnapshotRecomputesBalance(t *testing.T) {
	snap := NewSnapshot(sampleList())
	if snap.Balance != Balance(sampleList()) {
		t.Fatalf("snapshot balance %d", snap.Balance.Units)
	}
	if empty := NewSnapshot(nil); empty.Transactions == nil || empty.Balance.Units != 0 {
		t.Fatalf("empty snapshot should carry an empty list: %+v", empty)
	}
}

func TestMonthlyTotals(t *testing.T) {
	list := sampleList()
	if got := MonthlyIncome(list, ref); got.Units != 8_501_000 {
		t.Fatalf("monthly income = %d", got.Units)
	}
	if got := MonthlyExpense(list, ref); got.Units != 65_000 {
		t.Fatalf("monthly expense = %d", got.Units)
	}

	// income + expense of the month partitions every amount dated in it
	var all int64
	for _, t := range list {
		if t.Date.SameMonth(ref) {
			all += t.Amount.Units
		}
	}
	if MonthlyIncome(list, ref).Units+MonthlyExpense(list, ref).Units != all {
		t.Fatalf("monthly totals do not partition the month")
	}

	// createdAt never affects bucketing
	moved := tx("8", core.Expense, 1, core.Food, core.NewDate(2025, 1, 1))
	moved.CreatedAt = ref
	if got := MonthlyExpense(append(list, moved), ref); got.Units != 65_000 {
		t.Fatalf("createdAt leaked into monthly expense: %d", got.Units)
	}
}

func TestSpendingByCategory(t *testing.T) {
	got := SpendingByCategory(sampleList())
	want := []struct {
		name  core.Category
		value int64
	}{
		{core.Other, 90_000},
		{core.Transport, 40_000},
		{core.Food, 35_000},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d groups: %+v", len(got), got)
	}
	var sum int64
	for i, w := range want {
		if got[i].Name != w.name || got[i].Value.Units != w.value {
			t.Fatalf("group %d = %+v, want %v", i, got[i], w)
		}
		if got[i].Color == "" {
			t.Fatalf("group %d has no color", i)
		}
		sum += got[i].Value.Units
	}
	if sum != 165_000 {
		t.Fatalf("groups sum to %d, want all-time expense 165000", sum)
	}

	if len(SpendingByCategory(nil)) != 0 {
		t.Fatalf("expected no groups for empty list")
	}
	incomeOnly := []core.Transaction{tx("1", core.Income, 10, core.Salary, core.NewDate(2025, 3, 1))}
	if len(SpendingByCategory(incomeOnly)) != 0 {
		t.Fatalf("income must not produce groups")
	}
}

func TestSpendingByCategoryStableTies(t *testing.T) {
	list := []core.Transaction{
		tx("1", core.Expense, 100, core.Bills, core.NewDate(2025, 3, 1)),
		tx("2", core.Expense, 100, core.Shopping, core.NewDate(2025, 3, 1)),
		tx("3", core.Expense, 100, core.Food, core.NewDate(2025, 3, 1)),
	}
	got := SpendingByCategory(list)
	if got[0].Name != core.Bills || got[1].Name != core.Shopping || got[2].Name != core.Food {
		t.Fatalf("ties should keep first-seen order: %+v", got)
	}
}

func TestCashFlowSeries(t *testing.T) {
	empty := CashFlowSeries(nil, ref)
	if len(empty) != 7 {
		t.Fatalf("expected 7 days, got %d", len(empty))
	}
	for _, d := range empty {
		if d.Income.Units != 0 || d.Expense.Units != 0 {
			t.Fatalf("expected zero day, got %+v", d)
		}
	}

	days := CashFlowSeries(sampleList(), ref)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Date != core.NewDate(2025, 3, 8) || days[6].Date != core.NewDate(2025, 3, 14) {
		t.Fatalf("unexpected window %v..%v", days[0].Date, days[6].Date)
	}
	// 2025-03-14 is a Friday
	if days[6].Label != "Jum" || days[0].Label != "Sab" {
		t.Fatalf("unexpected labels %q %q", days[0].Label, days[6].Label)
	}
	if days[6].Expense.Units != 25_000 || days[4].Expense.Units != 40_000 || days[1].Income.Units != 1_000 {
		t.Fatalf("unexpected series: %+v", days)
	}
}

func TestCashFlowSeriesCrossesMonthBoundary(t *testing.T) {
	days := CashFlowSeries(nil, time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC))
	if days[0].Date != core.NewDate(2025, 2, 24) || days[6].Date != core.NewDate(2025, 3, 2) {
		t.Fatalf("unexpected window %v..%v", days[0].Date, days[6].Date)
	}
}

func TestHealthScore(t *testing.T) {
	month := core.NewDate(2025, 3, 5)
	withTotals := func(income, expense int64) []core.Transaction {
		var list []core.Transaction
		if income > 0 {
			list = append(list, tx("i", core.Income, income, core.Salary, month))
		}
		if expense > 0 {
			list = append(list, tx("e", core.Expense, expense, core.Bills, month))
		}
		return list
	}

	cases := []struct {
		name            string
		income, expense int64
		want            int
	}{
		{"no income", 0, 50_000, 50},
		{"empty", 0, 0, 50},
		{"rate exactly 0.30", 100, 70, 95},
		{"rate 0.997", 8_500_000, 25_000, 95},
		{"rate 0.25", 100, 75, 85},
		{"rate 0.20", 100, 80, 85},
		{"rate 0.10", 100, 90, 70},
		{"rate 0", 100, 100, 55},
		{"rate -0.25", 100, 125, 25},
		{"rate -1 floors at 20", 100, 200, 20},
		{"rate -5 floors at 20", 100, 600, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HealthScore(withTotals(tc.income, tc.expense), ref); got != tc.want {
				t.Fatalf("HealthScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSingleFoodExpenseScenario(t *testing.T) {
	list := []core.Transaction{tx("1", core.Expense, 50_000, core.Food, core.DateOf(ref))}

	if got := Balance(list); got.Units != -50_000 {
		t.Fatalf("balance = %d", got.Units)
	}
	spend := SpendingByCategory(list)
	if len(spend) != 1 || spend[0].Name != core.Food || spend[0].Value.Units != 50_000 {
		t.Fatalf("unexpected spending %+v", spend)
	}
	if got := HealthScore(list, ref); got != 50 {
		t.Fatalf("health = %d", got)
	}
}

func TestSummarizeSeed(t *testing.T) {
	seedRef := time.Date(2024, 2, 7, 10, 0, 0, 0, time.UTC)
	s := Summarize(core.SeedTransactions(seedRef), seedRef)

	if s.Balance.Units != 9_089_000 {
		t.Fatalf("balance = %d", s.Balance.Units)
	}
	if s.MonthlyIncome.Units != 11_000_000 || s.MonthlyExpense.Units != 1_911_000 {
		t.Fatalf("monthly = %d / %d", s.MonthlyIncome.Units, s.MonthlyExpense.Units)
	}
	if s.HealthScore != 95 {
		t.Fatalf("health = %d", s.HealthScore)
	}
	if len(s.CashFlow) != 7 || s.CashFlow[6].Expense.Units != 35_000 {
		t.Fatalf("cash flow = %+v", s.CashFlow)
	}
	if s.SpendingByCategory[0].Name != core.Bills || s.SpendingByCategory[0].Value.Units != 800_000 {
		t.Fatalf("top category = %+v", s.SpendingByCategory[0])
	}
	if len(s.Tips) != 1 {
		t.Fatalf("tips = %q", s.Tips)
	}
}
