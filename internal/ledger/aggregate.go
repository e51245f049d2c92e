// Package ledger derives every dashboard view from a flat transaction list.
//
// All functions are pure: they never mutate the list and take the reference
// time explicitly instead of reading the clock.
package ledger

import (
	"math"
	"sort"
	"time"

	"moneymanager/internal/core"
)

// Health score breakpoints on the monthly savings rate.
const (
	neutralScore = 50
	scoreFloor   = 20
)

var scoreSteps = []struct {
	minRate float64
	score   int
}{
	{0.30, 95},
	{0.20, 85},
	{0.10, 70},
	{0, 55},
}

var categoryColors = map[core.Category]string{
	core.Food:          "hsl(180, 100%, 55%)",
	core.Transport:     "hsl(280, 100%, 65%)",
	core.Entertainment: "hsl(320, 90%, 60%)",
	core.Shopping:      "hsl(45, 100%, 60%)",
	core.Bills:         "hsl(200, 100%, 55%)",
	core.Other:         "hsl(150, 100%, 50%)",
}

var weekdayLabels = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

// Balance is total income minus total expense.
func Balance(list []core.Transaction) core.Money {
	var bal core.Money
	for _, t := range list {
		switch t.Type {
		case core.Income:
			bal = bal.Add(t.Amount)
		case core.Expense:
			bal = bal.Sub(t.Amount)
		}
	}
	return bal
}

// NewSnapshot wraps list for persistence with a freshly computed balance.
func NewSnapshot(list []core.Transaction) core.Snapshot {
	if list == nil {
		list = []core.Transaction{}
	}
	return core.Snapshot{Transactions: list, Balance: Balance(list)}
}

// MonthlyIncome sums income dated in the calendar month of ref.
func MonthlyIncome(list []core.Transaction, ref time.Time) core.Money {
	return monthlyTotal(list, ref, core.Income)
}

// MonthlyExpense sums expenses dated in the calendar month of ref.
func MonthlyExpense(list []core.Transaction, ref time.Time) core.Money {
	return monthlyTotal(list, ref, core.Expense)
}

func monthlyTotal(list []core.Transaction, ref time.Time, typ core.TransactionType) core.Money {
	var sum core.Money
	for _, t := range list {
		if t.Type == typ && t.Date.SameMonth(ref) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// monthlyCategoryExpense sums this month's expenses of one category.
func monthlyCategoryExpense(list []core.Transaction, ref time.Time, cat core.Category) core.Money {
	var sum core.Money
	for _, t := range list {
		if t.Type == core.Expense && t.Category.Normalize() == cat && t.Date.SameMonth(ref) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// SpendingByCategory groups all expenses by category, largest first.
// Unknown categories are reported under core.Other.
func SpendingByCategory(list []core.Transaction) []core.CategorySpend {
	totals := make(map[core.Category]core.Money)
	var order []core.Category
	for _, t := range list {
		if t.Type != core.Expense {
			continue
		}
		cat := t.Category.Normalize()
		if _, ok := totals[cat]; !ok {
			order = append(order, cat)
		}
		totals[cat] = totals[cat].Add(t.Amount)
	}

	out := make([]core.CategorySpend, 0, len(order))
	for _, cat := range order {
		if totals[cat].Units <= 0 {
			continue
		}
		out = append(out, core.CategorySpend{Name: cat, Value: totals[cat], Color: colorOf(cat)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.Units > out[j].Value.Units
	})
	return out
}

func colorOf(cat core.Category) string {
	if c, ok := categoryColors[cat]; ok {
		return c
	}
	return categoryColors[core.Other]
}

// CashFlowSeries returns the seven days ending on ref's calendar day,
// oldest first. Days without transactions are zero, never missing.
func CashFlowSeries(list []core.Transaction, ref time.Time) []core.CashFlowDay {
	y, m, d := ref.Date()
	days := make([]core.CashFlowDay, 0, 7)
	for i := 6; i >= 0; i-- {
		day := time.Date(y, m, d-i, 12, 0, 0, 0, ref.Location())
		entry := core.CashFlowDay{
			Label: weekdayLabels[day.Weekday()],
			Date:  core.DateOf(day),
		}
		for _, t := range list {
			if !t.Date.SameDay(day) {
				continue
			}
			switch t.Type {
			case core.Income:
				entry.Income = entry.Income.Add(t.Amount)
			case core.Expense:
				entry.Expense = entry.Expense.Add(t.Amount)
			}
		}
		days = append(days, entry)
	}
	return days
}

// HealthScore maps this month's savings rate to 0..100. Without income the
// score is a neutral 50.
func HealthScore(list []core.Transaction, ref time.Time) int {
	income := MonthlyIncome(list, ref)
	expense := MonthlyExpense(list, ref)
	if income.Units == 0 {
		return neutralScore
	}
	rate := float64(income.Sub(expense).Units) / float64(income.Units)
	for _, step := range scoreSteps {
		if rate >= step.minRate {
			return step.score
		}
	}
	return int(math.Round(math.Max(scoreFloor, neutralScore+rate*100)))
}

// Summarize computes every view for ref.
func Summarize(list []core.Transaction, ref time.Time) core.Summary {
	return core.Summary{
		Date:               core.DateOf(ref),
		Balance:            Balance(list),
		MonthlyIncome:      MonthlyIncome(list, ref),
		MonthlyExpense:     MonthlyExpense(list, ref),
		SpendingByCategory: SpendingByCategory(list),
		CashFlow:           CashFlowSeries(list, ref),
		HealthScore:        HealthScore(list, ref),
		Tips:               Tips(list, ref),
	}
}
