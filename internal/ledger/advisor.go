package ledger

import (
	"fmt"
	"strings"
	"time"

	"moneymanager/internal/core"
)

const (
	maxTips = 3

	foodIncomeShare          = 0.30
	entertainmentIncomeShare = 0.10
	minCoffeePurchases       = 3
)

// largeSurplus is the monthly surplus above which saving is suggested.
var largeSurplus = core.Rp(1_000_000)

var coffeeMarkers = []string{"kopi", "starbucks"}

var fallbackTips = []string{
	"✨ Keuangan kamu terlihat sehat! Terus pertahankan kebiasaan baik ini.",
	"📈 Tips: Alokasikan 20% pendapatan untuk tabungan darurat dan investasi.",
}

// Tips evaluates the advice rules in priority order and returns at most
// three messages. When no rule fires the two fallback messages are returned.
func Tips(list []core.Transaction, ref time.Time) []string {
	income := MonthlyIncome(list, ref)
	expense := MonthlyExpense(list, ref)
	surplus := income.Sub(expense)

	var tips []string

	if food := monthlyCategoryExpense(list, ref, core.Food); exceedsShare(food, income, foodIncomeShare) {
		tips = append(tips, fmt.Sprintf("💡 Pengeluaran makanan kamu mencapai %s, lebih dari 30%% pendapatan. Coba meal prep di rumah!", core.FormatRupiah(food)))
	}

	if fun := monthlyCategoryExpense(list, ref, core.Entertainment); exceedsShare(fun, income, entertainmentIncomeShare) {
		tips = append(tips, fmt.Sprintf("🎬 Budget hiburan sudah %s. Pertimbangkan alternatif gratis seperti hiking atau picnic.", core.FormatRupiah(fun)))
	}

	if surplus.Units > largeSurplus.Units {
		tips = append(tips, fmt.Sprintf("🎉 Hebat! Kamu punya surplus %s bulan ini. Pindahkan ke rekening tabungan atau investasi!", core.FormatRupiah(surplus)))
	}

	if surplus.Units < 0 {
		tips = append(tips, fmt.Sprintf("⚠️ Pengeluaran melebihi pemasukan sebesar %s. Review pengeluaran yang tidak urgent.", core.FormatRupiah(surplus.Abs())))
	}

	if count, total := coffeeSpending(list); count >= minCoffeePurchases {
		tips = append(tips, fmt.Sprintf("☕ Pengeluaran kopi bulan ini: %s. Bawa tumbler dari rumah untuk hemat!", core.FormatRupiah(total)))
	}

	if len(tips) == 0 {
		tips = append(tips, fallbackTips...)
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

// exceedsShare reports amount > share*income. Zero income means any
// positive amount exceeds it.
func exceedsShare(amount, income core.Money, share float64) bool {
	return float64(amount.Units) > float64(income.Units)*share
}

// coffeeSpending counts every stored expense that looks like a coffee purchase.
func coffeeSpending(list []core.Transaction) (int, core.Money) {
	var (
		count int
		total core.Money
	)
	for _, t := range list {
		if t.Type != core.Expense || !isCoffee(t.Description) {
			continue
		}
		count++
		total = total.Add(t.Amount)
	}
	return count, total
}

func isCoffee(desc string) bool {
	d := strings.ToLower(desc)
	for _, marker := range coffeeMarkers {
		if strings.Contains(d, marker) {
			return true
		}
	}
	return false
}
