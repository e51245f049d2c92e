package core

import "time"

// SeedTransactions returns the sample ledger used when nothing is stored.
// All records fall in February 2024; createdAt is the time of seeding.
func SeedTransactions(now time.Time) []Transaction {
	tx := func(id, desc string, amount int64, cat Category, typ TransactionType, day int) Transaction {
		return Transaction{
			ID:          id,
			Description: desc,
			Amount:      Rp(amount),
			Category:    cat,
			Type:        typ,
			Date:        NewDate(2024, 2, day),
			CreatedAt:   now,
		}
	}
	return []Transaction{
		tx("1", "Gaji Bulanan", 8500000, Salary, Income, 1),
		tx("2", "Freelance Project", 2500000, Freelance, Income, 5),
		tx("3", "Makan Siang Warteg", 25000, Food, Expense, 6),
		tx("4", "Kopi Starbucks", 65000, Food, Expense, 6),
		tx("5", "Grab ke Kantor", 35000, Transport, Expense, 7),
		tx("6", "Listrik Bulanan", 450000, Bills, Expense, 3),
		tx("7", "Internet Indihome", 350000, Bills, Expense, 3),
		tx("8", "Belanja Groceries", 750000, Shopping, Expense, 4),
		tx("9", "Netflix Subscription", 186000, Entertainment, Expense, 1),
		tx("10", "Bensin Motor", 50000, Transport, Expense, 5),
	}
}
