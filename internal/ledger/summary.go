package ledger

import (
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Summary holds running totals over a collection.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summarize totals income and expense amounts; Balance is income minus expense.
func Summarize(txns []models.LocalTransaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txns {
		switch t.Type {
		case models.TypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case models.TypeExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}
