package accounting

import (
	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashBalance computes the reconciled cash position for a day:
// opening float plus net cash movements. Bank totals must never be passed
// here; they are reconciliation data, not a balance.
func CashBalance(openingCash decimal.Decimal, cash domain.Totals) decimal.Decimal {
	return openingCash.Add(cash.Income).Sub(cash.Expense)
}

// Net returns income minus expense for a totals pair.
func Net(t domain.Totals) decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
