package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Date/time wire formats. Days sort lexically, timestamps sort lexically;
// both are part of the storage and export contract.
const (
	DayLayout       = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Direction indicates whether a movement brings money in or takes it out.
type Direction string

const (
	DirectionIncome  Direction = "ingreso"
	DirectionExpense Direction = "egreso"
)

// Method is the payment channel of a movement. Bank movements are tracked for
// reconciliation against external statements only; they never enter the cash balance.
type Method string

const (
	MethodCash Method = "efectivo"
	MethodBank Method = "banco"
)

// ParseDirection validates a direction value. It is strict: callers are
// expected to normalize case and whitespace before calling. Legacy aliases
// are accepted only by the normalizer, never here.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionIncome, DirectionExpense:
		return Direction(s), true
	}
	return "", false
}

// ParseMethod validates a payment method value. Strict, like ParseDirection.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodCash, MethodBank:
		return Method(s), true
	}
	return "", false
}

// ValidDay reports whether s is a well-formed calendar day (YYYY-MM-DD).
func ValidDay(s string) bool {
	t, err := time.Parse(DayLayout, s)
	return err == nil && t.Format(DayLayout) == s
}

// DayOf returns the calendar day a timestamp falls on.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// DayState describes one calendar day of the register: whether it is open and
// the opening cash float. Exactly one DayState exists per day; a day that has
// never been opened still gets a row (closed, zero float) on first touch.
type DayState struct {
	Day         string          `json:"dia"`
	IsOpen      bool            `json:"abierta"`
	OpeningCash decimal.Decimal `json:"efectivoInicial"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Movement is a single cash or bank transaction attributed to a day.
// Movements are never deleted; corrections are additional movements or
// normalizer-driven field coercion.
type Movement struct {
	ID               int64           `json:"id"`
	Timestamp        time.Time       `json:"fecha"`
	Day              string          `json:"dia"`
	Amount           decimal.Decimal `json:"monto"`
	Direction        Direction       `json:"tipoMov"`
	Method           Method          `json:"metodo"`
	Memo             string          `json:"motivo"`
	Reference        string          `json:"referencia"`
	SentToHeadOffice bool            `json:"enviadoMatriz"`
}

// OpeningRecord is an immutable snapshot appended each time a day is opened
// or its float adjusted. DayState.OpeningCash always reflects the latest one.
type OpeningRecord struct {
	ID          int64           `json:"id"`
	Day         string          `json:"dia"`
	OpeningCash decimal.Decimal `json:"efectivoInicial"`
	Note        string          `json:"nota"`
	Timestamp   time.Time       `json:"fecha"`
}

// ClosingRecord is an immutable snapshot written when a day closes. Totals
// cover cash movements only.
type ClosingRecord struct {
	ID               int64           `json:"id"`
	Day              string          `json:"dia"`
	FinalCashBalance decimal.Decimal `json:"efectivoFinal"`
	TotalIncome      decimal.Decimal `json:"totalIngresos"`
	TotalExpense     decimal.Decimal `json:"totalEgresos"`
	Note             string          `json:"nota"`
	Timestamp        time.Time       `json:"fecha"`
}

// Totals is an income/expense pair for some day range and method filter.
type Totals struct {
	Income  decimal.Decimal `json:"ingresos"`
	Expense decimal.Decimal `json:"egresos"`
}

// ZeroTotals returns a Totals with explicit zero decimals, so callers always
// see (0, 0) rather than uninitialized values when no rows match.
func ZeroTotals() Totals {
	return Totals{Income: decimal.Zero, Expense: decimal.Zero}
}
