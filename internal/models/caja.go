package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Storage-shaped rows for the caja_* tables. Column vocabulary is inherited
// from the shop's existing data set and kept Spanish on the wire.

// DayState maps caja_estado. dia is the natural key (unique).
type DayState struct {
	Day         string          // dia, YYYY-MM-DD
	IsOpen      bool            // abierta
	OpeningCash decimal.Decimal // efectivo_inicial, >= 0
	CreatedAt   time.Time       // created_at
}

// Movement maps caja_movimientos. The head-office flag is stored as 0/1
// because legacy rows predate the boolean discipline; the normalizer keeps it
// in that range.
type Movement struct {
	ID               int64           // id
	Timestamp        time.Time       // fecha
	Day              string          // dia
	Amount           decimal.Decimal // monto, > 0
	Direction        string          // tipo_mov
	Method           string          // metodo
	Memo             string          // motivo
	Reference        string          // referencia
	SentToHeadOffice int             // enviado_matriz, 0 or 1
}

// OpeningRecord maps caja_aperturas (append-only).
type OpeningRecord struct {
	ID          int64
	Day         string
	OpeningCash decimal.Decimal
	Note        string
	Timestamp   time.Time
}

// ClosingRecord maps caja_cierres (append-only).
type ClosingRecord struct {
	ID               int64
	Day              string
	FinalCashBalance decimal.Decimal
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Note             string
	Timestamp        time.Time
}
