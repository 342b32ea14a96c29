package dto

import (
	"time"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenDayRequest opens the register for a day. Day defaults to today when omitted.
type OpenDayRequest struct {
	Day         string          `json:"dia" binding:"omitempty,daystr"`
	OpeningCash decimal.Decimal `json:"efectivo_inicial"`
	Note        string          `json:"nota"`
}

// AdjustOpeningCashRequest corrects the opening float of an already-open day.
// This is deliberately a separate operation from opening; re-opening an open
// day is rejected.
type AdjustOpeningCashRequest struct {
	Day         string          `json:"dia" binding:"omitempty,daystr"`
	OpeningCash decimal.Decimal `json:"efectivo_inicial"`
	Note        string          `json:"nota"`
}

// CloseDayRequest closes the register for a day. Day defaults to today.
type CloseDayRequest struct {
	Day  string `json:"dia" binding:"omitempty,daystr"`
	Note string `json:"nota"`
}

// RecordMovementRequest records one ledger movement. Timestamp accepts
// "YYYY-MM-DD HH:MM:SS" or a bare "YYYY-MM-DD"; when absent the current time
// is used. Day, when absent or malformed, derives from the timestamp's date.
type RecordMovementRequest struct {
	Timestamp        string          `json:"fecha"`
	Day              string          `json:"dia"`
	Amount           decimal.Decimal `json:"monto"`
	Direction        string          `json:"tipo_mov" binding:"required"`
	Method           string          `json:"metodo" binding:"required"`
	Memo             string          `json:"motivo"`
	Reference        string          `json:"referencia"`
	SentToHeadOffice bool            `json:"enviado_matriz"`
}

// ListMovementsParams filters the movement query. The range is inclusive over
// the attributed day; Method empty means both methods.
type ListMovementsParams struct {
	StartDay string `form:"start" binding:"omitempty,daystr"`
	EndDay   string `form:"end" binding:"omitempty,daystr"`
	Method   string `form:"metodo" binding:"omitempty,oneof=efectivo banco"`
}

// RangeTotalsParams mirrors ListMovementsParams for the totals report.
type RangeTotalsParams struct {
	StartDay string `form:"start" binding:"omitempty,daystr"`
	EndDay   string `form:"end" binding:"omitempty,daystr"`
	Method   string `form:"metodo" binding:"omitempty,oneof=efectivo banco"`
}

// DayStateResponse is the API shape of a day's register state.
type DayStateResponse struct {
	Day         string          `json:"dia"`
	IsOpen      bool            `json:"abierta"`
	OpeningCash decimal.Decimal `json:"efectivo_inicial"`
	CreatedAt   string          `json:"created_at"`
}

// MovementResponse is the API shape of a recorded movement.
type MovementResponse struct {
	ID               int64           `json:"id"`
	Timestamp        string          `json:"fecha"`
	Day              string          `json:"dia"`
	Amount           decimal.Decimal `json:"monto"`
	Direction        string          `json:"tipo_mov"`
	Method           string          `json:"metodo"`
	Memo             string          `json:"motivo"`
	Reference        string          `json:"referencia"`
	SentToHeadOffice bool            `json:"enviado_matriz"`
}

// ClosingRecordResponse is the API shape of a closing snapshot.
type ClosingRecordResponse struct {
	Day              string          `json:"dia"`
	FinalCashBalance decimal.Decimal `json:"efectivo_final"`
	TotalIncome      decimal.Decimal `json:"total_ingresos"`
	TotalExpense     decimal.Decimal `json:"total_egresos"`
	Note             string          `json:"nota"`
	Timestamp        string          `json:"fecha"`
}

// TotalsResponse reports aggregated income and expense.
type TotalsResponse struct {
	Income  decimal.Decimal `json:"ingresos"`
	Expense decimal.Decimal `json:"egresos"`
}

// DaySummary is the register home view for one day: state, per-method
// totals, the derived cash balance, and the most recent movements of the
// trailing window.
type DaySummary struct {
	State       domain.DayState   `json:"estado"`
	CashTotals  domain.Totals     `json:"efectivo"`
	BankTotals  domain.Totals     `json:"banco"`
	CashBalance decimal.Decimal   `json:"saldo_efectivo"`
	Recent      []domain.Movement `json:"ultimos"`
}

// DaySummaryResponse is the API shape of the register home view.
type DaySummaryResponse struct {
	State       DayStateResponse   `json:"estado"`
	CashTotals  TotalsResponse     `json:"efectivo"`
	BankTotals  TotalsResponse     `json:"banco"`
	CashBalance decimal.Decimal    `json:"saldo_efectivo"`
	Recent      []MovementResponse `json:"ultimos"`
}

// MovementListResponse wraps a movement query result.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movimientos"`
}

// NormalizeReportResponse reports what one repair pass changed.
type NormalizeReportResponse struct {
	Report      domain.NormalizeReport `json:"report"`
	ChangedRows int64                  `json:"changed_rows"`
}

// ToDayStateResponse converts a domain DayState into its API shape.
func ToDayStateResponse(d domain.DayState) DayStateResponse {
	return DayStateResponse{
		Day:         d.Day,
		IsOpen:      d.IsOpen,
		OpeningCash: d.OpeningCash,
		CreatedAt:   d.CreatedAt.Format(domain.TimestampLayout),
	}
}

// ToMovementResponse converts a domain Movement into its API shape.
func ToMovementResponse(m domain.Movement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		Timestamp:        m.Timestamp.Format(domain.TimestampLayout),
		Day:              m.Day,
		Amount:           m.Amount,
		Direction:        string(m.Direction),
		Method:           string(m.Method),
		Memo:             m.Memo,
		Reference:        m.Reference,
		SentToHeadOffice: m.SentToHeadOffice,
	}
}

// ToMovementResponses converts a slice of movements, preserving order.
func ToMovementResponses(ms []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToClosingRecordResponse converts a domain ClosingRecord into its API shape.
func ToClosingRecordResponse(r domain.ClosingRecord) ClosingRecordResponse {
	return ClosingRecordResponse{
		Day:              r.Day,
		FinalCashBalance: r.FinalCashBalance,
		TotalIncome:      r.TotalIncome,
		TotalExpense:     r.TotalExpense,
		Note:             r.Note,
		Timestamp:        r.Timestamp.Format(domain.TimestampLayout),
	}
}

// ToTotalsResponse converts domain Totals into their API shape.
func ToTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{Income: t.Income, Expense: t.Expense}
}

// ToDaySummaryResponse converts the assembled day summary into its API shape.
func ToDaySummaryResponse(s *DaySummary) DaySummaryResponse {
	return DaySummaryResponse{
		State:       ToDayStateResponse(s.State),
		CashTotals:  ToTotalsResponse(s.CashTotals),
		BankTotals:  ToTotalsResponse(s.BankTotals),
		CashBalance: s.CashBalance,
		Recent:      ToMovementResponses(s.Recent),
	}
}

// ToMovementListResponse wraps a movement slice for the list endpoint.
func ToMovementListResponse(ms []domain.Movement) MovementListResponse {
	return MovementListResponse{Movements: ToMovementResponses(ms)}
}

// ToNormalizeReportResponse converts a repair report into its API shape.
func ToNormalizeReportResponse(r *domain.NormalizeReport) NormalizeReportResponse {
	return NormalizeReportResponse{Report: *r, ChangedRows: r.ChangedRows()}
}

// ParseMovementTimestamp parses the optional fecha field of a record request.
// A bare day gets midnight appended, mirroring how back-dated entries arrive.
func ParseMovementTimestamp(s string) (time.Time, bool) {
	if len(s) == len(domain.DayLayout) {
		if t, err := time.Parse(domain.DayLayout, s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	t, err := time.Parse(domain.TimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
