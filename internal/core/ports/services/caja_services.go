package services

import (
	"context"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/mikenapp/caja_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// RegisterReaderSvc defines read operations over the register day state.
type RegisterReaderSvc interface {
	// EnsureDayState lazily creates (closed, zero float) and returns the
	// state row for a day.
	EnsureDayState(ctx context.Context, day string) (*domain.DayState, error)

	// CashBalance derives opening float + net cash movements for a day.
	CashBalance(ctx context.Context, day string) (decimal.Decimal, error)

	// DaySummary assembles the register home view for a day.
	DaySummary(ctx context.Context, day string) (*dto.DaySummary, error)
}

// RegisterWriterSvc drives the open/close state machine.
type RegisterWriterSvc interface {
	// OpenDay opens the register for a day with a non-negative float.
	OpenDay(ctx context.Context, req dto.OpenDayRequest) (*domain.DayState, error)

	// AdjustOpeningCash corrects the float of an already-open day.
	AdjustOpeningCash(ctx context.Context, req dto.AdjustOpeningCashRequest) (*domain.DayState, error)

	// CloseDay closes the register, binding totals computation and the state
	// flip atomically.
	CloseDay(ctx context.Context, req dto.CloseDayRequest) (*domain.ClosingRecord, error)
}

// RegisterSvcFacade combines register state operations.
type RegisterSvcFacade interface {
	RegisterReaderSvc
	RegisterWriterSvc
}

// LedgerWriterSvc defines write operations for the movement ledger.
type LedgerWriterSvc interface {
	// RecordMovement validates and persists one movement.
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest) (*domain.Movement, error)

	// MarkSentToHeadOffice flips the one-way head-office flag.
	MarkSentToHeadOffice(ctx context.Context, id int64) error
}

// LedgerReaderSvc defines queries and aggregations over the ledger.
type LedgerReaderSvc interface {
	// ListMovements returns movements for an inclusive day range, most recent first.
	ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.Movement, error)

	// Totals aggregates one day and method.
	Totals(ctx context.Context, day string, method domain.Method) (domain.Totals, error)

	// RangeTotals aggregates an inclusive day range with optional method filter.
	RangeTotals(ctx context.Context, params dto.RangeTotalsParams) (domain.Totals, error)
}

// LedgerSvcFacade combines ledger reads and writes.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}

// NormalizerSvc runs the idempotent repair pass; meant for startup and
// on-demand invocations.
type NormalizerSvc interface {
	Normalize(ctx context.Context) (*domain.NormalizeReport, error)
}
