package repositories

import (
	"context"
	"time"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DayStateReader defines read operations for register day state
type DayStateReader interface {
	// FindDayState retrieves the state row for a day, or apperrors.ErrNotFound.
	FindDayState(ctx context.Context, day string) (*domain.DayState, error)
}

// DayStateWriter defines the state transitions of the register. Every method
// runs as a single storage transaction; a failure leaves no partial state.
type DayStateWriter interface {
	// EnsureDayState is an idempotent get-or-create for a day's state row.
	// Concurrent first-touch of the same day never creates duplicates
	// (insert-if-absent against the unique dia constraint).
	EnsureDayState(ctx context.Context, day string, now time.Time) (*domain.DayState, error)

	// OpenDay transitions a closed day to open, sets the opening float and
	// appends an opening snapshot. Fails with apperrors.ErrInvalidState when
	// the day is already open.
	OpenDay(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error)

	// AdjustOpeningCash corrects the float of an open day, appending a fresh
	// opening snapshot. Fails with apperrors.ErrInvalidState when closed.
	AdjustOpeningCash(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error)

	// CloseDay computes the day's cash totals, writes the closing snapshot
	// and flips the day closed, atomically. Fails with
	// apperrors.ErrInvalidState when the day is not open.
	CloseDay(ctx context.Context, day string, note string, now time.Time) (*domain.ClosingRecord, error)
}

// DayStateRepository combines day-state reads and writes.
type DayStateRepository interface {
	DayStateReader
	DayStateWriter
}

// MovementWriter defines write operations for the movement ledger.
type MovementWriter interface {
	// SaveMovement persists a validated movement, lazily creating the backing
	// day state in the same transaction, and returns it with its assigned id.
	SaveMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)

	// MarkSentToHeadOffice flips the one-way head-office flag. Idempotent;
	// apperrors.ErrNotFound for an unknown id.
	MarkSentToHeadOffice(ctx context.Context, id int64) error
}

// MovementReader defines read/aggregation operations over the ledger.
type MovementReader interface {
	// ListMovements returns movements whose attributed day falls in the
	// inclusive range, optionally filtered by method, ordered by timestamp
	// descending with id descending as tie-break.
	ListMovements(ctx context.Context, startDay, endDay string, method *domain.Method) ([]domain.Movement, error)

	// SumDay aggregates income/expense for one day and method.
	SumDay(ctx context.Context, day string, method domain.Method) (domain.Totals, error)

	// SumRange aggregates income/expense over an inclusive day range,
	// optionally filtered by method.
	SumRange(ctx context.Context, startDay, endDay string, method *domain.Method) (domain.Totals, error)
}

// MovementRepository combines ledger reads and writes.
type MovementRepository interface {
	MovementWriter
	MovementReader
}

// NormalizerRepository runs the idempotent repair pass over all ledger
// tables in one transaction. now is the processing time used for timestamp
// back-fills.
type NormalizerRepository interface {
	Normalize(ctx context.Context, now time.Time) (*domain.NormalizeReport, error)
}
