package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikenapp/caja_backend/internal/apperrors"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
	"github.com/mikenapp/caja_backend/internal/dto"
	"github.com/mikenapp/caja_backend/internal/middleware"
	"github.com/mikenapp/caja_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// recentWindowDays is the trailing window shown on the register home view.
const recentWindowDays = 6

// recentLimit caps the number of movements returned in a day summary.
const recentLimit = 50

// RegisterService drives the open/close state machine of the daily register
// and derives reconciled balances. It is the sole writer of day state and of
// the opening/closing snapshots.
type RegisterService struct {
	dayStateRepo portsrepo.DayStateRepository
	movementRepo portsrepo.MovementRepository
	now          func() time.Time
}

// RegisterServiceOption configures a RegisterService.
type RegisterServiceOption func(*RegisterService)

// WithRegisterClock overrides the service clock.
func WithRegisterClock(now func() time.Time) RegisterServiceOption {
	return func(s *RegisterService) {
		s.now = now
	}
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(dayStateRepo portsrepo.DayStateRepository, movementRepo portsrepo.MovementRepository, opts ...RegisterServiceOption) portssvc.RegisterSvcFacade {
	s := &RegisterService{
		dayStateRepo: dayStateRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure RegisterService implements the facade
var _ portssvc.RegisterSvcFacade = (*RegisterService)(nil)

// resolveDay defaults an empty day to today and rejects malformed values.
func (s *RegisterService) resolveDay(day string) (string, error) {
	if day == "" {
		return domain.DayOf(s.now()), nil
	}
	if !domain.ValidDay(day) {
		return "", apperrors.NewValidationFailedError("invalid day, expected YYYY-MM-DD")
	}
	return day, nil
}

// EnsureDayState lazily creates and returns the state row for a day.
func (s *RegisterService) EnsureDayState(ctx context.Context, day string) (*domain.DayState, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	state, err := s.dayStateRepo.EnsureDayState(ctx, day, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to ensure day state for %s: %w", day, err)
	}
	return state, nil
}

// OpenDay opens the register for a day. Opening an already-open day fails;
// float corrections go through AdjustOpeningCash instead.
func (s *RegisterService) OpenDay(ctx context.Context, req dto.OpenDayRequest) (*domain.DayState, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day, err := s.resolveDay(req.Day)
	if err != nil {
		return nil, err
	}
	if req.OpeningCash.IsNegative() {
		return nil, apperrors.NewValidationFailedError("opening cash must not be negative")
	}

	state, err := s.dayStateRepo.OpenDay(ctx, day, req.OpeningCash, req.Note, s.now())
	if err != nil {
		logger.Warn("Failed to open register day", slog.String("day", day), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Register day opened", slog.String("day", day), slog.String("opening_cash", state.OpeningCash.String()))
	return state, nil
}

// AdjustOpeningCash corrects the opening float of an open day, appending a
// new opening snapshot so the correction history stays auditable.
func (s *RegisterService) AdjustOpeningCash(ctx context.Context, req dto.AdjustOpeningCashRequest) (*domain.DayState, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day, err := s.resolveDay(req.Day)
	if err != nil {
		return nil, err
	}
	if req.OpeningCash.IsNegative() {
		return nil, apperrors.NewValidationFailedError("opening cash must not be negative")
	}

	state, err := s.dayStateRepo.AdjustOpeningCash(ctx, day, req.OpeningCash, req.Note, s.now())
	if err != nil {
		logger.Warn("Failed to adjust opening cash", slog.String("day", day), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Opening cash adjusted", slog.String("day", day), slog.String("opening_cash", state.OpeningCash.String()))
	return state, nil
}

// CloseDay closes the register for a day. The repository binds totals
// computation and the state flip in one transaction; both happen or neither.
func (s *RegisterService) CloseDay(ctx context.Context, req dto.CloseDayRequest) (*domain.ClosingRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day, err := s.resolveDay(req.Day)
	if err != nil {
		return nil, err
	}

	record, err := s.dayStateRepo.CloseDay(ctx, day, req.Note, s.now())
	if err != nil {
		logger.Warn("Failed to close register day", slog.String("day", day), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Register day closed",
		slog.String("day", day),
		slog.String("final_cash", record.FinalCashBalance.String()),
	)
	return record, nil
}

// CashBalance derives opening float + cash income - cash expense for a day.
// Bank movements never enter this number.
func (s *RegisterService) CashBalance(ctx context.Context, day string) (decimal.Decimal, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return decimal.Zero, err
	}

	state, err := s.dayStateRepo.EnsureDayState(ctx, day, s.now())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to ensure day state for %s: %w", day, err)
	}

	cash, err := s.movementRepo.SumDay(ctx, day, domain.MethodCash)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum cash movements for %s: %w", day, err)
	}

	return accounting.CashBalance(state.OpeningCash, cash), nil
}

// DaySummary assembles the register home view: day state, cash and bank
// totals, the derived cash balance, and the most recent movements of the
// trailing window.
func (s *RegisterService) DaySummary(ctx context.Context, day string) (*dto.DaySummary, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}

	state, err := s.dayStateRepo.EnsureDayState(ctx, day, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to ensure day state for %s: %w", day, err)
	}

	cash, err := s.movementRepo.SumDay(ctx, day, domain.MethodCash)
	if err != nil {
		return nil, fmt.Errorf("failed to sum cash movements for %s: %w", day, err)
	}
	bank, err := s.movementRepo.SumDay(ctx, day, domain.MethodBank)
	if err != nil {
		return nil, fmt.Errorf("failed to sum bank movements for %s: %w", day, err)
	}

	end, _ := time.Parse(domain.DayLayout, day)
	start := end.AddDate(0, 0, -(recentWindowDays - 1))
	recent, err := s.movementRepo.ListMovements(ctx, domain.DayOf(start), day, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent movements for %s: %w", day, err)
	}
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return &dto.DaySummary{
		State:       *state,
		CashTotals:  cash,
		BankTotals:  bank,
		CashBalance: accounting.CashBalance(state.OpeningCash, cash),
		Recent:      recent,
	}, nil
}
