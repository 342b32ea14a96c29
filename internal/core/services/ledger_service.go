package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikenapp/caja_backend/internal/apperrors"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
	"github.com/mikenapp/caja_backend/internal/dto"
	"github.com/mikenapp/caja_backend/internal/middleware"
)

// defaultQueryWindowDays is the range used when a movement query gives no
// explicit start day.
const defaultQueryWindowDays = 6

// LedgerService is the sole writer of movement rows. Validation here is
// strict: enum values must arrive already normalized; only the data
// normalizer accepts legacy aliases.
type LedgerService struct {
	movementRepo portsrepo.MovementRepository
	now          func() time.Time
}

// LedgerServiceOption configures a LedgerService.
type LedgerServiceOption func(*LedgerService)

// WithLedgerClock overrides the service clock.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(movementRepo portsrepo.MovementRepository, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &LedgerService{
		movementRepo: movementRepo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure LedgerService implements the facade
var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// RecordMovement validates and persists one movement. The attributed day
// resolves as: explicit valid day > date of the timestamp > today.
func (s *LedgerService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest) (*domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be greater than zero")
	}

	direction, ok := domain.ParseDirection(req.Direction)
	if !ok {
		return nil, apperrors.NewValidationFailedError("invalid movement direction")
	}
	method, ok := domain.ParseMethod(req.Method)
	if !ok {
		return nil, apperrors.NewValidationFailedError("invalid payment method")
	}

	reference := strings.TrimSpace(req.Reference)
	if method == domain.MethodBank && reference == "" {
		return nil, apperrors.NewValidationFailedError("reference required for bank movements")
	}

	timestamp := s.now()
	if req.Timestamp != "" {
		parsed, ok := dto.ParseMovementTimestamp(req.Timestamp)
		if !ok {
			return nil, apperrors.NewValidationFailedError("invalid timestamp, expected YYYY-MM-DD HH:MM:SS")
		}
		timestamp = parsed
	}

	day := req.Day
	if !domain.ValidDay(day) {
		day = domain.DayOf(timestamp)
	}

	movement := domain.Movement{
		Timestamp:        timestamp,
		Day:              day,
		Amount:           req.Amount,
		Direction:        direction,
		Method:           method,
		Memo:             strings.TrimSpace(req.Memo),
		Reference:        reference,
		SentToHeadOffice: req.SentToHeadOffice,
	}

	saved, err := s.movementRepo.SaveMovement(ctx, movement)
	if err != nil {
		logger.Error("Failed to save movement", slog.String("day", day), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Movement recorded",
		slog.Int64("id", saved.ID),
		slog.String("day", saved.Day),
		slog.String("direction", string(saved.Direction)),
		slog.String("method", string(saved.Method)),
		slog.String("amount", saved.Amount.String()),
	)
	return saved, nil
}

// MarkSentToHeadOffice flips the one-way head-office flag for a movement.
// Marking twice is a no-op.
func (s *LedgerService) MarkSentToHeadOffice(ctx context.Context, id int64) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.movementRepo.MarkSentToHeadOffice(ctx, id); err != nil {
		logger.Warn("Failed to mark movement as sent to head office", slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Movement marked as sent to head office", slog.Int64("id", id))
	return nil
}

// resolveRange defaults an empty range to the trailing window ending today
// and rejects inverted ranges.
func (s *LedgerService) resolveRange(startDay, endDay string) (string, string, error) {
	today := s.now()
	if endDay == "" {
		endDay = domain.DayOf(today)
	} else if !domain.ValidDay(endDay) {
		return "", "", apperrors.NewValidationFailedError("invalid end day, expected YYYY-MM-DD")
	}
	if startDay == "" {
		end, _ := time.Parse(domain.DayLayout, endDay)
		startDay = domain.DayOf(end.AddDate(0, 0, -(defaultQueryWindowDays - 1)))
	} else if !domain.ValidDay(startDay) {
		return "", "", apperrors.NewValidationFailedError("invalid start day, expected YYYY-MM-DD")
	}
	if startDay > endDay {
		return "", "", apperrors.NewValidationFailedError("start day must not be after end day")
	}
	return startDay, endDay, nil
}

// methodFilter converts an optional method string into a repository filter.
func methodFilter(method string) (*domain.Method, error) {
	if method == "" {
		return nil, nil
	}
	m, ok := domain.ParseMethod(method)
	if !ok {
		return nil, apperrors.NewValidationFailedError("invalid payment method")
	}
	return &m, nil
}

// ListMovements returns movements whose attributed day falls in the inclusive
// range, most recent first. A fresh call re-reads current state.
func (s *LedgerService) ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.Movement, error) {
	startDay, endDay, err := s.resolveRange(params.StartDay, params.EndDay)
	if err != nil {
		return nil, err
	}
	filter, err := methodFilter(params.Method)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListMovements(ctx, startDay, endDay, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements %s..%s: %w", startDay, endDay, err)
	}
	return movements, nil
}

// Totals aggregates income and expense for one day and method. No matching
// rows yields (0, 0).
func (s *LedgerService) Totals(ctx context.Context, day string, method domain.Method) (domain.Totals, error) {
	if !domain.ValidDay(day) {
		return domain.ZeroTotals(), apperrors.NewValidationFailedError("invalid day, expected YYYY-MM-DD")
	}
	if _, ok := domain.ParseMethod(string(method)); !ok {
		return domain.ZeroTotals(), apperrors.NewValidationFailedError("invalid payment method")
	}

	totals, err := s.movementRepo.SumDay(ctx, day, method)
	if err != nil {
		return domain.ZeroTotals(), fmt.Errorf("failed to sum movements for %s: %w", day, err)
	}
	return totals, nil
}

// RangeTotals aggregates income and expense over an inclusive day range.
func (s *LedgerService) RangeTotals(ctx context.Context, params dto.RangeTotalsParams) (domain.Totals, error) {
	startDay, endDay, err := s.resolveRange(params.StartDay, params.EndDay)
	if err != nil {
		return domain.ZeroTotals(), err
	}
	filter, err := methodFilter(params.Method)
	if err != nil {
		return domain.ZeroTotals(), err
	}

	totals, err := s.movementRepo.SumRange(ctx, startDay, endDay, filter)
	if err != nil {
		return domain.ZeroTotals(), fmt.Errorf("failed to sum movements %s..%s: %w", startDay, endDay, err)
	}
	return totals, nil
}
