package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
	"github.com/mikenapp/caja_backend/internal/middleware"
)

// NormalizerService runs the idempotent repair pass over the ledger tables.
// It is the only component allowed to silently fix persisted data, and only
// for the malformed-enum, flag and blank-timestamp cases; it never touches
// amounts and never deletes rows.
type NormalizerService struct {
	normalizerRepo portsrepo.NormalizerRepository
	now            func() time.Time
}

// NormalizerServiceOption configures a NormalizerService.
type NormalizerServiceOption func(*NormalizerService)

// WithNormalizerClock overrides the service clock.
func WithNormalizerClock(now func() time.Time) NormalizerServiceOption {
	return func(s *NormalizerService) {
		s.now = now
	}
}

// NewNormalizerService creates a new NormalizerService.
func NewNormalizerService(normalizerRepo portsrepo.NormalizerRepository, opts ...NormalizerServiceOption) portssvc.NormalizerSvc {
	s := &NormalizerService{
		normalizerRepo: normalizerRepo,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure NormalizerService implements the interface
var _ portssvc.NormalizerSvc = (*NormalizerService)(nil)

// Normalize executes one repair pass and reports per-rule affected counts.
// A second run straight after a successful one reports all zeros.
func (s *NormalizerService) Normalize(ctx context.Context) (*domain.NormalizeReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.normalizerRepo.Normalize(ctx, s.now())
	if err != nil {
		logger.Error("Normalization pass failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("normalization pass failed: %w", err)
	}

	logger.Info("Normalization pass completed",
		slog.Int64("changed_rows", report.ChangedRows()),
		slog.Int64("directions_normalized", report.DirectionsNormalized),
		slog.Int64("directions_defaulted", report.DirectionsDefaulted),
		slog.Int64("methods_normalized", report.MethodsNormalized),
		slog.Int64("methods_defaulted", report.MethodsDefaulted),
		slog.Int64("head_office_flags_coerced", report.HeadOfficeFlagsCoerced),
		slog.Int64("days_backfilled", report.DaysBackfilled),
		slog.Int64("timestamps_backfilled", report.TimestampsBackfilled),
	)
	return report, nil
}
