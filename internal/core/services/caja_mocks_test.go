package services_test

import (
	"context"
	"time"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock DayStateRepository ---
type MockDayStateRepository struct {
	mock.Mock
}

func (m *MockDayStateRepository) FindDayState(ctx context.Context, day string) (*domain.DayState, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockDayStateRepository) EnsureDayState(ctx context.Context, day string, now time.Time) (*domain.DayState, error) {
	args := m.Called(ctx, day, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockDayStateRepository) OpenDay(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error) {
	args := m.Called(ctx, day, openingCash, note, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockDayStateRepository) AdjustOpeningCash(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error) {
	args := m.Called(ctx, day, openingCash, note, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockDayStateRepository) CloseDay(ctx context.Context, day string, note string, now time.Time) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, day, note, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

// --- Mock MovementRepository ---
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) MarkSentToHeadOffice(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovementRepository) ListMovements(ctx context.Context, startDay, endDay string, method *domain.Method) ([]domain.Movement, error) {
	args := m.Called(ctx, startDay, endDay, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) SumDay(ctx context.Context, day string, method domain.Method) (domain.Totals, error) {
	args := m.Called(ctx, day, method)
	return args.Get(0).(domain.Totals), args.Error(1)
}

func (m *MockMovementRepository) SumRange(ctx context.Context, startDay, endDay string, method *domain.Method) (domain.Totals, error) {
	args := m.Called(ctx, startDay, endDay, method)
	return args.Get(0).(domain.Totals), args.Error(1)
}

// --- Mock NormalizerRepository ---
type MockNormalizerRepository struct {
	mock.Mock
}

func (m *MockNormalizerRepository) Normalize(ctx context.Context, now time.Time) (*domain.NormalizeReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizeReport), args.Error(1)
}
