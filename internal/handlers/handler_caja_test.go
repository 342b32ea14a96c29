package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mikenapp/caja_backend/internal/apperrors"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
	"github.com/mikenapp/caja_backend/internal/dto"
	"github.com/mikenapp/caja_backend/internal/handlers"
	"github.com/mikenapp/caja_backend/internal/platform/config"
)

// --- Mock RegisterService ---
type MockRegisterService struct {
	mock.Mock
}

func (m *MockRegisterService) EnsureDayState(ctx context.Context, day string) (*domain.DayState, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockRegisterService) CashBalance(ctx context.Context, day string) (decimal.Decimal, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRegisterService) DaySummary(ctx context.Context, day string) (*dto.DaySummary, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DaySummary), args.Error(1)
}

func (m *MockRegisterService) OpenDay(ctx context.Context, req dto.OpenDayRequest) (*domain.DayState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockRegisterService) AdjustOpeningCash(ctx context.Context, req dto.AdjustOpeningCashRequest) (*domain.DayState, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayState), args.Error(1)
}

func (m *MockRegisterService) CloseDay(ctx context.Context, req dto.CloseDayRequest) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest) (*domain.Movement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockLedgerService) MarkSentToHeadOffice(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerService) ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.Movement, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockLedgerService) Totals(ctx context.Context, day string, method domain.Method) (domain.Totals, error) {
	args := m.Called(ctx, day, method)
	return args.Get(0).(domain.Totals), args.Error(1)
}

func (m *MockLedgerService) RangeTotals(ctx context.Context, params dto.RangeTotalsParams) (domain.Totals, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Totals), args.Error(1)
}

// --- Mock NormalizerService ---
type MockNormalizerService struct {
	mock.Mock
}

func (m *MockNormalizerService) Normalize(ctx context.Context) (*domain.NormalizeReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizeReport), args.Error(1)
}

// --- Test Suite ---
type CajaHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockRegister   *MockRegisterService
	mockLedger     *MockLedgerService
	mockNormalizer *MockNormalizerService
}

func (suite *CajaHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockRegister = new(MockRegisterService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockNormalizer = new(MockNormalizerService)

	services := &portssvc.ServiceContainer{
		Register:   suite.mockRegister,
		Ledger:     suite.mockLedger,
		Normalizer: suite.mockNormalizer,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{}, services)
}

func (suite *CajaHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CajaHandlerTestSuite) TestHealth() {
	w := suite.performRequest(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *CajaHandlerTestSuite) TestGetDaySummary() {
	summary := &dto.DaySummary{
		State:       domain.DayState{Day: "2025-03-14", IsOpen: true, OpeningCash: decimal.RequireFromString("100.00")},
		CashTotals:  domain.Totals{Income: decimal.RequireFromString("50.00"), Expense: decimal.RequireFromString("20.00")},
		BankTotals:  domain.ZeroTotals(),
		CashBalance: decimal.RequireFromString("130.00"),
		Recent:      []domain.Movement{},
	}
	suite.mockRegister.On("DaySummary", mock.Anything, "2025-03-14").Return(summary, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/caja?dia=2025-03-14", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DaySummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2025-03-14", resp.State.Day)
	suite.True(resp.CashBalance.Equal(decimal.RequireFromString("130.00")))
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestOpenDay_Success() {
	state := &domain.DayState{Day: "2025-03-14", IsOpen: true, OpeningCash: decimal.RequireFromString("100.00"), CreatedAt: time.Now()}
	suite.mockRegister.On("OpenDay", mock.Anything, mock.AnythingOfType("dto.OpenDayRequest")).Return(state, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/abrir", gin.H{
		"dia":              "2025-03-14",
		"efectivo_inicial": "100.00",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DayStateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsOpen)
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestOpenDay_AlreadyOpenConflict() {
	suite.mockRegister.On("OpenDay", mock.Anything, mock.AnythingOfType("dto.OpenDayRequest")).
		Return(nil, apperrors.NewInvalidStateError("day 2025-03-14 is already open")).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/abrir", gin.H{
		"dia":              "2025-03-14",
		"efectivo_inicial": "100.00",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestOpenDay_MalformedDayRejectedByBinding() {
	w := suite.performRequest(http.MethodPost, "/api/v1/caja/abrir", gin.H{
		"dia":              "14/03/2025",
		"efectivo_inicial": "100.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRegister.AssertNotCalled(suite.T(), "OpenDay", mock.Anything, mock.Anything)
}

func (suite *CajaHandlerTestSuite) TestAdjustOpeningCash() {
	state := &domain.DayState{Day: "2025-03-14", IsOpen: true, OpeningCash: decimal.RequireFromString("120.00"), CreatedAt: time.Now()}
	suite.mockRegister.On("AdjustOpeningCash", mock.Anything, mock.AnythingOfType("dto.AdjustOpeningCashRequest")).Return(state, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/apertura/ajustar", gin.H{
		"dia":              "2025-03-14",
		"efectivo_inicial": "120.00",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestCloseDay_NotOpenConflict() {
	suite.mockRegister.On("CloseDay", mock.Anything, mock.AnythingOfType("dto.CloseDayRequest")).
		Return(nil, apperrors.NewInvalidStateError("day 2025-03-14 is not open")).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/cerrar", gin.H{"dia": "2025-03-14"})

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestCloseDay_Success() {
	record := &domain.ClosingRecord{
		Day:              "2025-03-14",
		FinalCashBalance: decimal.RequireFromString("130.00"),
		TotalIncome:      decimal.RequireFromString("50.00"),
		TotalExpense:     decimal.RequireFromString("20.00"),
		Timestamp:        time.Now(),
	}
	suite.mockRegister.On("CloseDay", mock.Anything, mock.AnythingOfType("dto.CloseDayRequest")).Return(record, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/cerrar", gin.H{"dia": "2025-03-14"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ClosingRecordResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.FinalCashBalance.Equal(decimal.RequireFromString("130.00")))
	suite.mockRegister.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestRecordMovement_Created() {
	movement := &domain.Movement{
		ID:        7,
		Day:       "2025-03-14",
		Amount:    decimal.RequireFromString("25.50"),
		Direction: domain.DirectionIncome,
		Method:    domain.MethodCash,
		Timestamp: time.Now(),
	}
	suite.mockLedger.On("RecordMovement", mock.Anything, mock.AnythingOfType("dto.RecordMovementRequest")).Return(movement, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos", gin.H{
		"monto":    "25.50",
		"tipo_mov": "ingreso",
		"metodo":   "efectivo",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.MovementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.ID)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestRecordMovement_ValidationError() {
	suite.mockLedger.On("RecordMovement", mock.Anything, mock.AnythingOfType("dto.RecordMovementRequest")).
		Return(nil, apperrors.NewValidationFailedError("amount must be greater than zero")).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos", gin.H{
		"monto":    "0",
		"tipo_mov": "ingreso",
		"metodo":   "efectivo",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "amount must be greater than zero")
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestRecordMovement_Busy() {
	suite.mockLedger.On("RecordMovement", mock.Anything, mock.AnythingOfType("dto.RecordMovementRequest")).
		Return(nil, apperrors.NewBusyError("lock timeout", nil)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos", gin.H{
		"monto":    "10.00",
		"tipo_mov": "ingreso",
		"metodo":   "efectivo",
	})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestListMovements() {
	movements := []domain.Movement{
		{ID: 2, Day: "2025-03-14", Amount: decimal.RequireFromString("50.00"), Direction: domain.DirectionIncome, Method: domain.MethodCash, Timestamp: time.Now()},
		{ID: 1, Day: "2025-03-13", Amount: decimal.RequireFromString("20.00"), Direction: domain.DirectionExpense, Method: domain.MethodCash, Timestamp: time.Now()},
	}
	suite.mockLedger.On("ListMovements", mock.Anything, dto.ListMovementsParams{
		StartDay: "2025-03-10",
		EndDay:   "2025-03-14",
	}).Return(movements, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/caja/movimientos?start=2025-03-10&end=2025-03-14", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MovementListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Movements, 2)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestListMovements_InvalidMethodRejectedByBinding() {
	w := suite.performRequest(http.MethodGet, "/api/v1/caja/movimientos?metodo=tarjeta", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "ListMovements", mock.Anything, mock.Anything)
}

func (suite *CajaHandlerTestSuite) TestExportMovementsCSV() {
	movements := []domain.Movement{
		{ID: 1, Day: "2025-03-14", Amount: decimal.RequireFromString("25.50"), Direction: domain.DirectionIncome, Method: domain.MethodCash, Memo: "venta", Timestamp: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
	}
	suite.mockLedger.On("ListMovements", mock.Anything, mock.AnythingOfType("dto.ListMovementsParams")).Return(movements, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/caja/movimientos/export", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/csv")
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.Contains(w.Body.String(), "fecha,dia,monto,motivo,metodo,referencia")
	suite.Contains(w.Body.String(), "2025-03-14 12:00:00,2025-03-14,25.50,venta,efectivo,")
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestMarkSentToHeadOffice_Success() {
	suite.mockLedger.On("MarkSentToHeadOffice", mock.Anything, int64(7)).Return(nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos/7/enviar-matriz", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestMarkSentToHeadOffice_NotFound() {
	suite.mockLedger.On("MarkSentToHeadOffice", mock.Anything, int64(99)).
		Return(apperrors.NewNotFoundError("movement 99 not found")).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos/99/enviar-matriz", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestMarkSentToHeadOffice_BadID() {
	w := suite.performRequest(http.MethodPost, "/api/v1/caja/movimientos/abc/enviar-matriz", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "MarkSentToHeadOffice", mock.Anything, mock.Anything)
}

func (suite *CajaHandlerTestSuite) TestGetRangeTotals() {
	totals := domain.Totals{Income: decimal.RequireFromString("80.00"), Expense: decimal.RequireFromString("15.00")}
	suite.mockLedger.On("RangeTotals", mock.Anything, dto.RangeTotalsParams{
		StartDay: "2025-03-01",
		EndDay:   "2025-03-14",
		Method:   "efectivo",
	}).Return(totals, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/caja/totales?start=2025-03-01&end=2025-03-14&metodo=efectivo", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TotalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Income.Equal(totals.Income))
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CajaHandlerTestSuite) TestRunNormalize() {
	report := &domain.NormalizeReport{DaysBackfilled: 2}
	suite.mockNormalizer.On("Normalize", mock.Anything).Return(report, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/caja/normalize", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.NormalizeReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.ChangedRows)
	suite.mockNormalizer.AssertExpectations(suite.T())
}

func TestCajaHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CajaHandlerTestSuite))
}
