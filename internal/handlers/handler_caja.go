package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikenapp/caja_backend/internal/apperrors"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
	"github.com/mikenapp/caja_backend/internal/dto"
	"github.com/mikenapp/caja_backend/internal/middleware"
	"github.com/mikenapp/caja_backend/internal/utils/export"
)

// cajaHandler handles HTTP requests for the cash register.
type cajaHandler struct {
	register   portssvc.RegisterSvcFacade
	ledger     portssvc.LedgerSvcFacade
	normalizer portssvc.NormalizerSvc
}

// newCajaHandler creates a new cajaHandler.
func newCajaHandler(register portssvc.RegisterSvcFacade, ledger portssvc.LedgerSvcFacade, normalizer portssvc.NormalizerSvc) *cajaHandler {
	return &cajaHandler{
		register:   register,
		ledger:     ledger,
		normalizer: normalizer,
	}
}

// registerCajaRoutes registers routes related to the cash register.
func registerCajaRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCajaHandler(services.Register, services.Ledger, services.Normalizer)

	caja := rg.Group("/caja")
	{
		caja.GET("", h.getDaySummary)
		caja.POST("/abrir", h.openDay)
		caja.POST("/apertura/ajustar", h.adjustOpeningCash)
		caja.POST("/cerrar", h.closeDay)
		caja.GET("/totales", h.getRangeTotals)
		caja.POST("/normalize", h.runNormalize)
		caja.POST("/movimientos", h.recordMovement)
		caja.GET("/movimientos", h.listMovements)
		caja.GET("/movimientos/export", h.exportMovementsCSV)
		caja.POST("/movimientos/:id/enviar-matriz", h.markSentToHeadOffice)
	}
}

// getDaySummary returns the register state, totals and recent movements for a day.
// Defaults to today when ?dia= is absent.
func (h *cajaHandler) getDaySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	day := c.Query("dia")

	summary, err := h.register.DaySummary(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error fetching day summary", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy fetching day summary", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to fetch day summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch day summary"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDaySummaryResponse(summary))
}

func (h *cajaHandler) openDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenDay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	state, err := h.register.OpenDay(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error opening day", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Day already open", slog.String("dia", req.Day))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy opening day", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to open day", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open day"})
		}
		return
	}

	logger.Info("Day opened", slog.String("dia", state.Day), slog.String("efectivo_inicial", state.OpeningCash.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToDayStateResponse(*state))
}

func (h *cajaHandler) adjustOpeningCash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustOpeningCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustOpeningCash", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	state, err := h.register.AdjustOpeningCash(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adjusting opening cash", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Day not open for adjustment", slog.String("dia", req.Day))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy adjusting opening cash", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to adjust opening cash", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust opening cash"})
		}
		return
	}

	logger.Info("Opening cash adjusted", slog.String("dia", state.Day), slog.String("efectivo_inicial", state.OpeningCash.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToDayStateResponse(*state))
}

func (h *cajaHandler) closeDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseDay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	closing, err := h.register.CloseDay(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error closing day", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Day not open for closing", slog.String("dia", req.Day))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy closing day", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to close day", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close day"})
		}
		return
	}

	logger.Info("Day closed",
		slog.String("dia", closing.Day),
		slog.String("efectivo_final", closing.FinalCashBalance.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToClosingRecordResponse(*closing))
}

func (h *cajaHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	movement, err := h.ledger.RecordMovement(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording movement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy recording movement", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Integrity error recording movement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "movement rejected by storage constraints"})
		} else {
			logger.Error("Failed to record movement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement"})
		}
		return
	}

	logger.Info("Movement recorded",
		slog.Int64("id", movement.ID),
		slog.String("dia", movement.Day),
		slog.String("tipo_mov", string(movement.Direction)),
		slog.String("metodo", string(movement.Method)),
		slog.String("monto", movement.Amount.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(*movement))
}

func (h *cajaHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing movements", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy listing movements", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to list movements", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMovementListResponse(movements))
}

func (h *cajaHandler) exportMovementsCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ExportMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error exporting movements", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy exporting movements", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to export movements", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export movements"})
		}
		return
	}

	filename := "movimientos_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	if err := export.WriteMovements(c.Writer, movements); err != nil {
		// Headers are already out, nothing better to do than log.
		logger.Error("Failed to write CSV export", slog.String("error", err.Error()))
	}
}

func (h *cajaHandler) markSentToHeadOffice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Warn("Invalid movement ID", slog.String("id", c.Param("id")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement id"})
		return
	}

	if err := h.ledger.MarkSentToHeadOffice(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Movement not found", slog.Int64("id", id))
			c.JSON(http.StatusNotFound, gin.H{"error": "movement not found"})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy marking movement", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to mark movement as sent", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark movement as sent"})
		}
		return
	}

	logger.Info("Movement marked as sent to head office", slog.Int64("id", id))
	c.JSON(http.StatusOK, gin.H{"id": id, "enviado_matriz": true})
}

func (h *cajaHandler) getRangeTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.RangeTotalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for RangeTotals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	totals, err := h.ledger.RangeTotals(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error computing range totals", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy computing range totals", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Failed to compute range totals", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute range totals"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals))
}

func (h *cajaHandler) runNormalize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.normalizer.Normalize(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrBusy) {
			logger.Warn("Register busy during normalization", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "register busy, retry shortly"})
		} else {
			logger.Error("Normalization failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Normalization failed"})
		}
		return
	}

	logger.Info("Normalization finished", slog.Int64("changed_rows", report.ChangedRows()))
	c.JSON(http.StatusOK, dto.ToNormalizeReportResponse(report))
}
