package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/mikenapp/caja_backend/internal/utils/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMovements(t *testing.T) {
	movements := []domain.Movement{
		{
			ID:        2,
			Timestamp: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			Day:       "2025-03-14",
			Amount:    decimal.RequireFromString("25.5"),
			Direction: domain.DirectionIncome,
			Method:    domain.MethodCash,
			Memo:      "venta mostrador",
		},
		{
			ID:        1,
			Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			Day:       "2025-03-14",
			Amount:    decimal.RequireFromString("300"),
			Direction: domain.DirectionIncome,
			Method:    domain.MethodBank,
			Memo:      "pago factura",
			Reference: "TXN123",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteMovements(&buf, movements))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// Downstream spreadsheets depend on this exact header.
	assert.Equal(t, "fecha,dia,monto,motivo,metodo,referencia", lines[0])
	assert.Equal(t, "2025-03-14 12:00:00,2025-03-14,25.50,venta mostrador,efectivo,", lines[1])
	assert.Equal(t, "2025-03-14 09:30:00,2025-03-14,300.00,pago factura,banco,TXN123", lines[2])
}

func TestWriteMovements_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteMovements(&buf, nil))
	assert.Equal(t, "fecha,dia,monto,motivo,metodo,referencia\n", buf.String())
}
