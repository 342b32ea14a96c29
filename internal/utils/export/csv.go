package export

import (
	"encoding/csv"
	"io"

	"github.com/mikenapp/caja_backend/internal/core/domain"
)

// movementsHeader is a compatibility contract: downstream spreadsheets expect
// exactly this field order and spelling.
var movementsHeader = []string{"fecha", "dia", "monto", "motivo", "metodo", "referencia"}

// WriteMovements serializes movements as CSV in the order given, with the
// fixed movements report header. Amounts render with two decimals.
func WriteMovements(w io.Writer, movements []domain.Movement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(movementsHeader); err != nil {
		return err
	}
	for _, m := range movements {
		record := []string{
			m.Timestamp.Format(domain.TimestampLayout),
			m.Day,
			m.Amount.StringFixed(2),
			m.Memo,
			string(m.Method),
			m.Reference,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
