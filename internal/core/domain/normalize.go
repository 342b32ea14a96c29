package domain

// NormalizeReport summarizes one repair pass over the ledger tables. Each
// field counts rows affected by a single rule; a second pass straight after a
// successful one must report all zeros.
type NormalizeReport struct {
	DirectionsNormalized   int64 `json:"directionsNormalized"`   // lower/trim of tipo_mov
	DirectionsDefaulted    int64 `json:"directionsDefaulted"`    // out-of-enum tipo_mov -> ingreso
	MethodsNormalized      int64 `json:"methodsNormalized"`      // lower/trim of metodo
	MethodsDefaulted       int64 `json:"methodsDefaulted"`       // out-of-enum metodo -> efectivo
	HeadOfficeFlagsCoerced int64 `json:"headOfficeFlagsCoerced"` // enviado_matriz forced to 0/1
	DaysBackfilled         int64 `json:"daysBackfilled"`         // blank dia filled from fecha
	TimestampsBackfilled   int64 `json:"timestampsBackfilled"`   // null timestamps across ledger tables
}

// ChangedRows is the total number of row updates across all rules.
func (r NormalizeReport) ChangedRows() int64 {
	return r.DirectionsNormalized +
		r.DirectionsDefaulted +
		r.MethodsNormalized +
		r.MethodsDefaulted +
		r.HeadOfficeFlagsCoerced +
		r.DaysBackfilled +
		r.TimestampsBackfilled
}
