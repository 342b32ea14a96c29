package mapping

import (
	"github.com/mikenapp/caja_backend/internal/core/domain"
	"github.com/mikenapp/caja_backend/internal/models"
)

// ToModelDayState converts a domain DayState to a model DayState
func ToModelDayState(d domain.DayState) models.DayState {
	return models.DayState{
		Day:         d.Day,
		IsOpen:      d.IsOpen,
		OpeningCash: d.OpeningCash,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainDayState converts a model DayState to a domain DayState
func ToDomainDayState(m models.DayState) domain.DayState {
	return domain.DayState{
		Day:         m.Day,
		IsOpen:      m.IsOpen,
		OpeningCash: m.OpeningCash,
		CreatedAt:   m.CreatedAt,
	}
}

// ToModelMovement converts a domain Movement to a model Movement.
// The head-office flag collapses to the stored 0/1 form.
func ToModelMovement(d domain.Movement) models.Movement {
	sent := 0
	if d.SentToHeadOffice {
		sent = 1
	}
	return models.Movement{
		ID:               d.ID,
		Timestamp:        d.Timestamp,
		Day:              d.Day,
		Amount:           d.Amount,
		Direction:        string(d.Direction),
		Method:           string(d.Method),
		Memo:             d.Memo,
		Reference:        d.Reference,
		SentToHeadOffice: sent,
	}
}

// ToDomainMovement converts a model Movement to a domain Movement.
// Any non-1 flag value reads as false; the normalizer keeps stored values in {0,1}.
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		ID:               m.ID,
		Timestamp:        m.Timestamp,
		Day:              m.Day,
		Amount:           m.Amount,
		Direction:        domain.Direction(m.Direction),
		Method:           domain.Method(m.Method),
		Memo:             m.Memo,
		Reference:        m.Reference,
		SentToHeadOffice: m.SentToHeadOffice == 1,
	}
}

// ToDomainOpeningRecord converts a model OpeningRecord to its domain form
func ToDomainOpeningRecord(m models.OpeningRecord) domain.OpeningRecord {
	return domain.OpeningRecord{
		ID:          m.ID,
		Day:         m.Day,
		OpeningCash: m.OpeningCash,
		Note:        m.Note,
		Timestamp:   m.Timestamp,
	}
}

// ToDomainClosingRecord converts a model ClosingRecord to its domain form
func ToDomainClosingRecord(m models.ClosingRecord) domain.ClosingRecord {
	return domain.ClosingRecord{
		ID:               m.ID,
		Day:              m.Day,
		FinalCashBalance: m.FinalCashBalance,
		TotalIncome:      m.TotalIncome,
		TotalExpense:     m.TotalExpense,
		Note:             m.Note,
		Timestamp:        m.Timestamp,
	}
}
