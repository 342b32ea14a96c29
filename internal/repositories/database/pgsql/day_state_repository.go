package pgsql

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikenapp/caja_backend/internal/apperrors"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	"github.com/mikenapp/caja_backend/internal/models"
	"github.com/mikenapp/caja_backend/internal/utils/accounting"
	"github.com/mikenapp/caja_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// PgxDayStateRepository owns the one-row-per-day register state and the
// append-only opening/closing snapshots.
type PgxDayStateRepository struct {
	BaseRepository
}

// newPgxDayStateRepository creates a new repository for day state data.
func newPgxDayStateRepository(pool *pgxpool.Pool) portsrepo.DayStateRepository {
	return &PgxDayStateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDayStateRepository implements portsrepo.DayStateRepository
var _ portsrepo.DayStateRepository = (*PgxDayStateRepository)(nil)

const dayStateColumns = `dia, abierta, efectivo_inicial, created_at`

func scanDayState(row pgx.Row) (*models.DayState, error) {
	var m models.DayState
	var createdAt sql.NullTime
	if err := row.Scan(&m.Day, &m.IsOpen, &m.OpeningCash, &createdAt); err != nil {
		return nil, err
	}
	m.CreatedAt = createdAt.Time
	return &m, nil
}

// ensureDayState is the shared insert-if-absent for caja_estado. The unique
// constraint on dia makes concurrent first-touch safe: of two simultaneous
// inserts one is a silent no-op, and both callers read the same row back.
func ensureDayState(ctx context.Context, q queryExecer, day string, now time.Time) (*models.DayState, error) {
	insert := `
		INSERT INTO caja_estado (dia, abierta, efectivo_inicial, created_at)
		VALUES ($1, FALSE, 0, $2)
		ON CONFLICT (dia) DO NOTHING;
	`
	if _, err := q.Exec(ctx, insert, day, now); err != nil {
		return nil, translateError("failed to ensure day state for "+day, err)
	}

	row := q.QueryRow(ctx, `SELECT `+dayStateColumns+` FROM caja_estado WHERE dia = $1;`, day)
	state, err := scanDayState(row)
	if err != nil {
		return nil, translateError("failed to read day state for "+day, err)
	}
	return state, nil
}

// lockDayState reads a day's state row with FOR UPDATE inside tx.
func lockDayState(ctx context.Context, tx pgx.Tx, day string) (*models.DayState, error) {
	row := tx.QueryRow(ctx, `SELECT `+dayStateColumns+` FROM caja_estado WHERE dia = $1 FOR UPDATE;`, day)
	state, err := scanDayState(row)
	if err != nil {
		if errNoRows(err) {
			return nil, apperrors.NewNotFoundError("no register state for day " + day)
		}
		return nil, translateError("failed to lock day state for "+day, err)
	}
	return state, nil
}

// FindDayState retrieves the state row for a day without creating it.
func (r *PgxDayStateRepository) FindDayState(ctx context.Context, day string) (*domain.DayState, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+dayStateColumns+` FROM caja_estado WHERE dia = $1;`, day)
	state, err := scanDayState(row)
	if err != nil {
		if errNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateError("failed to read day state for "+day, err)
	}
	result := mapping.ToDomainDayState(*state)
	return &result, nil
}

// EnsureDayState is the idempotent get-or-create for a day's state row.
func (r *PgxDayStateRepository) EnsureDayState(ctx context.Context, day string, now time.Time) (*domain.DayState, error) {
	state, err := ensureDayState(ctx, r.Pool, day, now)
	if err != nil {
		return nil, err
	}
	result := mapping.ToDomainDayState(*state)
	return &result, nil
}

// OpenDay transitions a closed day to open, setting the float and appending
// an opening snapshot in one transaction.
func (r *PgxDayStateRepository) OpenDay(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := ensureDayState(ctx, tx, day, now); err != nil {
		return nil, err
	}
	state, err := lockDayState(ctx, tx, day)
	if err != nil {
		return nil, err
	}
	if state.IsOpen {
		return nil, apperrors.NewInvalidStateError("register already open for day " + day)
	}

	if err := openDayInTx(ctx, tx, day, openingCash, note, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	state.IsOpen = true
	state.OpeningCash = openingCash
	result := mapping.ToDomainDayState(*state)
	return &result, nil
}

// AdjustOpeningCash corrects the float of an open day and appends a fresh
// opening snapshot, preserving the correction history.
func (r *PgxDayStateRepository) AdjustOpeningCash(ctx context.Context, day string, openingCash decimal.Decimal, note string, now time.Time) (*domain.DayState, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := ensureDayState(ctx, tx, day, now); err != nil {
		return nil, err
	}
	state, err := lockDayState(ctx, tx, day)
	if err != nil {
		return nil, err
	}
	if !state.IsOpen {
		return nil, apperrors.NewInvalidStateError("register not open for day " + day)
	}

	if err := openDayInTx(ctx, tx, day, openingCash, note, now); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	state.OpeningCash = openingCash
	result := mapping.ToDomainDayState(*state)
	return &result, nil
}

// openDayInTx applies the open/adjust write pair: the state update plus the
// immutable apertura snapshot.
func openDayInTx(ctx context.Context, tx pgx.Tx, day string, openingCash decimal.Decimal, note string, now time.Time) error {
	update := `
		UPDATE caja_estado
		SET abierta = TRUE, efectivo_inicial = $2
		WHERE dia = $1;
	`
	if _, err := tx.Exec(ctx, update, day, openingCash); err != nil {
		return translateError("failed to open register for day "+day, err)
	}

	insert := `
		INSERT INTO caja_aperturas (dia, efectivo_inicial, nota, fecha)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.Exec(ctx, insert, day, openingCash, note, now); err != nil {
		return translateError("failed to record opening snapshot for day "+day, err)
	}
	return nil
}

// CloseDay computes the day's cash totals, writes the closing snapshot and
// flips the day closed, all inside a single transaction with the state row
// locked, so the snapshot and the flip cannot disagree.
func (r *PgxDayStateRepository) CloseDay(ctx context.Context, day string, note string, now time.Time) (*domain.ClosingRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := ensureDayState(ctx, tx, day, now); err != nil {
		return nil, err
	}
	state, err := lockDayState(ctx, tx, day)
	if err != nil {
		return nil, err
	}
	if !state.IsOpen {
		return nil, apperrors.NewInvalidStateError("register not open for day " + day)
	}

	cash, err := sumDay(ctx, tx, day, domain.MethodCash)
	if err != nil {
		return nil, err
	}
	final := accounting.CashBalance(state.OpeningCash, cash)

	record := models.ClosingRecord{
		Day:              day,
		FinalCashBalance: final,
		TotalIncome:      cash.Income,
		TotalExpense:     cash.Expense,
		Note:             note,
		Timestamp:        now,
	}
	insert := `
		INSERT INTO caja_cierres (dia, efectivo_final, total_ingresos, total_egresos, nota, fecha)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	err = tx.QueryRow(ctx, insert,
		record.Day,
		record.FinalCashBalance,
		record.TotalIncome,
		record.TotalExpense,
		record.Note,
		record.Timestamp,
	).Scan(&record.ID)
	if err != nil {
		return nil, translateError("failed to record closing snapshot for day "+day, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE caja_estado SET abierta = FALSE WHERE dia = $1;`, day); err != nil {
		return nil, translateError("failed to close register for day "+day, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	result := mapping.ToDomainClosingRecord(record)
	return &result, nil
}
