package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikenapp/caja_backend/internal/apperrors"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	"github.com/mikenapp/caja_backend/internal/models"
	"github.com/mikenapp/caja_backend/internal/utils/mapping"
)

// PgxMovementRepository persists the append-only movement ledger. Rows are
// never updated beyond the one-way head-office flag and never deleted.
type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for movement data.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepository {
	return &PgxMovementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxMovementRepository implements portsrepo.MovementRepository
var _ portsrepo.MovementRepository = (*PgxMovementRepository)(nil)

const movementColumns = `id, fecha, dia, monto, motivo, referencia, tipo_mov, metodo, enviado_matriz`

// scanMovement reads one caja_movimientos row, tolerating NULLs left behind
// by legacy imports (the normalizer repairs them, but reads must not break
// in the window before it runs).
func scanMovement(row pgx.Row) (*models.Movement, error) {
	var m models.Movement
	var fecha sql.NullTime
	var dia, motivo, referencia, tipoMov, metodo sql.NullString

	err := row.Scan(
		&m.ID,
		&fecha,
		&dia,
		&m.Amount,
		&motivo,
		&referencia,
		&tipoMov,
		&metodo,
		&m.SentToHeadOffice,
	)
	if err != nil {
		return nil, err
	}

	m.Timestamp = fecha.Time
	m.Day = dia.String
	m.Memo = motivo.String
	m.Reference = referencia.String
	m.Direction = tipoMov.String
	m.Method = metodo.String
	return &m, nil
}

// SaveMovement inserts a movement, lazily creating the backing day state in
// the same transaction so every row always references an existing day.
func (r *PgxMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := ensureDayState(ctx, tx, movement.Day, movement.Timestamp); err != nil {
		return nil, err
	}

	model := mapping.ToModelMovement(movement)
	query := `
		INSERT INTO caja_movimientos (fecha, dia, monto, motivo, referencia, tipo_mov, metodo, enviado_matriz)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	err = tx.QueryRow(ctx, query,
		model.Timestamp,
		model.Day,
		model.Amount,
		model.Memo,
		model.Reference,
		model.Direction,
		model.Method,
		model.SentToHeadOffice,
	).Scan(&model.ID)
	if err != nil {
		return nil, translateError("failed to insert movement for day "+movement.Day, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := mapping.ToDomainMovement(model)
	return &saved, nil
}

// MarkSentToHeadOffice flips the one-way head-office flag. Marking an
// already-marked movement affects the row again and stays a no-op in effect.
func (r *PgxMovementRepository) MarkSentToHeadOffice(ctx context.Context, id int64) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE caja_movimientos SET enviado_matriz = 1 WHERE id = $1;`, id)
	if err != nil {
		return translateError("failed to mark movement as sent to head office", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("movement not found")
	}
	return nil
}

// ListMovements returns movements attributed to days in the inclusive range,
// ordered most recent first (timestamp, then id, both descending).
func (r *PgxMovementRepository) ListMovements(ctx context.Context, startDay, endDay string, method *domain.Method) ([]domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM caja_movimientos
		WHERE dia BETWEEN $1 AND $2
	`
	args := []any{startDay, endDay}
	if method != nil {
		query += ` AND metodo = $3`
		args = append(args, string(*method))
	}
	query += ` ORDER BY fecha DESC NULLS LAST, id DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("failed to query movements", err)
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		model, err := scanMovement(rows)
		if err != nil {
			return nil, translateError("failed to scan movement row", err)
		}
		movements = append(movements, mapping.ToDomainMovement(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("failed to iterate movement rows", err)
	}
	return movements, nil
}

// SumDay aggregates income and expense for one day and method.
func (r *PgxMovementRepository) SumDay(ctx context.Context, day string, method domain.Method) (domain.Totals, error) {
	return sumDay(ctx, r.Pool, day, method)
}

// sumDay runs the per-day aggregation on a pool or inside a transaction; the
// close operation uses the transactional form so the snapshot totals and the
// state flip cannot disagree.
func sumDay(ctx context.Context, q queryExecer, day string, method domain.Method) (domain.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN tipo_mov = 'ingreso' THEN monto ELSE 0 END), 0) AS ing,
			COALESCE(SUM(CASE WHEN tipo_mov = 'egreso' THEN monto ELSE 0 END), 0) AS egr
		FROM caja_movimientos
		WHERE dia = $1 AND metodo = $2;
	`
	totals := domain.ZeroTotals()
	if err := q.QueryRow(ctx, query, day, string(method)).Scan(&totals.Income, &totals.Expense); err != nil {
		return domain.ZeroTotals(), translateError("failed to sum movements for day "+day, err)
	}
	return totals, nil
}

// SumRange aggregates income and expense over an inclusive day range,
// optionally filtered by method.
func (r *PgxMovementRepository) SumRange(ctx context.Context, startDay, endDay string, method *domain.Method) (domain.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN tipo_mov = 'ingreso' THEN monto ELSE 0 END), 0) AS ing,
			COALESCE(SUM(CASE WHEN tipo_mov = 'egreso' THEN monto ELSE 0 END), 0) AS egr
		FROM caja_movimientos
		WHERE dia BETWEEN $1 AND $2
	`
	args := []any{startDay, endDay}
	if method != nil {
		query += ` AND metodo = $3`
		args = append(args, string(*method))
	}
	query += `;`

	totals := domain.ZeroTotals()
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&totals.Income, &totals.Expense); err != nil {
		return domain.ZeroTotals(), translateError("failed to sum movements in range", err)
	}
	return totals, nil
}

// errNoRows reports whether err is the pgx no-rows sentinel.
func errNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
