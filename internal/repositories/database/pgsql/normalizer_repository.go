package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikenapp/caja_backend/internal/core/domain"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
)

// PgxNormalizerRepository repairs ledger rows left behind by the legacy
// database: enum drift, loose head-office flags and blank timestamps. It is
// the only place legacy values are tolerated; new writes never accept them.
// Every rule is written so a second pass matches zero rows.
type PgxNormalizerRepository struct {
	BaseRepository
}

// newPgxNormalizerRepository creates a new repository for the repair pass.
func newPgxNormalizerRepository(pool *pgxpool.Pool) portsrepo.NormalizerRepository {
	return &PgxNormalizerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxNormalizerRepository implements portsrepo.NormalizerRepository
var _ portsrepo.NormalizerRepository = (*PgxNormalizerRepository)(nil)

// Normalize runs the whole repair pass in one transaction and reports rows
// affected per rule. It never touches monto and never deletes rows; the
// enum defaulting is documented as lossy and intentionally tolerant.
func (r *PgxNormalizerRepository) Normalize(ctx context.Context, now time.Time) (*domain.NormalizeReport, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	report := &domain.NormalizeReport{}

	// Direction: lower/trim, then collapse anything outside the enum to income.
	report.DirectionsNormalized, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET tipo_mov = lower(trim(tipo_mov))
		WHERE tipo_mov IS NOT NULL AND tipo_mov <> lower(trim(tipo_mov));
	`)
	if err != nil {
		return nil, translateError("failed to normalize movement directions", err)
	}
	report.DirectionsDefaulted, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET tipo_mov = 'ingreso'
		WHERE tipo_mov IS NULL OR trim(tipo_mov) = '' OR tipo_mov NOT IN ('ingreso', 'egreso');
	`)
	if err != nil {
		return nil, translateError("failed to default invalid movement directions", err)
	}

	// Method: same treatment, defaulting to cash.
	report.MethodsNormalized, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET metodo = lower(trim(metodo))
		WHERE metodo IS NOT NULL AND metodo <> lower(trim(metodo));
	`)
	if err != nil {
		return nil, translateError("failed to normalize payment methods", err)
	}
	report.MethodsDefaulted, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET metodo = 'efectivo'
		WHERE metodo IS NULL OR trim(metodo) = '' OR metodo NOT IN ('efectivo', 'banco');
	`)
	if err != nil {
		return nil, translateError("failed to default invalid payment methods", err)
	}

	// Head-office flag: anything outside {0,1} collapses to 0.
	report.HeadOfficeFlagsCoerced, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET enviado_matriz = 0
		WHERE enviado_matriz IS NULL OR enviado_matriz NOT IN (0, 1);
	`)
	if err != nil {
		return nil, translateError("failed to coerce head-office flags", err)
	}

	// Missing timestamps across the ledger tables get the processing time.
	// Present values are never overwritten. This must run before the day
	// backfill so a row missing both fecha and dia is fully repaired in a
	// single pass.
	for _, stmt := range []string{
		`UPDATE caja_estado SET created_at = $1 WHERE created_at IS NULL;`,
		`UPDATE caja_aperturas SET fecha = $1 WHERE fecha IS NULL;`,
		`UPDATE caja_cierres SET fecha = $1 WHERE fecha IS NULL;`,
		`UPDATE caja_movimientos SET fecha = $1 WHERE fecha IS NULL;`,
	} {
		n, err := execCount(ctx, tx, stmt, now)
		if err != nil {
			return nil, translateError("failed to backfill timestamps", err)
		}
		report.TimestampsBackfilled += n
	}

	// Blank day attribution fills from the timestamp's date.
	report.DaysBackfilled, err = execCount(ctx, tx, `
		UPDATE caja_movimientos
		SET dia = to_char(fecha, 'YYYY-MM-DD')
		WHERE (dia IS NULL OR trim(dia) = '') AND fecha IS NOT NULL;
	`)
	if err != nil {
		return nil, translateError("failed to backfill movement days", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return report, nil
}

// execCount runs one statement and returns the rows affected.
func execCount(ctx context.Context, tx pgx.Tx, query string, args ...any) (int64, error) {
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
