package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all repositories onto one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DayStateRepo:   newPgxDayStateRepository(dbPool),
		MovementRepo:   newPgxMovementRepository(dbPool),
		NormalizerRepo: newPgxNormalizerRepository(dbPool),
	}
}
