package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	DayStateRepo   DayStateRepository
	MovementRepo   MovementRepository
	NormalizerRepo NormalizerRepository
}
