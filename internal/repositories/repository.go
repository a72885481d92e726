package repositories

import "context"

// Repository groups the persistence operations of the career portal.
type Repository interface {
	User() UserRepository
	CareerProfile() CareerProfileRepository
	Application() ApplicationRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
