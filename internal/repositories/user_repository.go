package repositories

import (
	"context"

	"github.com/campus-connect/career-portal/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Case-insensitive substring of the name
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetWithRelations loads the user together with career profile and sessions.
	GetWithRelations(ctx context.Context, id string) (*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)

	Create(ctx context.Context, user *models.User) error
	// UpdateOrCreate updates name, email and image by id and falls back to
	// creating the row when none matches.
	UpdateOrCreate(ctx context.Context, user *models.User) (created bool, err error)

	Search(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

type CareerProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.CareerProfile, error)
	Create(ctx context.Context, profile *models.CareerProfile) error
	// Upsert creates the profile when the user has none and otherwise
	// overwrites every column of the existing row.
	Upsert(ctx context.Context, profile *models.CareerProfile) error

	List(ctx context.Context) ([]*models.CareerProfile, error)
	ListWithResume(ctx context.Context) ([]*models.CareerProfile, error)
}

type ApplicationRepository interface {
	List(ctx context.Context) ([]*models.Application, error)
}
