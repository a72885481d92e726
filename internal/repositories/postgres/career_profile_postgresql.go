package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-connect/career-portal/internal/cache"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
)

// upsertColumns are overwritten when a profile already exists for the user.
var upsertColumns = []string{
	"college",
	"graduation",
	"student_id",
	"skills",
	"projects",
	"website",
	"resume_path",
	"profile_picture_path",
	"updated_at",
}

type CareerProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	invalidator  *userInvalidator
}

func NewCareerProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CareerProfileRepository {
	return newCareerProfilePostgreSQL(db, cacheManager, newUserInvalidator(cacheManager))
}

func newCareerProfilePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, invalidator *userInvalidator) *CareerProfilePostgreSQL {
	return &CareerProfilePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		invalidator:  invalidator,
	}
}

func (r *CareerProfilePostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.CareerProfile, error) {
	var profile models.CareerProfile

	err := r.cacheManager.Profile.CacheOrExecute(ctx, "user:"+userID, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.CareerProfile
		err := r.db.WithContext(ctx).
			Preload("User").
			Preload("User.Sessions").
			Where("user_id = ?", userID).
			First(&dbProfile).Error
		if err != nil {
			return nil, handleDBError(err, "get career profile by user")
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *CareerProfilePostgreSQL) Create(ctx context.Context, profile *models.CareerProfile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error; err != nil {
		return handleDBError(err, "create career profile")
	}
	r.invalidator.invalidate(ctx, profile.UserID)
	return nil
}

// Upsert relies on the unique user_id index, so concurrent first submissions
// for the same user end up as one row.
func (r *CareerProfilePostgreSQL) Upsert(ctx context.Context, profile *models.CareerProfile) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(profile).Error
	if err != nil {
		return handleDBError(err, "upsert career profile")
	}
	r.invalidator.invalidate(ctx, profile.UserID)

	// Reload so ID and CreatedAt reflect the stored row on the update path.
	if err := r.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(profile).Error; err != nil {
		return handleDBError(err, "reload career profile")
	}
	return nil
}

func (r *CareerProfilePostgreSQL) List(ctx context.Context) ([]*models.CareerProfile, error) {
	profiles := make([]*models.CareerProfile, 0)
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Sessions").
		Order("id ASC").
		Find(&profiles).Error; err != nil {
		return nil, handleDBError(err, "list career profiles")
	}
	return profiles, nil
}

func (r *CareerProfilePostgreSQL) ListWithResume(ctx context.Context) ([]*models.CareerProfile, error) {
	profiles := make([]*models.CareerProfile, 0)
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("resume_path IS NOT NULL AND resume_path <> ''").
		Order("id ASC").
		Find(&profiles).Error; err != nil {
		return nil, handleDBError(err, "list career profiles with resume")
	}
	return profiles, nil
}

type ApplicationPostgreSQL struct {
	db *gorm.DB
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{db: db}
}

func (r *ApplicationPostgreSQL) List(ctx context.Context) ([]*models.Application, error) {
	applications := make([]*models.Application, 0)
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&applications).Error; err != nil {
		return nil, handleDBError(err, "list applications")
	}
	return applications, nil
}
