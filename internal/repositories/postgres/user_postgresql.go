package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-connect/career-portal/internal/cache"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	invalidator  *userInvalidator
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return newUserPostgreSQL(db, cacheManager, newUserInvalidator(cacheManager))
}

func newUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, invalidator *userInvalidator) *UserPostgreSQL {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		invalidator:  invalidator,
	}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

// GetWithRelations retrieves the user with career profile and sessions, read-through cached
func (u *UserPostgreSQL) GetWithRelations(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, "id:"+id, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		err := u.db.WithContext(ctx).
			Preload("CareerProfile").
			Preload("Sessions").
			First(&dbUser, "id = ?", id).Error
		if err != nil {
			return nil, handleDBError(err, "get user with relations")
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *UserPostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user exists")
	}
	return count > 0, nil
}

// Create inserts the user, assigning a UUID when no id was supplied
func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := u.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	u.invalidator.invalidate(ctx, user.ID)
	return nil
}

func (u *UserPostgreSQL) UpdateOrCreate(ctx context.Context, user *models.User) (bool, error) {
	if user.ID != "" {
		result := u.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"name":       user.Name,
				"email":      user.Email,
				"image":      user.Image,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return false, handleDBError(result.Error, "update user")
		}

		if result.RowsAffected > 0 {
			u.invalidator.invalidate(ctx, user.ID)
			if err := u.db.WithContext(ctx).First(user, "id = ?", user.ID).Error; err != nil {
				return false, handleDBError(err, "reload user")
			}
			return false, nil
		}
	}

	if err := u.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Search lists users whose name contains the query, ordered by name
func (u *UserPostgreSQL) Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var total int64
	if err := u.db.WithContext(ctx).
		Model(&models.User{}).
		Scopes(nameContains(filters.Query)).
		Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	users := make([]*models.User, 0)
	if total == 0 {
		return users, 0, nil
	}

	if err := u.db.WithContext(ctx).
		Scopes(nameContains(filters.Query), paginate(filters.Limit, filters.Offset)).
		Preload("CareerProfile").
		Order("name ASC").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "search users")
	}

	return users, total, nil
}
