package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	events    events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		events:    publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context, params models.ListUsersParams) (*models.UserPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.ItemsPerPage
	if perPage < 1 {
		perPage = repositories.DefaultItemsPerPage
	}
	perPage = min(perPage, repositories.MaxItemsPerPage)

	// Pages whose offset would overflow lie past any real row.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/perPage {
		offset = (page - 1) * perPage
	}

	users, total, err := s.repo.User().Search(ctx, repositories.UserFilters{
		Query:  params.Search,
		Limit:  perPage,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	totalPages := repositories.TotalPages(total, perPage)
	if users == nil || page > totalPages {
		users = []*models.User{}
	}

	return &models.UserPage{
		Users:       users,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalUsers:  total,
	}, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, badRequest("user id is required")
	}

	user, err := s.repo.User().GetWithRelations(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Upsert(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, bool, error) {
	if id == "" {
		return nil, false, badRequest("user id is required")
	}
	if errs := s.validator.ValidateUserUpdate(req); len(errs) > 0 {
		return nil, false, newValidationFailure(errs)
	}

	user := &models.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	}

	created, err := s.repo.User().UpdateOrCreate(ctx, user)
	if err != nil {
		if isDuplicate(err) {
			return nil, false, ErrEmailTaken
		}
		return nil, false, fmt.Errorf("failed to save user: %w", err)
	}

	requestLogger(ctx, s.logger).Info("User saved", "user_id", user.ID, "created", created)
	publish(ctx, s.events, s.logger, events.EventUserUpdated, events.UserEventData{UserID: user.ID, Created: created})

	return user, created, nil
}

func (s *userService) SyncIdentity(ctx context.Context, user *models.User) error {
	exists, err := s.repo.User().ExistsByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil
	}

	if user.Name == "" {
		user.Name = user.Email
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if isDuplicate(err) {
			// Concurrent first requests, or the email belongs to another id.
			requestLogger(ctx, s.logger).Warn("Identity sync skipped", "user_id", user.ID, "error", err)
			return nil
		}
		return fmt.Errorf("failed to sync user: %w", err)
	}

	requestLogger(ctx, s.logger).Info("User synced from identity provider", "user_id", user.ID)
	publish(ctx, s.events, s.logger, events.EventUserUpdated, events.UserEventData{UserID: user.ID, Created: true})
	return nil
}
