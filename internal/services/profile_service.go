package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	events    events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		events:    publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.CareerProfile, error) {
	if userID == "" {
		return nil, badRequest("user id is required")
	}

	profile, err := s.repo.CareerProfile().GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get career profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Create(ctx context.Context, userID string, req *models.CareerProfileRequest) (*models.User, error) {
	return s.save(ctx, userID, req, true)
}

func (s *profileService) Upsert(ctx context.Context, userID string, req *models.CareerProfileRequest) (*models.User, error) {
	return s.save(ctx, userID, req, false)
}

// save writes the user basics and the profile in one transaction and returns
// the user with its profile and sessions.
func (s *profileService) save(ctx context.Context, userID string, req *models.CareerProfileRequest, createOnly bool) (*models.User, error) {
	if userID == "" {
		return nil, badRequest("user id is required")
	}
	if errs := s.validator.ValidateCareerProfile(req); len(errs) > 0 {
		return nil, newValidationFailure(errs)
	}

	profile := profileFromRequest(userID, req)
	profileCreated := createOnly

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := saveUserBasics(ctx, tx, userID, req); err != nil {
			return err
		}

		if createOnly {
			if err := tx.CareerProfile().Create(ctx, profile); err != nil {
				if isDuplicate(err) {
					return ErrProfileExists
				}
				return fmt.Errorf("failed to create career profile: %w", err)
			}
			return nil
		}

		_, err := tx.CareerProfile().GetByUserID(ctx, userID)
		switch {
		case isNotFound(err):
			profileCreated = true
		case err != nil:
			return fmt.Errorf("failed to load career profile: %w", err)
		}

		if err := tx.CareerProfile().Upsert(ctx, profile); err != nil {
			return fmt.Errorf("failed to save career profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := events.EventProfileUpdated
	if profileCreated {
		eventType = events.EventProfileCreated
	}
	requestLogger(ctx, s.logger).Info("Career profile saved", "user_id", userID, "profile_id", profile.ID, "created", profileCreated)
	publish(ctx, s.events, s.logger, eventType, events.ProfileEventData{UserID: userID, ProfileID: profile.ID})

	user, err := s.repo.User().GetWithRelations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

// saveUserBasics creates the user row when absent and otherwise updates name
// and email, keeping the stored image.
func saveUserBasics(ctx context.Context, tx repositories.Repository, userID string, req *models.CareerProfileRequest) error {
	user, err := tx.User().GetByID(ctx, userID)
	switch {
	case isNotFound(err):
		user = &models.User{ID: userID}
	case err != nil:
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.Name = req.Name
	user.Email = req.Email

	if _, err := tx.User().UpdateOrCreate(ctx, user); err != nil {
		if isDuplicate(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func profileFromRequest(userID string, req *models.CareerProfileRequest) *models.CareerProfile {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	projects := req.Projects
	if projects == nil {
		projects = []models.Project{}
	}

	return &models.CareerProfile{
		UserID:             userID,
		College:            req.College,
		Graduation:         req.Graduation,
		StudentID:          req.StudentID,
		Skills:             datatypes.JSONSlice[string](skills),
		Projects:           datatypes.JSONSlice[models.Project](projects),
		Website:            req.Website,
		ResumePath:         req.ResumePath,
		ProfilePicturePath: req.ProfilePicturePath,
	}
}

func (s *profileService) List(ctx context.Context) (*models.CareerProfileList, error) {
	profiles, err := s.repo.CareerProfile().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list career profiles: %w", err)
	}
	return &models.CareerProfileList{CareerProfiles: profiles}, nil
}

func (s *profileService) ListApplications(ctx context.Context) (*models.ApplicationList, error) {
	applications, err := s.repo.Application().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return &models.ApplicationList{Applications: applications}, nil
}
