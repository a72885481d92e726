package services

import (
	"context"
	"io"

	"github.com/campus-connect/career-portal/internal/models"
)

// ===== SERVICE INTERFACES =====

type UserService interface {
	List(ctx context.Context, params models.ListUsersParams) (*models.UserPage, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// Upsert updates name, email and image, creating the user when the id is
	// unknown. The bool reports whether a row was created.
	Upsert(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, bool, error)
	// SyncIdentity records an identity-provider user the first time it is seen.
	SyncIdentity(ctx context.Context, user *models.User) error
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.CareerProfile, error)
	// Create fails with ErrProfileExists when the user already has a profile.
	Create(ctx context.Context, userID string, req *models.CareerProfileRequest) (*models.User, error)
	Upsert(ctx context.Context, userID string, req *models.CareerProfileRequest) (*models.User, error)
	List(ctx context.Context) (*models.CareerProfileList, error)
	ListApplications(ctx context.Context) (*models.ApplicationList, error)
}

type FileService interface {
	UploadResume(ctx context.Context, filename string, size int64, body io.Reader) (*models.ResumeUploadResponse, error)
	UploadProfilePicture(ctx context.Context, filename string, size int64, body io.Reader) (*models.ProfilePictureUploadResponse, error)
	ProfilePictureURL(ctx context.Context, name string) (*models.SignedURLResponse, error)
	GetResume(ctx context.Context, name string) ([]byte, error)
}

// ArchiveResult summarizes a bulk resume download.
type ArchiveResult struct {
	Added   int
	Skipped int
}

type ArchiveService interface {
	// WriteResumeArchive streams a zip of every profile resume to w. Missing
	// objects are skipped; only write failures are returned.
	WriteResumeArchive(ctx context.Context, w io.Writer) (*ArchiveResult, error)
}

type ImportExportService interface {
	ExportProfiles(ctx context.Context, w io.Writer) error
}

// ServiceManager manages all services and their dependencies
type ServiceManager interface {
	User() UserService
	Profile() ProfileService
	File() FileService
	Archive() ArchiveService
	ImportExport() ImportExportService

	// Health and lifecycle
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
