package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/storage"
)

type fileService struct {
	blob   storage.BlobStore
	events events.EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewFileService(blob storage.BlobStore, publisher events.EventPublisher, logger *slog.Logger) FileService {
	return &fileService{
		blob:   blob,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *fileService) UploadResume(ctx context.Context, filename string, size int64, body io.Reader) (*models.ResumeUploadResponse, error) {
	name, err := s.upload(ctx, storage.ResumePolicy, filename, size, body)
	if err != nil {
		return nil, err
	}
	return &models.ResumeUploadResponse{FileName: name}, nil
}

func (s *fileService) UploadProfilePicture(ctx context.Context, filename string, size int64, body io.Reader) (*models.ProfilePictureUploadResponse, error) {
	url, err := s.upload(ctx, storage.ProfilePicturePolicy, filename, size, body)
	if err != nil {
		return nil, err
	}
	return &models.ProfilePictureUploadResponse{PublicURL: url}, nil
}

// upload enforces the policy on the declared size and on the bytes actually
// read, and only then touches the bucket.
func (s *fileService) upload(ctx context.Context, policy storage.UploadPolicy, filename string, size int64, body io.Reader) (string, error) {
	if err := policy.CheckSize(size); err != nil {
		return "", mapPolicyError(err)
	}

	data, err := io.ReadAll(io.LimitReader(body, policy.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s upload: %w", policy.Kind, err)
	}

	contentType, err := policy.Check(data)
	if err != nil {
		return "", mapPolicyError(err)
	}

	name := storage.ObjectName(s.now(), filename)
	ref, err := s.blob.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), contentType, policy.Visibility)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", policy.Kind, err)
	}

	requestLogger(ctx, s.logger).Info("File uploaded", "kind", policy.Kind, "name", name, "size", len(data))
	publish(ctx, s.events, s.logger, events.EventFileUploaded, events.FileUploadedData{
		Kind:        policy.Kind,
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
	})

	return ref, nil
}

func mapPolicyError(err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return fmt.Errorf("%s: %w", err.Error(), ErrFileTooLarge)
	case errors.Is(err, storage.ErrUnsupportedType):
		return fmt.Errorf("%s: %w", err.Error(), ErrUnsupportedFileType)
	default:
		return err
	}
}

func (s *fileService) ProfilePictureURL(ctx context.Context, name string) (*models.SignedURLResponse, error) {
	if !storage.ValidName(name) {
		return nil, badRequest("invalid file name")
	}

	expiresAt := s.now().Add(storage.DefaultSignedURLExpiry)
	url, err := s.blob.SignedURL(ctx, name, storage.DefaultSignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign profile picture url: %w", err)
	}
	return &models.SignedURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *fileService) GetResume(ctx context.Context, name string) ([]byte, error) {
	if !storage.ValidName(name) {
		return nil, ErrFileNotFound
	}

	data, err := s.blob.Download(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to download resume: %w", err)
	}
	return data, nil
}
