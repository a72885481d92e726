package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/storage"
	"github.com/campus-connect/career-portal/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repoManager repositories.RepositoryManager
	repo        repositories.Repository
	blob        storage.BlobStore
	events      events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator

	// Service instances
	userService         UserService
	profileService      ProfileService
	fileService         FileService
	archiveService      ArchiveService
	importExportService ImportExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repoManager repositories.RepositoryManager, blob storage.BlobStore, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	sm := &serviceManager{
		repoManager: repoManager,
		repo:        repoManager.GetRepository(),
		blob:        blob,
		events:      publisher,
		logger:      logger,
		validator:   validator,
	}
	sm.initializeServices()
	return sm
}

func (sm *serviceManager) initializeServices() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return
	}

	sm.userService = NewUserService(sm.repo, sm.events, sm.logger, sm.validator)
	sm.profileService = NewProfileService(sm.repo, sm.events, sm.logger, sm.validator)
	sm.fileService = NewFileService(sm.blob, sm.events, sm.logger)
	sm.archiveService = NewArchiveService(sm.repo, sm.blob, sm.logger)
	sm.importExportService = NewImportExportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.profileService
}

func (sm *serviceManager) File() FileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.fileService
}

func (sm *serviceManager) Archive() ArchiveService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.archiveService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.importExportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repoManager.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.events != nil {
		if err := sm.events.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repoManager.Shutdown(ctx); err != nil {
		sm.logger.Error("Failed to shutdown repository manager", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
