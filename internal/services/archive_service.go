package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/storage"
)

type archiveService struct {
	repo   repositories.Repository
	blob   storage.BlobStore
	logger *slog.Logger
}

func NewArchiveService(repo repositories.Repository, blob storage.BlobStore, logger *slog.Logger) ArchiveService {
	return &archiveService{
		repo:   repo,
		blob:   blob,
		logger: logger,
	}
}

func (s *archiveService) WriteResumeArchive(ctx context.Context, w io.Writer) (*ArchiveResult, error) {
	logger := requestLogger(ctx, s.logger)

	profiles, err := s.repo.CareerProfile().ListWithResume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	result := &ArchiveResult{}
	names := newEntryNamer()

	for _, profile := range profiles {
		if !profile.HasResume() {
			continue
		}
		if ctx.Err() != nil {
			logger.Info("Resume archive aborted by client", "added", result.Added)
			break
		}

		data, err := s.blob.Download(ctx, *profile.ResumePath)
		if err != nil {
			logger.Warn("Skipping resume", "user_id", profile.UserID, "path", *profile.ResumePath, "error", err)
			result.Skipped++
			continue
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     names.next(entryBaseName(profile)),
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return result, fmt.Errorf("failed to add archive entry: %w", err)
		}
		if _, err := entry.Write(data); err != nil {
			return result, fmt.Errorf("failed to write archive entry: %w", err)
		}
		result.Added++
	}

	if err := zw.Close(); err != nil {
		return result, fmt.Errorf("failed to finish archive: %w", err)
	}

	logger.Info("Resume archive written", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

var entryNameReplacer = strings.NewReplacer("/", "_", `\`, "_", "\x00", "")

func entryBaseName(profile *models.CareerProfile) string {
	name := ""
	if profile.User != nil {
		name = strings.TrimSpace(entryNameReplacer.Replace(profile.User.Name))
	}
	if name == "" {
		name = profile.UserID
	}
	return name
}

// entryNamer hands out "<base>.pdf", then "<base> (1).pdf", "<base> (2).pdf"
// for repeated bases.
type entryNamer struct {
	used map[string]bool
}

func newEntryNamer() *entryNamer {
	return &entryNamer{used: make(map[string]bool)}
}

func (n *entryNamer) next(base string) string {
	name := base + ".pdf"
	for i := 1; n.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s (%d).pdf", base, i)
	}
	n.used[strings.ToLower(name)] = true
	return name
}
