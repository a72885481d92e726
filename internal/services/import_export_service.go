package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
)

const profilesSheet = "Profiles"

var profileExportHeader = []interface{}{
	"User ID", "Name", "Email", "College", "Graduation", "Student ID",
	"Skills", "Projects", "Website", "Resume", "Updated At",
}

type importExportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportProfiles writes every career profile as one row of an XLSX workbook.
func (s *importExportService) ExportProfiles(ctx context.Context, w io.Writer) error {
	profiles, err := s.repo.CareerProfile().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list career profiles: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", profilesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(profilesSheet, "A1", &profileExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(profileExportHeader), 1)
	if err := f.SetCellStyle(profilesSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, p := range profiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := profileExportRow(p)
		if err := f.SetSheetRow(profilesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	requestLogger(ctx, s.logger).Info("Career profiles exported", "count", len(profiles))
	return nil
}

func profileExportRow(p *models.CareerProfile) []interface{} {
	var name, email string
	if p.User != nil {
		name, email = p.User.Name, p.User.Email
	}

	projects := make([]string, 0, len(p.Projects))
	for _, project := range p.Projects {
		projects = append(projects, fmt.Sprintf("%s (%s)", project.Name, project.Link))
	}

	return []interface{}{
		p.UserID,
		name,
		email,
		p.College,
		p.Graduation,
		p.StudentID,
		strings.Join(p.Skills, ", "),
		strings.Join(projects, "; "),
		deref(p.Website),
		deref(p.ResumePath),
		p.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
