package validator

import (
	"strings"

	"github.com/campus-connect/career-portal/internal/models"
)

// ValidateUserUpdate validates the basic identity payload.
func (v *Validator) ValidateUserUpdate(req *models.UserUpdateRequest) ValidationErrors {
	NormalizeUserUpdate(req)
	return v.Validate(req)
}

// ValidateCareerProfile normalizes and validates a career profile payload.
// Name and email are required on every write; the remaining fields are
// optional and replace whatever was stored before.
func (v *Validator) ValidateCareerProfile(req *models.CareerProfileRequest) ValidationErrors {
	NormalizeCareerProfile(req)
	return v.Validate(req)
}

// NormalizeUserUpdate trims whitespace and clears empty optional fields.
func NormalizeUserUpdate(req *models.UserUpdateRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Image = trimOptional(req.Image)
}

// NormalizeCareerProfile trims text fields, drops blank skills and turns empty
// optional strings into nil so they are stored as absent.
func NormalizeCareerProfile(req *models.CareerProfileRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.College = strings.TrimSpace(req.College)
	req.Graduation = strings.TrimSpace(req.Graduation)
	req.StudentID = strings.TrimSpace(req.StudentID)

	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	req.Skills = skills

	if req.Projects == nil {
		req.Projects = []models.Project{}
	}
	for i := range req.Projects {
		req.Projects[i].Name = strings.TrimSpace(req.Projects[i].Name)
		req.Projects[i].Link = strings.TrimSpace(req.Projects[i].Link)
	}

	req.Website = trimOptional(req.Website)
	req.ResumePath = trimOptional(req.ResumePath)
	req.ProfilePicturePath = trimOptional(req.ProfilePicturePath)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
