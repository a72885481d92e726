package models

import (
	"time"
)

// ===== REQUESTS =====

// UserUpdateRequest carries the basic identity fields of a user.
type UserUpdateRequest struct {
	Name  string  `json:"name" validate:"required,no_blank,max=100"`
	Email string  `json:"email" validate:"required,email,max=255"`
	Image *string `json:"image" validate:"omitempty,http_url,max=500"`
}

// CareerProfileRequest is the full-replace payload for create and update.
// Every optional field that is omitted is stored empty.
type CareerProfileRequest struct {
	Name  string `json:"name" validate:"required,no_blank,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`

	College    string    `json:"college" validate:"omitempty,max=100"`
	Graduation string    `json:"graduation" validate:"omitempty,max=30"`
	StudentID  string    `json:"studentId" validate:"omitempty,max=50"`
	Skills     []string  `json:"skills" validate:"omitempty,max=50,dive,required,max=50"`
	Projects   []Project `json:"projects" validate:"omitempty,max=20,dive"`
	Website    *string   `json:"website" validate:"omitempty,http_url,max=500"`

	ResumePath         *string `json:"resumePath" validate:"omitempty,max=500"`
	ProfilePicturePath *string `json:"profilePicturePath" validate:"omitempty,max=500"`
}

// ===== PAGINATION & FILTERING =====

type ListUsersParams struct {
	Search       string `json:"search"`
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
}

// ===== RESPONSES =====

type UserPage struct {
	Users       []*User `json:"users"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	TotalUsers  int64   `json:"totalUsers"`
}

type CareerProfileList struct {
	CareerProfiles []*CareerProfile `json:"careerProfiles"`
}

type ApplicationList struct {
	Applications []*Application `json:"applications"`
}

type ResumeUploadResponse struct {
	FileName string `json:"fileName"`
}

type ProfilePictureUploadResponse struct {
	PublicURL string `json:"publicUrl"`
}

type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
