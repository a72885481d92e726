package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is stored inline on the career profile, in submission order.
type Project struct {
	Name string `json:"name" validate:"required,no_blank,max=100"`
	Link string `json:"link" validate:"required,http_url,max=500"`
}

type CareerProfile struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"userId" gorm:"uniqueIndex;not null;size:255"`

	College    string                       `json:"college" gorm:"size:100"`
	Graduation string                       `json:"graduation" gorm:"size:30"`
	StudentID  string                       `json:"studentId" gorm:"size:50"`
	Skills     datatypes.JSONSlice[string]  `json:"skills"`
	Projects   datatypes.JSONSlice[Project] `json:"projects"`
	Website    *string                      `json:"website" gorm:"size:500"`

	// Object names in the storage bucket. Not checked against the bucket.
	ResumePath         *string `json:"resumePath" gorm:"size:500"`
	ProfilePicturePath *string `json:"profilePicturePath" gorm:"size:500"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (CareerProfile) TableName() string {
	return "career_profiles"
}

// HasResume reports whether a resume object is referenced.
func (p *CareerProfile) HasResume() bool {
	return p.ResumePath != nil && *p.ResumePath != ""
}

// Application is the sponsor-facing registration record kept from the event
// sign-up flow. Resume operations use CareerProfile.
type Application struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UserID         string `json:"userId" gorm:"not null;index;size:255"`
	University     string `json:"university" gorm:"size:100"`
	GraduationYear int    `json:"graduationYear"`
	ShirtSize      string `json:"shirtSize" gorm:"size:10"`
	Status         string `json:"status" gorm:"size:30;default:pending"`
	ResumePath     string `json:"resumePath" gorm:"size:500"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Application) TableName() string {
	return "applications"
}

// AllModels lists the entities managed by this service, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&CareerProfile{},
		&Application{},
	}
}
