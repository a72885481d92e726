package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleSponsor UserRole = "sponsor"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID    string   `json:"id" gorm:"primaryKey;size:255"`
	Name  string   `json:"name" gorm:"not null;size:100;index"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Image *string  `json:"image" gorm:"size:500"`
	Role  UserRole `json:"-" gorm:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	CareerProfile *CareerProfile `json:"careerProfile,omitempty" gorm:"foreignKey:UserID"`
	Sessions      []Session      `json:"sessions,omitempty" gorm:"foreignKey:UserID"`
	Applications  []Application  `json:"applications,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// Session is owned by the identity provider; the service only reads it back
// as an included relation.
type Session struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"userId" gorm:"not null;index;size:255"`
	SessionToken string    `json:"sessionToken" gorm:"uniqueIndex;not null;size:255"`
	Expires      time.Time `json:"expires"`
}

func (Session) TableName() string {
	return "sessions"
}
