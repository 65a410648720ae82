// Package models contains data models for the academia service.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered student.
type User struct {
	ID                 string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	RegistrationNumber string    `json:"registrationNumber" gorm:"size:20;uniqueIndex;not null"`
	FullName           string    `json:"fullName" gorm:"size:100;not null"`
	PasswordHash       string    `json:"-" gorm:"not null"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an identifier when none is set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
