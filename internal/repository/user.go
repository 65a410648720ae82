// Package repository provides the data access layer for the academia service.
// Every method returns errors from the apperr taxonomy.
package repository

import (
	"context"

	"github.com/my-academia/academia-service/internal/models"
	"gorm.io/gorm"
)

const (
	msgUserNotFound      = "User not found"
	msgRegistrationInUse = "Registration number already exists"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("registration_number = ?", registrationNumber).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by registration number", msgUserNotFound, "")
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by id "+id, msgUserNotFound, "")
	}
	return &user, nil
}

// Create inserts user. A taken registration number is reported by the
// unique index as a conflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user", msgUserNotFound, msgRegistrationInUse)
	}
	return nil
}
