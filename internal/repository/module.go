package repository

import (
	"context"

	"github.com/my-academia/academia-service/internal/models"
	"gorm.io/gorm"
)

const (
	msgModuleNotFound   = "Module not found"
	msgModuleCodeExists = "Module code already exists for this user"
)

// ModuleRepository defines owner-scoped module data operations. A module
// owned by someone else is reported exactly like a missing one.
type ModuleRepository interface {
	Create(ctx context.Context, module *models.Module) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Module, error)
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Module, error)
	UpdateForOwner(ctx context.Context, id, ownerID string, updates map[string]any) (*models.Module, error)
	DeleteForOwner(ctx context.Context, id, ownerID string) error
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new ModuleRepository instance.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(module).Error; err != nil {
		return translate(err, "create module", msgModuleNotFound, msgModuleCodeExists)
	}
	return nil
}

func (r *moduleRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Module, error) {
	modules := []models.Module{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&modules).Error
	if err != nil {
		return nil, translate(err, "list modules for user "+ownerID, msgModuleNotFound, "")
	}
	return modules, nil
}

func (r *moduleRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&module).Error
	if err != nil {
		return nil, translate(err, "find module "+id, msgModuleNotFound, "")
	}
	return &module, nil
}

// UpdateForOwner applies updates in a single statement and returns the
// stored record. Column names in updates must match the modules table.
func (r *moduleRepository) UpdateForOwner(ctx context.Context, id, ownerID string, updates map[string]any) (*models.Module, error) {
	if len(updates) == 0 {
		return r.FindByIDForOwner(ctx, id, ownerID)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Module{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error, "update module "+id, msgModuleNotFound, msgModuleCodeExists)
	}
	if result.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "update module "+id, msgModuleNotFound, "")
	}

	return r.FindByIDForOwner(ctx, id, ownerID)
}

func (r *moduleRepository) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Module{})
	if result.Error != nil {
		return translate(result.Error, "delete module "+id, msgModuleNotFound, "")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete module "+id, msgModuleNotFound, "")
	}
	return nil
}
