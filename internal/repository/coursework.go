package repository

import (
	"context"

	"github.com/my-academia/academia-service/internal/models"
	"gorm.io/gorm"
)

const (
	msgAssignmentNotFound = "Assignment not found"
	msgLabNotFound        = "Lab not found"
)

// CourseworkRepository stores assignments and labs. Callers are expected to
// have confirmed ownership of the parent module.
type CourseworkRepository interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	ListAssignments(ctx context.Context, moduleID string) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, moduleID, id string, updates map[string]any) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, moduleID, id string) error

	CreateLab(ctx context.Context, lab *models.Lab) error
	ListLabs(ctx context.Context, moduleID string) ([]models.Lab, error)
	UpdateLab(ctx context.Context, moduleID, id string, updates map[string]any) (*models.Lab, error)
	DeleteLab(ctx context.Context, moduleID, id string) error
}

type courseworkRepository struct {
	db *gorm.DB
}

// NewCourseworkRepository creates a new CourseworkRepository instance.
func NewCourseworkRepository(db *gorm.DB) CourseworkRepository {
	return &courseworkRepository{db: db}
}

func (r *courseworkRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	// A foreign key violation means the module disappeared meanwhile.
	if err := r.db.WithContext(ctx).Omit("Module").Create(assignment).Error; err != nil {
		return translate(err, "create assignment", msgModuleNotFound, "")
	}
	return nil
}

func (r *courseworkRepository) ListAssignments(ctx context.Context, moduleID string) ([]models.Assignment, error) {
	assignments := []models.Assignment{}
	err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("created_at ASC, id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, translate(err, "list assignments for module "+moduleID, msgModuleNotFound, "")
	}
	return assignments, nil
}

func (r *courseworkRepository) UpdateAssignment(ctx context.Context, moduleID, id string, updates map[string]any) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.update(ctx, &assignment, moduleID, id, updates); err != nil {
		return nil, translate(err, "update assignment "+id, msgAssignmentNotFound, "")
	}
	return &assignment, nil
}

func (r *courseworkRepository) DeleteAssignment(ctx context.Context, moduleID, id string) error {
	if err := r.delete(ctx, &models.Assignment{}, moduleID, id); err != nil {
		return translate(err, "delete assignment "+id, msgAssignmentNotFound, "")
	}
	return nil
}

func (r *courseworkRepository) CreateLab(ctx context.Context, lab *models.Lab) error {
	if err := r.db.WithContext(ctx).Omit("Module").Create(lab).Error; err != nil {
		return translate(err, "create lab", msgModuleNotFound, "")
	}
	return nil
}

func (r *courseworkRepository) ListLabs(ctx context.Context, moduleID string) ([]models.Lab, error) {
	labs := []models.Lab{}
	err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("created_at ASC, id ASC").
		Find(&labs).Error
	if err != nil {
		return nil, translate(err, "list labs for module "+moduleID, msgModuleNotFound, "")
	}
	return labs, nil
}

func (r *courseworkRepository) UpdateLab(ctx context.Context, moduleID, id string, updates map[string]any) (*models.Lab, error) {
	var lab models.Lab
	if err := r.update(ctx, &lab, moduleID, id, updates); err != nil {
		return nil, translate(err, "update lab "+id, msgLabNotFound, "")
	}
	return &lab, nil
}

func (r *courseworkRepository) DeleteLab(ctx context.Context, moduleID, id string) error {
	if err := r.delete(ctx, &models.Lab{}, moduleID, id); err != nil {
		return translate(err, "delete lab "+id, msgLabNotFound, "")
	}
	return nil
}

// update applies updates to the row matching (id, moduleID) and reloads it
// into dest. A missing row yields gorm.ErrRecordNotFound.
func (r *courseworkRepository) update(ctx context.Context, dest any, moduleID, id string, updates map[string]any) error {
	db := r.db.WithContext(ctx)

	if len(updates) > 0 {
		result := db.Model(dest).
			Where("id = ? AND module_id = ?", id, moduleID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}

	return db.Where("id = ? AND module_id = ?", id, moduleID).First(dest).Error
}

func (r *courseworkRepository) delete(ctx context.Context, model any, moduleID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND module_id = ?", id, moduleID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
