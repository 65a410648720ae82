package service

import (
	"context"
	"strings"

	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"github.com/my-academia/academia-service/internal/repository"
	"github.com/my-academia/academia-service/internal/validation"
)

// AssignmentInput is the payload for creating an assignment.
type AssignmentInput struct {
	Name  string   `json:"name" label:"Assignment name" validate:"required,max=100"`
	Marks *float64 `json:"marks" label:"Marks" validate:"omitempty,min=0,max=100"`
}

// AssignmentUpdate carries the assignment fields to replace.
type AssignmentUpdate struct {
	Name  *string  `json:"name"`
	Marks *float64 `json:"marks"`
}

// LabInput is the payload for creating a lab.
type LabInput struct {
	Name      string `json:"name" label:"Lab name" validate:"required,max=100"`
	Completed bool   `json:"completed"`
}

// LabUpdate carries the lab fields to replace.
type LabUpdate struct {
	Name      *string `json:"name"`
	Completed *bool   `json:"completed"`
}

// CourseworkService manages assignments and labs of modules owned by the
// caller. A module owned by someone else behaves as if it did not exist.
type CourseworkService interface {
	CreateAssignment(ctx context.Context, ownerID, moduleID string, input AssignmentInput) (*models.Assignment, error)
	ListAssignments(ctx context.Context, ownerID, moduleID string) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, ownerID, moduleID, id string, input AssignmentUpdate) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, ownerID, moduleID, id string) error

	CreateLab(ctx context.Context, ownerID, moduleID string, input LabInput) (*models.Lab, error)
	ListLabs(ctx context.Context, ownerID, moduleID string) ([]models.Lab, error)
	UpdateLab(ctx context.Context, ownerID, moduleID, id string, input LabUpdate) (*models.Lab, error)
	DeleteLab(ctx context.Context, ownerID, moduleID, id string) error
}

type courseworkService struct {
	moduleRepo     repository.ModuleRepository
	courseworkRepo repository.CourseworkRepository
}

// NewCourseworkService creates a new CourseworkService instance.
func NewCourseworkService(moduleRepo repository.ModuleRepository, courseworkRepo repository.CourseworkRepository) CourseworkService {
	return &courseworkService{
		moduleRepo:     moduleRepo,
		courseworkRepo: courseworkRepo,
	}
}

func (s *courseworkService) ownedModule(ctx context.Context, ownerID, moduleID string) error {
	_, err := s.moduleRepo.FindByIDForOwner(ctx, moduleID, ownerID)
	return err
}

func (s *courseworkService) CreateAssignment(ctx context.Context, ownerID, moduleID string, input AssignmentInput) (*models.Assignment, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Name:     input.Name,
		Marks:    input.Marks,
		ModuleID: moduleID,
	}
	if err := s.courseworkRepo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *courseworkService) ListAssignments(ctx context.Context, ownerID, moduleID string) ([]models.Assignment, error) {
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}
	return s.courseworkRepo.ListAssignments(ctx, moduleID)
}

func (s *courseworkService) UpdateAssignment(ctx context.Context, ownerID, moduleID, id string, input AssignmentUpdate) (*models.Assignment, error) {
	updates := make(map[string]any, 2)
	var fields []apperr.FieldError

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if fe := validation.Var("name", "Assignment name", name, "required,max=100"); fe != nil {
			fields = append(fields, *fe)
		}
		updates["name"] = name
	}
	if input.Marks != nil {
		if fe := validation.Var("marks", "Marks", *input.Marks, "min=0,max=100"); fe != nil {
			fields = append(fields, *fe)
		}
		updates["marks"] = *input.Marks
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(apperr.MsgValidationFailed, fields...)
	}

	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}
	return s.courseworkRepo.UpdateAssignment(ctx, moduleID, id, updates)
}

func (s *courseworkService) DeleteAssignment(ctx context.Context, ownerID, moduleID, id string) error {
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return err
	}
	return s.courseworkRepo.DeleteAssignment(ctx, moduleID, id)
}

func (s *courseworkService) CreateLab(ctx context.Context, ownerID, moduleID string, input LabInput) (*models.Lab, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}

	lab := &models.Lab{
		Name:      input.Name,
		Completed: input.Completed,
		ModuleID:  moduleID,
	}
	if err := s.courseworkRepo.CreateLab(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}

func (s *courseworkService) ListLabs(ctx context.Context, ownerID, moduleID string) ([]models.Lab, error) {
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}
	return s.courseworkRepo.ListLabs(ctx, moduleID)
}

func (s *courseworkService) UpdateLab(ctx context.Context, ownerID, moduleID, id string, input LabUpdate) (*models.Lab, error) {
	updates := make(map[string]any, 2)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if fe := validation.Var("name", "Lab name", name, "required,max=100"); fe != nil {
			return nil, apperr.Validation(apperr.MsgValidationFailed, *fe)
		}
		updates["name"] = name
	}
	if input.Completed != nil {
		updates["completed"] = *input.Completed
	}

	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return nil, err
	}
	return s.courseworkRepo.UpdateLab(ctx, moduleID, id, updates)
}

func (s *courseworkService) DeleteLab(ctx context.Context, ownerID, moduleID, id string) error {
	if err := s.ownedModule(ctx, ownerID, moduleID); err != nil {
		return err
	}
	return s.courseworkRepo.DeleteLab(ctx, moduleID, id)
}
