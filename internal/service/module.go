package service

import (
	"context"
	"strings"

	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"github.com/my-academia/academia-service/internal/repository"
	"github.com/my-academia/academia-service/internal/validation"
)

// ModuleInput is the payload for creating a module.
type ModuleInput struct {
	Name          string `json:"moduleName" label:"Module name" validate:"required,max=100"`
	Code          string `json:"moduleCode" label:"Module code" validate:"required,max=20"`
	LectureHours  *int   `json:"lectureHours" label:"Lecture hours" validate:"omitempty,min=0,max=10000"`
	AttendedHours *int   `json:"attendedHours" label:"Attended hours" validate:"omitempty,min=0,max=10000"`
}

// ModuleUpdate carries the fields to replace. Nil fields keep their value.
type ModuleUpdate struct {
	Name          *string `json:"moduleName"`
	Code          *string `json:"moduleCode"`
	LectureHours  *int    `json:"lectureHours"`
	AttendedHours *int    `json:"attendedHours"`
}

// ModuleService implements module CRUD scoped to the owning user.
type ModuleService interface {
	Create(ctx context.Context, ownerID string, input ModuleInput) (*models.Module, error)
	List(ctx context.Context, ownerID string) ([]models.Module, error)
	Get(ctx context.Context, ownerID, id string) (*models.Module, error)
	Update(ctx context.Context, ownerID, id string, input ModuleUpdate) (*models.Module, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type moduleService struct {
	moduleRepo repository.ModuleRepository
}

// NewModuleService creates a new ModuleService instance.
func NewModuleService(moduleRepo repository.ModuleRepository) ModuleService {
	return &moduleService{moduleRepo: moduleRepo}
}

func (s *moduleService) Create(ctx context.Context, ownerID string, input ModuleInput) (*models.Module, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = normalizeCode(input.Code)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	module := &models.Module{
		Name:          input.Name,
		Code:          input.Code,
		LectureHours:  intOrZero(input.LectureHours),
		AttendedHours: intOrZero(input.AttendedHours),
		UserID:        ownerID,
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleService) List(ctx context.Context, ownerID string) ([]models.Module, error) {
	return s.moduleRepo.ListByOwner(ctx, ownerID)
}

func (s *moduleService) Get(ctx context.Context, ownerID, id string) (*models.Module, error) {
	return s.moduleRepo.FindByIDForOwner(ctx, id, ownerID)
}

// Update validates every supplied field with the create rules and writes
// them in one statement.
func (s *moduleService) Update(ctx context.Context, ownerID, id string, input ModuleUpdate) (*models.Module, error) {
	updates := make(map[string]any, 4)
	var fields []apperr.FieldError

	check := func(fe *apperr.FieldError) {
		if fe != nil {
			fields = append(fields, *fe)
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		check(validation.Var("moduleName", "Module name", name, "required,max=100"))
		updates["module_name"] = name
	}
	if input.Code != nil {
		code := normalizeCode(*input.Code)
		check(validation.Var("moduleCode", "Module code", code, "required,max=20"))
		updates["module_code"] = code
	}
	if input.LectureHours != nil {
		check(validation.Var("lectureHours", "Lecture hours", *input.LectureHours, "min=0,max=10000"))
		updates["lecture_hours"] = *input.LectureHours
	}
	if input.AttendedHours != nil {
		check(validation.Var("attendedHours", "Attended hours", *input.AttendedHours, "min=0,max=10000"))
		updates["attended_hours"] = *input.AttendedHours
	}

	if len(fields) > 0 {
		return nil, apperr.Validation(apperr.MsgValidationFailed, fields...)
	}

	return s.moduleRepo.UpdateForOwner(ctx, id, ownerID, updates)
}

func (s *moduleService) Delete(ctx context.Context, ownerID, id string) error {
	return s.moduleRepo.DeleteForOwner(ctx, id, ownerID)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
