package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"github.com/my-academia/academia-service/internal/service"
)

// =============================================================================
// Mock ModuleService
// =============================================================================

type mockModuleService struct {
	createFunc func(ctx context.Context, ownerID string, input service.ModuleInput) (*models.Module, error)
	listFunc   func(ctx context.Context, ownerID string) ([]models.Module, error)
	getFunc    func(ctx context.Context, ownerID, id string) (*models.Module, error)
	updateFunc func(ctx context.Context, ownerID, id string, input service.ModuleUpdate) (*models.Module, error)
	deleteFunc func(ctx context.Context, ownerID, id string) error
}

func (m *mockModuleService) Create(ctx context.Context, ownerID string, input service.ModuleInput) (*models.Module, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModuleService) List(ctx context.Context, ownerID string) ([]models.Module, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModuleService) Get(ctx context.Context, ownerID, id string) (*models.Module, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModuleService) Update(ctx context.Context, ownerID, id string, input service.ModuleUpdate) (*models.Module, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, id, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockModuleService) Delete(ctx context.Context, ownerID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, id)
	}
	return errors.New("not implemented")
}

var testIdentity = service.Identity{UserID: "user-a", RegistrationNumber: "EG/2020/1234", FullName: "John Doe"}

func withParams(c *gin.Context, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: kv[i], Value: kv[i+1]})
	}
}

func sampleModule(ownerID string) *models.Module {
	ts := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	return &models.Module{
		ID:            "m1",
		Name:          "Data Structures",
		Code:          "CS2040",
		LectureHours:  30,
		AttendedHours: 15,
		UserID:        ownerID,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

// =============================================================================
// Module Handler Tests
// =============================================================================

func TestModuleCreate(t *testing.T) {
	var gotOwner string
	mockService := &mockModuleService{
		createFunc: func(ctx context.Context, ownerID string, input service.ModuleInput) (*models.Module, error) {
			gotOwner = ownerID
			if input.Name != "Data Structures" || input.Code != "cs2040" || *input.LectureHours != 30 {
				t.Errorf("service received %+v", input)
			}
			return sampleModule(ownerID), nil
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("POST", "/api/modules", map[string]any{
		"moduleName":    "Data Structures",
		"moduleCode":    "cs2040",
		"lectureHours":  30,
		"attendedHours": 15,
	})

	handler.Create(c, testIdentity)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if gotOwner != "user-a" {
		t.Errorf("owner = %q, want identity user", gotOwner)
	}

	var body ModuleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.ModuleCode != "CS2040" || body.User != "user-a" {
		t.Errorf("body = %+v", body)
	}
	if body.AttendancePercentage != 50 {
		t.Errorf("attendancePercentage = %d, want 50", body.AttendancePercentage)
	}
}

func TestModuleCreate_Conflict(t *testing.T) {
	mockService := &mockModuleService{
		createFunc: func(ctx context.Context, ownerID string, input service.ModuleInput) (*models.Module, error) {
			return nil, apperr.Conflict("Module code already exists for this user", nil)
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("POST", "/api/modules", map[string]any{"moduleName": "A", "moduleCode": "B"})

	handler.Create(c, testIdentity)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestModuleList_EmptyIsArray(t *testing.T) {
	mockService := &mockModuleService{
		listFunc: func(ctx context.Context, ownerID string) ([]models.Module, error) {
			return nil, nil
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("GET", "/api/modules", nil)

	handler.List(c, testIdentity)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("body = %s, want []", w.Body.String())
	}
}

func TestModuleGet_NotFound(t *testing.T) {
	mockService := &mockModuleService{
		getFunc: func(ctx context.Context, ownerID, id string) (*models.Module, error) {
			if id != "m1" {
				t.Errorf("id = %q, want path param", id)
			}
			return nil, apperr.NotFound("Module not found", nil)
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("GET", "/api/modules/m1", nil)
	withParams(c, "id", "m1")

	handler.Get(c, testIdentity)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if body := decodeError(t, w); body.Message != "Module not found" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestModuleUpdate_PartialBody(t *testing.T) {
	mockService := &mockModuleService{
		updateFunc: func(ctx context.Context, ownerID, id string, input service.ModuleUpdate) (*models.Module, error) {
			if input.Name != nil || input.Code != nil || input.LectureHours != nil {
				t.Errorf("omitted fields should stay nil: %+v", input)
			}
			if input.AttendedHours == nil || *input.AttendedHours != 20 {
				t.Errorf("attendedHours = %v", input.AttendedHours)
			}
			module := sampleModule(ownerID)
			module.AttendedHours = 20
			return module, nil
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("PUT", "/api/modules/m1", map[string]any{"attendedHours": 20})
	withParams(c, "id", "m1")

	handler.Update(c, testIdentity)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var body ModuleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.AttendancePercentage != 67 {
		t.Errorf("attendancePercentage = %d, want 67", body.AttendancePercentage)
	}
}

func TestModuleDelete(t *testing.T) {
	mockService := &mockModuleService{
		deleteFunc: func(ctx context.Context, ownerID, id string) error {
			return nil
		},
	}
	handler := NewModuleHandler(mockService, testLogger())
	w, c := createTestContext("DELETE", "/api/modules/m1", nil)
	withParams(c, "id", "m1")

	handler.Delete(c, testIdentity)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != `{"message":"Module deleted successfully"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}
