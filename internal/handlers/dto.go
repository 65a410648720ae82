package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/my-academia/academia-service/internal/service"
)

// MeResponse is the authenticated caller's profile.
type MeResponse struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registrationNumber"`
	FullName           string    `json:"fullName"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ModuleResponse is a module as returned by the API.
type ModuleResponse struct {
	ID                   string    `json:"id"`
	ModuleName           string    `json:"moduleName"`
	ModuleCode           string    `json:"moduleCode"`
	LectureHours         int       `json:"lectureHours"`
	AttendedHours        int       `json:"attendedHours"`
	AttendancePercentage int       `json:"attendancePercentage"`
	User                 string    `json:"user"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// AssignmentResponse is an assignment as returned by the API.
type AssignmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Marks     *float64  `json:"marks"`
	Module    string    `json:"module"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LabResponse is a lab as returned by the API.
type LabResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	Module    string    `json:"module"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newMeResponse(identity service.Identity) MeResponse {
	return MeResponse{
		ID:                 identity.UserID,
		RegistrationNumber: identity.RegistrationNumber,
		FullName:           identity.FullName,
		CreatedAt:          identity.CreatedAt,
	}
}

func newModuleResponse(m *models.Module) ModuleResponse {
	return ModuleResponse{
		ID:                   m.ID,
		ModuleName:           m.Name,
		ModuleCode:           m.Code,
		LectureHours:         m.LectureHours,
		AttendedHours:        m.AttendedHours,
		AttendancePercentage: m.AttendancePercentage(),
		User:                 m.UserID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func newAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		Name:      a.Name,
		Marks:     a.Marks,
		Module:    a.ModuleID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func newLabResponse(l *models.Lab) LabResponse {
	return LabResponse{
		ID:        l.ID,
		Name:      l.Name,
		Completed: l.Completed,
		Module:    l.ModuleID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// mapSlice converts a slice of models, always returning a non-nil slice so
// empty lists encode as [].
func mapSlice[M any, R any](items []M, convert func(*M) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, convert(&items[i]))
	}
	return out
}

var errInvalidBody = apperr.Validation("Invalid request body")

// bindJSON decodes the body into dst and writes a 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, nil, errInvalidBody)
		return false
	}
	return true
}
