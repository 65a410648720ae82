package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/sirupsen/logrus"
)

// CourseworkHandler handles the assignments and labs nested under a module.
type CourseworkHandler struct {
	courseworkService service.CourseworkService
	log               logrus.FieldLogger
}

// NewCourseworkHandler creates a new CourseworkHandler instance.
func NewCourseworkHandler(courseworkService service.CourseworkService, log logrus.FieldLogger) *CourseworkHandler {
	return &CourseworkHandler{
		courseworkService: courseworkService,
		log:               log,
	}
}

// ListAssignments godoc
// @Summary List assignments
// @Tags coursework
// @Security BearerAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {array} AssignmentResponse
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/assignments [get]
func (h *CourseworkHandler) ListAssignments(c *gin.Context, identity service.Identity) {
	assignments, err := h.courseworkService.ListAssignments(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(assignments, newAssignmentResponse))
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Tags coursework
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param request body service.AssignmentInput true "Assignment"
// @Success 201 {object} AssignmentResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/assignments [post]
func (h *CourseworkHandler) CreateAssignment(c *gin.Context, identity service.Identity) {
	var input service.AssignmentInput
	if !bindJSON(c, &input) {
		return
	}

	assignment, err := h.courseworkService.CreateAssignment(c.Request.Context(), identity.UserID, c.Param("id"), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newAssignmentResponse(assignment))
}

// UpdateAssignment godoc
// @Summary Update an assignment
// @Tags coursework
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Param request body service.AssignmentUpdate true "Fields to change"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/assignments/{assignmentId} [put]
func (h *CourseworkHandler) UpdateAssignment(c *gin.Context, identity service.Identity) {
	var input service.AssignmentUpdate
	if !bindJSON(c, &input) {
		return
	}

	assignment, err := h.courseworkService.UpdateAssignment(c.Request.Context(), identity.UserID, c.Param("id"), c.Param("assignmentId"), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentResponse(assignment))
}

// DeleteAssignment godoc
// @Summary Delete an assignment
// @Tags coursework
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/assignments/{assignmentId} [delete]
func (h *CourseworkHandler) DeleteAssignment(c *gin.Context, identity service.Identity) {
	if err := h.courseworkService.DeleteAssignment(c.Request.Context(), identity.UserID, c.Param("id"), c.Param("assignmentId")); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLabs godoc
// @Summary List labs
// @Tags coursework
// @Security BearerAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {array} LabResponse
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/labs [get]
func (h *CourseworkHandler) ListLabs(c *gin.Context, identity service.Identity) {
	labs, err := h.courseworkService.ListLabs(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(labs, newLabResponse))
}

// CreateLab godoc
// @Summary Create a lab
// @Tags coursework
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param request body service.LabInput true "Lab"
// @Success 201 {object} LabResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/labs [post]
func (h *CourseworkHandler) CreateLab(c *gin.Context, identity service.Identity) {
	var input service.LabInput
	if !bindJSON(c, &input) {
		return
	}

	lab, err := h.courseworkService.CreateLab(c.Request.Context(), identity.UserID, c.Param("id"), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newLabResponse(lab))
}

// UpdateLab godoc
// @Summary Update a lab
// @Tags coursework
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param labId path string true "Lab ID"
// @Param request body service.LabUpdate true "Fields to change"
// @Success 200 {object} LabResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/labs/{labId} [put]
func (h *CourseworkHandler) UpdateLab(c *gin.Context, identity service.Identity) {
	var input service.LabUpdate
	if !bindJSON(c, &input) {
		return
	}

	lab, err := h.courseworkService.UpdateLab(c.Request.Context(), identity.UserID, c.Param("id"), c.Param("labId"), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newLabResponse(lab))
}

// DeleteLab godoc
// @Summary Delete a lab
// @Tags coursework
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param labId path string true "Lab ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id}/labs/{labId} [delete]
func (h *CourseworkHandler) DeleteLab(c *gin.Context, identity service.Identity) {
	if err := h.courseworkService.DeleteLab(c.Request.Context(), identity.UserID, c.Param("id"), c.Param("labId")); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
