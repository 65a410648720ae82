package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/sirupsen/logrus"
)

// ModuleDeletedMessage confirms a module deletion.
const ModuleDeletedMessage = "Module deleted successfully"

// ModuleHandler handles module CRUD requests for the authenticated caller.
type ModuleHandler struct {
	moduleService service.ModuleService
	log           logrus.FieldLogger
}

// NewModuleHandler creates a new ModuleHandler instance.
func NewModuleHandler(moduleService service.ModuleService, log logrus.FieldLogger) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
		log:           log,
	}
}

// List godoc
// @Summary List modules
// @Description List the caller's modules, oldest first
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ModuleResponse
// @Failure 401 {object} response.ErrorBody
// @Router /modules [get]
func (h *ModuleHandler) List(c *gin.Context, identity service.Identity) {
	modules, err := h.moduleService.List(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(modules, newModuleResponse))
}

// Create godoc
// @Summary Create a module
// @Tags modules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.ModuleInput true "Module"
// @Success 201 {object} ModuleResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /modules [post]
func (h *ModuleHandler) Create(c *gin.Context, identity service.Identity) {
	var input service.ModuleInput
	if !bindJSON(c, &input) {
		return
	}

	module, err := h.moduleService.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newModuleResponse(module))
}

// Get godoc
// @Summary Get a module
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} ModuleResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id} [get]
func (h *ModuleHandler) Get(c *gin.Context, identity service.Identity) {
	module, err := h.moduleService.Get(c.Request.Context(), identity.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newModuleResponse(module))
}

// Update godoc
// @Summary Update a module
// @Description Replace the supplied fields; omitted fields keep their value
// @Tags modules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param request body service.ModuleUpdate true "Fields to change"
// @Success 200 {object} ModuleResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id} [put]
func (h *ModuleHandler) Update(c *gin.Context, identity service.Identity) {
	var input service.ModuleUpdate
	if !bindJSON(c, &input) {
		return
	}

	module, err := h.moduleService.Update(c.Request.Context(), identity.UserID, c.Param("id"), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newModuleResponse(module))
}

// Delete godoc
// @Summary Delete a module
// @Description Delete a module together with its assignments and labs
// @Tags modules
// @Security BearerAuth
// @Produce json
// @Param id path string true "Module ID"
// @Success 200 {object} response.MessageBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /modules/{id} [delete]
func (h *ModuleHandler) Delete(c *gin.Context, identity service.Identity) {
	if err := h.moduleService.Delete(c.Request.Context(), identity.UserID, c.Param("id")); err != nil {
		response.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageBody{Message: ModuleDeletedMessage})
}
