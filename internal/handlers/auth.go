// Package handlers contains HTTP request handlers for the academia service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
	log         logrus.FieldLogger
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, log logrus.FieldLogger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
		metrics:     m,
	}
}

// Register godoc
// @Summary Register a student
// @Description Create an account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration details"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.metrics.AuthEvent(metrics.EventRegisterError)
		response.Error(c, h.log, err)
		return
	}

	h.metrics.AuthEvent(metrics.EventRegister)
	h.log.WithField("user_id", result.User.ID).Info("user registered")
	c.JSON(http.StatusCreated, result)
}

// Login godoc
// @Summary Log in
// @Description Exchange a registration number and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} response.ErrorBody
// @Failure 429 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		if apperr.Is(err, apperr.KindAuth) {
			h.metrics.AuthEvent(metrics.EventLoginFailure)
			h.log.WithField("client_ip", c.ClientIP()).Warn("login failed")
		}
		response.Error(c, h.log, err)
		return
	}

	h.metrics.AuthEvent(metrics.EventLogin)
	c.JSON(http.StatusOK, result)
}

// Me godoc
// @Summary Current user
// @Description Return the profile of the authenticated caller
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context, identity service.Identity) {
	c.JSON(http.StatusOK, newMeResponse(identity))
}
