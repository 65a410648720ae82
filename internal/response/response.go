// Package response writes the JSON error envelope shared by handlers and
// middleware.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/sirupsen/logrus"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// MessageBody is returned by operations that only confirm an action.
type MessageBody struct {
	Message string `json:"message"`
}

// Error maps err to its status and writes the public body. Internal causes
// are logged and never sent to the client.
func Error(c *gin.Context, log logrus.FieldLogger, err error) {
	status, body := build(c, log, err)
	c.JSON(status, body)
}

// Abort is Error followed by aborting the handler chain.
func Abort(c *gin.Context, log logrus.FieldLogger, err error) {
	status, body := build(c, log, err)
	c.AbortWithStatusJSON(status, body)
}

func build(c *gin.Context, log logrus.FieldLogger, err error) (int, ErrorBody) {
	e := apperr.From(err)

	if e.Kind == apperr.KindInternal && log != nil {
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(e.Err).Error("request failed")
	}

	return apperr.HTTPStatus(e.Kind), ErrorBody{Message: e.Message, Errors: e.Fields}
}
