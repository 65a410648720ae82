package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/my-academia/academia-service/internal/metrics"
	"github.com/my-academia/academia-service/internal/response"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/sirupsen/logrus"
)

// IdentityHandler is a handler that runs only for an authenticated caller.
type IdentityHandler func(c *gin.Context, identity service.Identity)

// Authenticator resolves the caller of protected routes.
type Authenticator struct {
	gate    service.AccessGate
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewAuthenticator creates a new Authenticator instance.
func NewAuthenticator(gate service.AccessGate, log logrus.FieldLogger, m *metrics.Metrics) *Authenticator {
	return &Authenticator{
		gate:    gate,
		log:     log,
		metrics: m,
	}
}

// Require wraps next so it only runs once the Authorization header resolves
// to an existing user. Every rejection is a 401 with the same message.
func (a *Authenticator) Require(next IdentityHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			a.metrics.AuthEvent(metrics.EventTokenRejected)
			response.Abort(c, a.log, err)
			return
		}
		next(c, *identity)
	}
}
