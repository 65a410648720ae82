package service

import (
	"context"
	"strings"
	"time"

	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/repository"
)

// Identity is the authenticated caller, resolved from a bearer token.
type Identity struct {
	UserID             string
	RegistrationNumber string
	FullName           string
	CreatedAt          time.Time
}

// AccessGate turns an Authorization header into an Identity.
type AccessGate interface {
	Authenticate(ctx context.Context, authorization string) (*Identity, error)
}

type accessGate struct {
	jwtService JWTService
	userRepo   repository.UserRepository
}

// NewAccessGate creates a new AccessGate instance.
func NewAccessGate(jwtService JWTService, userRepo repository.UserRepository) AccessGate {
	return &accessGate{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// Authenticate verifies the bearer token and re-reads its subject so tokens
// of users that no longer exist are rejected before they expire.
func (g *accessGate) Authenticate(ctx context.Context, authorization string) (*Identity, error) {
	token := BearerToken(authorization)
	if token == "" {
		return nil, apperr.MissingCredential()
	}

	userID, err := g.jwtService.Verify(token)
	if err != nil {
		return nil, apperr.InvalidToken(err)
	}

	user, err := g.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.StaleIdentity(err)
		}
		return nil, err
	}

	return &Identity{
		UserID:             user.ID,
		RegistrationNumber: user.RegistrationNumber,
		FullName:           user.FullName,
		CreatedAt:          user.CreatedAt,
	}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(authorization string) string {
	parts := strings.Fields(authorization)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
