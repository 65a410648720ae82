package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/my-academia/academia-service/internal/apperr"
)

const (
	// TokenIssuer identifies tokens minted by this service.
	TokenIssuer = "my-academia"
	// TokenAudience is the only audience accepted at verification.
	TokenAudience = "my-academia-users"
	// DefaultTokenExpiry is the lifetime of an access token.
	DefaultTokenExpiry = 24 * time.Hour
	// MinSecretLength is the minimum HMAC secret size in bytes.
	MinSecretLength = 32
	// ClockSkew is the leeway allowed on exp and iat between instances.
	ClockSkew = 30 * time.Second
)

var (
	ErrEmptySecret = errors.New("jwt secret is empty")
	ErrShortSecret = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
)

// signingMethod is the only algorithm issued and accepted.
var signingMethod = jwt.SigningMethodHS256

// JWTService issues and verifies access tokens.
type JWTService interface {
	Issue(userID string) (string, error)
	Verify(tokenString string) (string, error)
	Expiry() time.Duration
}

type jwtService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// JWTOption customizes a JWTService.
type JWTOption func(*jwtService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) JWTOption {
	return func(s *jwtService) {
		s.now = now
	}
}

// NewJWTService creates a JWTService signing with secret. A zero expiry uses
// DefaultTokenExpiry.
func NewJWTService(secret string, expiry time.Duration, opts ...JWTOption) (JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}

	s := &jwtService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *jwtService) Expiry() time.Duration {
	return s.expiry
}

func (s *jwtService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("cannot issue token without subject")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the token subject. The algorithm is pinned here rather than
// taken from the token header.
func (s *jwtService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(ClockSkew),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", apperr.InvalidToken(err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperr.InvalidToken(errors.New("token has no subject"))
	}

	return claims.Subject, nil
}
