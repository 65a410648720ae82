// Package service contains the authentication, token, access and module
// business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"github.com/my-academia/academia-service/internal/repository"
	"github.com/my-academia/academia-service/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput is the registration payload.
type RegisterInput struct {
	RegistrationNumber string `json:"registrationNumber" label:"Registration number" validate:"required,regno"`
	FullName           string `json:"fullName" label:"Full name" validate:"required,min=2,max=100,personname"`
	Password           string `json:"password" label:"Password" validate:"required,min=8,max=72,strongpassword"`
}

// LoginInput is the login payload.
type LoginInput struct {
	RegistrationNumber string `json:"registrationNumber" label:"Registration number" validate:"required,regno"`
	Password           string `json:"password" label:"Password" validate:"required"`
}

// UserSummary is the non-sensitive view of a user returned with a token.
type UserSummary struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	FullName           string `json:"fullName"`
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// AuthService registers users and authenticates login attempts.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	hashCost   int
	dummyHash  func() []byte
}

// AuthOption customizes an AuthService.
type AuthOption func(*authService)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) AuthOption {
	return func(s *authService) {
		s.hashCost = cost
	}
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, opts ...AuthOption) AuthService {
	s := &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hashCost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash = sync.OnceValue(func() []byte {
		hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
		return hash
	})
	return s
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		RegistrationNumber: input.RegistrationNumber,
		FullName:           input.FullName,
		PasswordHash:       string(hash),
	}
	// Uniqueness is decided by the users index, not by a prior lookup.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByRegistrationNumber(ctx, input.RegistrationNumber)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		// Spend the same bcrypt work as for a known user.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(input.Password))
		return nil, apperr.Auth(ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperr.Auth(ErrInvalidCredentials)
	}

	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &AuthResult{
		Token: token,
		User:  Summarize(user),
	}, nil
}

// Summarize strips a user down to its public fields.
func Summarize(user *models.User) UserSummary {
	return UserSummary{
		ID:                 user.ID,
		RegistrationNumber: user.RegistrationNumber,
		FullName:           user.FullName,
	}
}
