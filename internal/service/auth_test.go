package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/my-academia/academia-service/internal/apperr"
	"github.com/my-academia/academia-service/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByRegistrationNumberFunc func(ctx context.Context, registrationNumber string) (*models.User, error)
	findByIDFunc                 func(ctx context.Context, id string) (*models.User, error)
	createFunc                   func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*models.User, error) {
	if m.findByRegistrationNumberFunc != nil {
		return m.findByRegistrationNumberFunc(ctx, registrationNumber)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

// memoryUserRepository keeps users in a map and enforces the unique
// registration number like the users index does.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (m *memoryUserRepository) FindByRegistrationNumber(_ context.Context, registrationNumber string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.RegistrationNumber == registrationNumber {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found", nil)
}

func (m *memoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found", nil)
}

func (m *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.RegistrationNumber == user.RegistrationNumber {
			return apperr.Conflict("Registration number already exists", nil)
		}
	}
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUserRepository) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestAuthService(t *testing.T, repo *mockUserRepository) (*authService, JWTService) {
	t.Helper()

	jwtService := newTestJWTService(t)
	service := NewAuthService(repo, jwtService, WithHashCost(bcrypt.MinCost)).(*authService)
	return service, jwtService
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		RegistrationNumber: "EG/2020/1234",
		FullName:           "John Doe",
		Password:           "Password123",
	}
}

// =============================================================================
// Register Tests
// =============================================================================

func TestRegister_Success(t *testing.T) {
	var stored *models.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *models.User) error {
			user.ID = "user-1"
			stored = user
			return nil
		},
	}
	service, jwtService := setupTestAuthService(t, repo)

	result, err := service.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if stored == nil {
		t.Fatal("Register() should persist the user")
	}
	if stored.PasswordHash == "Password123" || stored.PasswordHash == "" {
		t.Error("Register() should store a hash, not the plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Password123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	if result.User.ID != "user-1" || result.User.RegistrationNumber != "EG/2020/1234" || result.User.FullName != "John Doe" {
		t.Errorf("Register() user = %+v", result.User)
	}

	subject, err := jwtService.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if subject != "user-1" {
		t.Errorf("token subject = %s, want user-1", subject)
	}
}

func TestRegister_DuplicateRegistrationNumber(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewAuthService(repo, newTestJWTService(t), WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	if _, err := service.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	variants := []RegisterInput{
		validRegisterInput(),
		{RegistrationNumber: "EG/2020/1234", FullName: "Jane Roe", Password: "Different456"},
	}
	for _, input := range variants {
		_, err := service.Register(ctx, input)
		if !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("Register(%+v) error = %v, want conflict", input, err)
		}
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *models.User) error {
			t.Error("Create() should not be called for invalid input")
			return nil
		},
	}
	service, _ := setupTestAuthService(t, repo)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"lowercase prefix", RegisterInput{"eg/2020/1234", "John Doe", "Password123"}},
		{"short number", RegisterInput{"EG/20/1234", "John Doe", "Password123"}},
		{"name with digits", RegisterInput{"EG/2020/1234", "John 2", "Password123"}},
		{"name too long", RegisterInput{"EG/2020/1234", strings.Repeat("a", 101), "Password123"}},
		{"blank name", RegisterInput{"EG/2020/1234", "   ", "Password123"}},
		{"short password", RegisterInput{"EG/2020/1234", "John Doe", "Pass1"}},
		{"no upper case", RegisterInput{"EG/2020/1234", "John Doe", "password123"}},
		{"no digit", RegisterInput{"EG/2020/1234", "John Doe", "PasswordABC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.input)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("Register() error = %v, want validation error", err)
			}
		})
	}
}

func TestRegister_RepositoryFailure(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *models.User) error {
			return apperr.Internal(errors.New("connection reset"))
		},
	}
	service, _ := setupTestAuthService(t, repo)

	_, err := service.Register(context.Background(), validRegisterInput())
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("Register() error = %v, want internal", err)
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	passwordHash := hashPassword(t, "Password123")
	repo := &mockUserRepository{
		findByRegistrationNumberFunc: func(ctx context.Context, registrationNumber string) (*models.User, error) {
			return &models.User{
				ID:                 "user-1",
				RegistrationNumber: registrationNumber,
				FullName:           "John Doe",
				PasswordHash:       passwordHash,
			}, nil
		},
	}
	service, jwtService := setupTestAuthService(t, repo)

	result, err := service.Login(context.Background(), LoginInput{
		RegistrationNumber: "EG/2020/1234",
		Password:           "Password123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.Token == "" {
		t.Error("Login() should return a token")
	}
	if result.User.ID != "user-1" {
		t.Errorf("Login() user id = %s, want user-1", result.User.ID)
	}
	if subject, err := jwtService.Verify(result.Token); err != nil || subject != "user-1" {
		t.Errorf("Verify() = %s, %v", subject, err)
	}
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	passwordHash := hashPassword(t, "Password123")
	repo := &mockUserRepository{
		findByRegistrationNumberFunc: func(ctx context.Context, registrationNumber string) (*models.User, error) {
			if registrationNumber != "EG/2020/1234" {
				return nil, apperr.NotFound("User not found", nil)
			}
			return &models.User{ID: "user-1", RegistrationNumber: registrationNumber, PasswordHash: passwordHash}, nil
		},
	}
	service, _ := setupTestAuthService(t, repo)
	ctx := context.Background()

	_, unknownErr := service.Login(ctx, LoginInput{RegistrationNumber: "EG/2020/9999", Password: "Password123"})
	_, wrongErr := service.Login(ctx, LoginInput{RegistrationNumber: "EG/2020/1234", Password: "WrongPass1"})

	for _, err := range []error{unknownErr, wrongErr} {
		if !apperr.Is(err, apperr.KindAuth) {
			t.Fatalf("Login() error = %v, want auth error", err)
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, ErrInvalidCredentials)
		}
	}

	if apperr.From(unknownErr).Message != apperr.From(wrongErr).Message {
		t.Errorf("messages differ: %q vs %q", apperr.From(unknownErr).Message, apperr.From(wrongErr).Message)
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	repo := &mockUserRepository{}
	service, _ := setupTestAuthService(t, repo)

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"empty registration number", LoginInput{"", "Password123"}},
		{"bad format", LoginInput{"EG-2020-1234", "Password123"}},
		{"empty password", LoginInput{"EG/2020/1234", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.input)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("Login() error = %v, want validation error", err)
			}
		})
	}
}

func TestLogin_RepositoryFailure(t *testing.T) {
	repo := &mockUserRepository{
		findByRegistrationNumberFunc: func(ctx context.Context, registrationNumber string) (*models.User, error) {
			return nil, apperr.Internal(errors.New("database unavailable"))
		},
	}
	service, _ := setupTestAuthService(t, repo)

	_, err := service.Login(context.Background(), LoginInput{RegistrationNumber: "EG/2020/1234", Password: "Password123"})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("Login() error = %v, want internal", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newMemoryUserRepository()
	service := NewAuthService(repo, newTestJWTService(t), WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	registered, err := service.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	loggedIn, err := service.Login(ctx, LoginInput{RegistrationNumber: "EG/2020/1234", Password: "Password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if registered.User != loggedIn.User {
		t.Errorf("summaries differ: %+v vs %+v", registered.User, loggedIn.User)
	}
}
