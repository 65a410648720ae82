package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/my-academia/academia-service/internal/config"
	"github.com/my-academia/academia-service/internal/database"
	"github.com/my-academia/academia-service/internal/middleware"
	"github.com/my-academia/academia-service/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

// =============================================================================
// Test Helpers
// =============================================================================

type testServer struct {
	t      *testing.T
	router *gin.Engine
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	router, err := NewRouter(Deps{
		DB:    db,
		Redis: rdb,
		Config: &config.Config{
			JWTSecret:       "integration-test-secret-of-32-bytes!",
			JWTExpiry:       time.Hour,
			LoginRateLimit:  10,
			LoginRateWindow: 15 * time.Minute,
			Environment:     "test",
		},
		Log:         log,
		AuthOptions: []service.AuthOption{service.WithHashCost(bcrypt.MinCost)},
	})
	require.NoError(t, err)

	return &testServer{t: t, router: router, redis: mr}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(registrationNumber string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"registrationNumber": registrationNumber,
		"fullName":           "Test Student",
		"password":           "Secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var result service.AuthResult
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(s.t, result.Token)
	return result.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// =============================================================================
// Auth Flow
// =============================================================================

func TestRegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	token := s.register("EG/2020/1234")

	dup := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"registrationNumber": "EG/2020/1234",
		"fullName":           "Someone Else",
		"password":           "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, dup.Code)

	login := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"registrationNumber": "EG/2020/1234",
		"password":           "Secret123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	loginToken := decode[service.AuthResult](t, login).Token

	for _, tok := range []string{token, loginToken} {
		me := s.do(http.MethodGet, "/api/auth/me", tok, nil)
		require.Equal(t, http.StatusOK, me.Code)
		body := decode[map[string]any](t, me)
		assert.Equal(t, "EG/2020/1234", body["registrationNumber"])
		assert.NotContains(t, me.Body.String(), "password")
	}

	wrong := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"registrationNumber": "EG/2020/1234",
		"password":           "Wrong1234",
	})
	unknown := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"registrationNumber": "EG/2020/9999",
		"password":           "Secret123",
	})
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"registrationNumber": "eg-2020-1234",
		"fullName":           "J0hn",
		"password":           "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}](t, w)
	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["registrationNumber"] && fields["fullName"] && fields["password"], "errors = %+v", body.Errors)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/auth/me", "/api/modules"} {
				w := s.do(http.MethodGet, path, tt.token, nil)
				assert.Equal(t, http.StatusUnauthorized, w.Code, path)
				assert.JSONEq(t, `{"message":"Token is not valid"}`, w.Body.String())
			}
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]string{"registrationNumber": "EG/2020/0001", "password": "Secret123"}

	for i := 0; i < 10; i++ {
		w := s.do(http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusBadRequest, w.Code, "attempt %d", i+1)
	}

	w := s.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), middleware.LoginLimitMessage(15*time.Minute))

	s.redis.FastForward(15*time.Minute + time.Second)
	w = s.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code, "window should reset")
}

// =============================================================================
// Modules
// =============================================================================

func TestModules_PerOwnerCodes(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.register("EG/2020/0001")
	tokenB := s.register("EG/2020/0002")

	module := map[string]any{"moduleName": "Data Structures", "moduleCode": "cs2040", "lectureHours": 30, "attendedHours": 15}

	created := s.do(http.MethodPost, "/api/modules", tokenA, module)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	body := decode[map[string]any](t, created)
	assert.Equal(t, "CS2040", body["moduleCode"])
	assert.EqualValues(t, 50, body["attendancePercentage"])
	moduleID := body["id"].(string)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/modules", tokenA, module).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/modules", tokenB, module).Code)

	listA := decode[[]map[string]any](t, s.do(http.MethodGet, "/api/modules", tokenA, nil))
	listB := decode[[]map[string]any](t, s.do(http.MethodGet, "/api/modules", tokenB, nil))
	assert.Len(t, listA, 1)
	assert.Len(t, listB, 1)

	path := "/api/modules/" + moduleID
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, path, tokenB, map[string]any{"attendedHours": 1}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, tokenB, nil).Code)

	updated := s.do(http.MethodPut, path, tokenA, map[string]any{"attendedHours": 20})
	require.Equal(t, http.StatusOK, updated.Code)
	upd := decode[map[string]any](t, updated)
	assert.EqualValues(t, 67, upd["attendancePercentage"])
	assert.Equal(t, "Data Structures", upd["moduleName"])

	deleted := s.do(http.MethodDelete, path, tokenA, nil)
	require.Equal(t, http.StatusOK, deleted.Code)
	assert.JSONEq(t, `{"message":"Module deleted successfully"}`, deleted.Body.String())
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, tokenA, nil).Code)
}

func TestModules_RejectsOutOfRangeHours(t *testing.T) {
	s := newTestServer(t)
	token := s.register("EG/2020/0001")

	w := s.do(http.MethodPost, "/api/modules", token, map[string]any{
		"moduleName":    "Overflow",
		"moduleCode":    "OV1000",
		"lectureHours":  1,
		"attendedHours": int64(math.MaxInt64 / 10),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "attendedHours")
	assert.Len(t, decode[[]map[string]any](t, s.do(http.MethodGet, "/api/modules", token, nil)), 0)
}

func TestCoursework(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.register("EG/2020/0001")
	tokenB := s.register("EG/2020/0002")

	created := s.do(http.MethodPost, "/api/modules", tokenA, map[string]any{"moduleName": "Algorithms", "moduleCode": "CS3230"})
	require.Equal(t, http.StatusCreated, created.Code)
	base := "/api/modules/" + decode[map[string]any](t, created)["id"].(string)

	a := s.do(http.MethodPost, base+"/assignments", tokenA, map[string]any{"name": "Problem Set 1"})
	require.Equal(t, http.StatusCreated, a.Code, a.Body.String())
	assignmentID := decode[map[string]any](t, a)["id"].(string)

	graded := s.do(http.MethodPut, base+"/assignments/"+assignmentID, tokenA, map[string]any{"marks": 85})
	require.Equal(t, http.StatusOK, graded.Code)
	assert.EqualValues(t, 85, decode[map[string]any](t, graded)["marks"])

	l := s.do(http.MethodPost, base+"/labs", tokenA, map[string]any{"name": "Lab 1"})
	require.Equal(t, http.StatusCreated, l.Code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"/labs", tokenB, nil).Code)
	assert.Len(t, decode[[]map[string]any](t, s.do(http.MethodGet, base+"/labs", tokenA, nil)), 1)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base+"/assignments/"+assignmentID, tokenA, nil).Code)
	assert.Len(t, decode[[]map[string]any](t, s.do(http.MethodGet, base+"/assignments", tokenA, nil)), 0)
}

// =============================================================================
// Health
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running", body["message"])

	s.redis.Close()
	w = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
