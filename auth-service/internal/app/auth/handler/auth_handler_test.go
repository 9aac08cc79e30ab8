package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/auth-service/internal/app/auth/repository"
	"eventhub/auth-service/internal/app/auth/repository/mocks"
	"eventhub/auth-service/internal/app/auth/service"
	"eventhub/auth-service/internal/app/auth/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv - роутер с настоящим AuthService поверх моков репозиториев
type testEnv struct {
	router    *gin.Engine
	userRepo  *mocks.MockUserRepository
	tokenRepo *mocks.MockTokenRepository
	mailer    *mocks.MockMailer
	jwt       *util.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		userRepo:  new(mocks.MockUserRepository),
		tokenRepo: new(mocks.MockTokenRepository),
		mailer:    new(mocks.MockMailer),
		jwt:       util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour),
	}
	authService := service.NewAuthService(env.userRepo, env.tokenRepo, env.jwt, env.mailer, service.PasswordResetConfig{
		FrontendURL: "http://localhost:3000",
		TokenTTL:    time.Hour,
	})
	env.router = SetupRoutes(NewAuthHandler(authService), NewAuthMiddleware(authService), []string{"http://localhost:3000"})

	t.Cleanup(func() {
		env.userRepo.AssertExpectations(t)
		env.tokenRepo.AssertExpectations(t)
		env.mailer.AssertExpectations(t)
	})
	return env
}

func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newTestUser() *entity.User {
	hash, _ := util.HashPassword("password123")
	return &entity.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: hash,
	}
}

func TestRegister_Created(t *testing.T) {
	env := newTestEnv(t)
	env.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	env.tokenRepo.On("SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := env.do(http.MethodPost, "/auth/register", entity.RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)
	var resp entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		repoErr error
		status  int
		message string
	}{
		{"malformed json", "{", nil, http.StatusBadRequest, "Invalid request body"},
		{"validation", entity.RegisterRequest{Email: "x", Username: "alice", Password: "password123"}, nil,
			http.StatusBadRequest, "email must be a valid email address"},
		{"email taken", entity.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"},
			repository.ErrEmailTaken, http.StatusConflict, "User with this email already exists"},
		{"username taken", entity.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"},
			repository.ErrUsernameTaken, http.StatusConflict, "Username is already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.repoErr != nil {
				env.userRepo.On("Create", mock.Anything, mock.Anything).Return(tt.repoErr)
			}

			w := env.do(http.MethodPost, "/auth/register", tt.body, "")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Message)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		user := newTestUser()
		env.userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
		env.tokenRepo.On("SaveRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

		w := env.do(http.MethodPost, "/auth/login", entity.LoginRequest{Email: "alice@example.com", Password: "password123"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		env.userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(newTestUser(), nil)

		w := env.do(http.MethodPost, "/auth/login", entity.LoginRequest{Email: "alice@example.com", Password: "nope-nope"}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeError(t, w).Message)
	})
}

func TestRefresh_Unknown(t *testing.T) {
	env := newTestEnv(t)
	env.tokenRepo.On("GetRefreshToken", mock.Anything, "missing").Return(nil, repository.ErrRefreshTokenNotFound)

	w := env.do(http.MethodPost, "/auth/refresh", entity.RefreshRequest{RefreshToken: "missing"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeAndLogout(t *testing.T) {
	env := newTestEnv(t)
	user := newTestUser()
	token, err := env.jwt.GenerateAccessToken(user)
	require.NoError(t, err)

	env.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(false, nil)
	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	env.tokenRepo.On("AddToBlacklist", mock.Anything, token, mock.AnythingOfType("time.Time")).Return(nil)
	env.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID).Return(nil)

	w := env.do(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var me entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)

	w = env.do(http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Successfully logged out")
}

func TestForgotPassword_SameResponseForUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	user := newTestUser()
	env.userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	env.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	env.userRepo.On("SetResetToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)
	env.mailer.On("SendPasswordReset", mock.Anything, "alice@example.com", "alice", mock.Anything).Return(nil)

	known := env.do(http.MethodPost, "/auth/forgot-password", entity.ForgotPasswordRequest{Email: "alice@example.com"}, "")
	unknown := env.do(http.MethodPost, "/auth/forgot-password", entity.ForgotPasswordRequest{Email: "ghost@example.com"}, "")

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
}

func TestResetPassword(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t)
		env.userRepo.On("ConsumeResetToken", mock.Anything, util.HashResetToken("bad"), mock.Anything, mock.Anything).
			Return(nil, repository.ErrUserNotFound)

		w := env.do(http.MethodPost, "/auth/reset-password", entity.ResetPasswordRequest{Token: "bad", Password: "new-password-1"}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid or expired reset token", decodeError(t, w).Message)
	})

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		user := newTestUser()
		env.userRepo.On("ConsumeResetToken", mock.Anything, util.HashResetToken("good"), mock.Anything, mock.Anything).Return(user, nil)
		env.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID).Return(nil)

		w := env.do(http.MethodPost, "/auth/reset-password", entity.ResetPasswordRequest{Token: "good", Password: "new-password-1"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInternalErrorIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(nil, context.DeadlineExceeded)

	w := env.do(http.MethodPost, "/auth/login", entity.LoginRequest{Email: "alice@example.com", Password: "password123"}, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to login", decodeError(t, w).Message)
	assert.NotContains(t, w.Body.String(), "deadline")
}
