package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/auth-service/internal/app/auth/repository"
	"eventhub/auth-service/internal/app/auth/util"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PasswordResetConfig - параметры ссылки сброса пароля
type PasswordResetConfig struct {
	FrontendURL string
	TokenTTL    time.Duration
}

// AuthService обрабатывает бизнес-логику аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *util.JWTManager
	mailer     Mailer
	reset      PasswordResetConfig
	validate   *validator.Validate
	now        func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
	mailer Mailer,
	reset PasswordResetConfig,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		mailer:     mailer,
		reset:      reset,
		validate:   newValidator(),
		now:        time.Now,
	}
}

// Register создает пользователя и сразу выдает ему пару токенов
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.AuthRegistrations.Inc()
	logger.Ctx(ctx).Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("User registered")

	return s.authResponse(ctx, user)
}

// Login проверяет пароль. Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return s.authResponse(ctx, user)
}

// RefreshTokens меняет refresh токен на новую пару. Старый токен одноразовый.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	if refreshToken == "" {
		return nil, &ValidationError{Field: "refresh_token", Rule: "required"}
	}

	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if !stored.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout отзывает access токен до конца его жизни и удаляет все refresh токены пользователя
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	logger.Ctx(ctx).Info().Str("user_id", claims.UserID.String()).Msg("User logged out")
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ForgotPassword отправляет ссылку сброса. Для неизвестного email молча ничего не делает,
// чтобы по ответу нельзя было проверить наличие аккаунта.
func (s *AuthService) ForgotPassword(ctx context.Context, req *entity.ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Ctx(ctx).Debug().Msg("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, tokenHash, err := util.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, tokenHash, s.now().Add(s.reset.TokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, s.resetLink(token)); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	metrics.AuthPasswordResets.WithLabelValues("requested").Inc()
	logger.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("Password reset requested")
	return nil
}

// ResetPassword меняет пароль по токену из письма и завершает все сессии пользователя
func (s *AuthService) ResetPassword(ctx context.Context, req *entity.ResetPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.ConsumeResetToken(ctx, util.HashResetToken(req.Token), passwordHash, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	metrics.AuthPasswordResets.WithLabelValues("completed").Inc()
	logger.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("Password reset completed")
	return nil
}

// ValidateToken проверяет подпись, срок и черный список
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, util.ErrInvalidToken
	}

	return s.jwtManager.ValidateToken(token)
}

func (s *AuthService) authResponse(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &entity.AuthResponse{User: *user, Tokens: *tokens}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}

func (s *AuthService) resetLink(token string) string {
	return s.reset.FrontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
