package service

import (
	"context"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ForgotPassword(ctx context.Context, req *entity.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *entity.ResetPasswordRequest) error
	ValidateToken(ctx context.Context, accessToken string) (*util.JWTClaims, error)
}

// Mailer доставляет письмо со ссылкой сброса пароля
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, resetLink string) error
}

var _ AuthServiceInterface = (*AuthService)(nil)
