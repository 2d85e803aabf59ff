package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// AuthService relays credentials to Supabase Auth and looks up profiles. It
// never stores credentials itself.
type AuthService struct {
	base
	authRepo     models.AuthRepo
	profilesRepo models.ProfileRepo
}

func NewAuthService(authRepo models.AuthRepo, profilesRepo models.ProfileRepo, opts ...Option) *AuthService {
	return &AuthService{
		base:         newBase(opts),
		authRepo:     authRepo,
		profilesRepo: profilesRepo,
	}
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrInvalidInput)
	}
	if err := models.Validate.Var(password, "required"); err != nil {
		return nil, fmt.Errorf("%w: password is required", models.ErrInvalidInput)
	}
	resp, err := as.authRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return resp, nil
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", models.ErrInvalidInput)
	}
	resp, err := as.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return resp, nil
}

func (as *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return as.profilesRepo.GetProfile(ctx, id)
}
