package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

type ProfileRepo interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
}

type AuthRepo interface {
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid UUID", ErrInvalidInput)
	}

	raw, err := su.db.Select(ctx, ProfileTable, store.Query{
		Columns: "id,email,username,fullname,role,avatar_url,created_at,updated_at",
		Filters: []store.Filter{store.Eq("id", id.String())},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	// Supabase returns an array even for single results
	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %w", err)
	}

	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}
	if len(profiles) > 1 {
		return nil, fmt.Errorf("multiple profiles found for ID %s", id)
	}
	return &profiles[0], nil
}

// SupabaseAuth relays password and refresh grants to Supabase Auth.
type SupabaseAuth struct {
	supabaseClient *supabase.Client
}

func NewSupabaseAuth(supabaseClient *supabase.Client) *SupabaseAuth {
	return &SupabaseAuth{supabaseClient: supabaseClient}
}

func (sa *SupabaseAuth) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := sa.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return resp, nil
}

func (sa *SupabaseAuth) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := sa.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return resp, nil
}
