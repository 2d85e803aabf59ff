package helpers

import "github.com/google/uuid"

const RoleGuest = "guest"

// EnhancedClaims is the token claims plus the caller's profile.
type EnhancedClaims struct {
	*CustomClaims
	Role        string `json:"role"`
	UserID      string `json:"id"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return RoleGuest
	}
	return ec.Role
}

// ID parses the subject as a uuid.
func (ec *EnhancedClaims) ID() (uuid.UUID, error) {
	return uuid.Parse(ec.UserID)
}
