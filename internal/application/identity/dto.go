package identity

import (
	"time"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// SignUpInput contains the input for account registration
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LogoutInput identifies the token being signed out
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	Remaining time.Duration // lifetime left on the token
}

// ResetPasswordInput contains a reset token and the new password
type ResetPasswordInput struct {
	Token    string
	Password string
}

// SessionResult is a signed-in session
type SessionResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the profile shown to the account owner
type UserInfo struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	FullName    string        `json:"full_name"`
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ToUserInfo projects an account into its profile view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		DisplayName: u.DisplayName(),
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
