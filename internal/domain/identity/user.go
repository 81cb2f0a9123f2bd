package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/findash/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// Errors raised by user accounts
var (
	ErrInvalidPassword   = shared.NewDomainError("INVALID_INPUT", "Password must be 8 to 128 characters and contain a letter and a number")
	ErrInvalidEmail      = shared.NewDomainError("INVALID_INPUT", "Invalid email format")
	ErrInvalidFullName   = shared.NewDomainError("INVALID_INPUT", "Full name cannot exceed 100 characters")
	ErrEmailTaken        = shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	ErrInvalidCredential = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
)

// User is an account in the identity directory.
// Role mirrors the app_metadata role claim and is empty when none was assigned.
type User struct {
	shared.BaseEntity
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	LastLoginAt  *time.Time
}

// NewUser creates a STAFF account with a hashed password
func NewUser(email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) || len(email) > 200 {
		return nil, ErrInvalidEmail
	}
	u := &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Role:       DefaultRole,
	}
	if err := u.Rename(fullName); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Rename sets the user's full name
func (u *User) Rename(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) > 100 {
		return ErrInvalidFullName
	}
	u.FullName = fullName
	u.Touch()
	return nil
}

// SetPassword validates and stores a new bcrypt hash
func (u *User) SetPassword(password string) error {
	if len(password) < 8 || len(password) > 128 ||
		!letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangeRole assigns a new role
func (u *User) ChangeRole(r Role) error {
	if !r.IsValid() {
		return ErrInvalidRole
	}
	u.Role = r
	u.Touch()
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// DisplayName returns the full name, else the email local part, else "Unknown"
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if local, _, _ := strings.Cut(u.Email, "@"); local != "" {
		return local
	}
	return "Unknown"
}

// ListRole returns the role shown in listings, defaulting to STAFF
func (u *User) ListRole() Role {
	if u.Role.IsValid() {
		return u.Role
	}
	return DefaultRole
}

// Principal projects the account into a request principal
func (u *User) Principal() *Principal {
	return &Principal{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.DisplayName(),
		Role:  u.Role,
	}
}

// UserSummary is the row shape of the users list
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Summary projects the account into a list row
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID.String(),
		FullName: u.DisplayName(),
		Role:     u.ListRole(),
	}
}
