package auth

import (
	"errors"
	"time"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience is the aud claim of tokens issued to signed-in users
const Audience = "authenticated"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing subject in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// AppMetadata is the server-controlled part of the token. Users cannot edit it.
type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// UserMetadata is the user-editable profile part of the token
type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
}

// Claims represents the access token claims
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email"`
	AppMetadata  AppMetadata  `json:"app_metadata"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

// AccessToken is a signed token with its identifiers
type AccessToken struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"` // Bearer
	ExpiresAt time.Time `json:"expires_at"`
	JTI       string    `json:"-"`
}

// JWTService issues and validates access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateAccessToken signs a token for the user. The user's role goes into
// app_metadata; an account without a role gets a token without one.
func (s *JWTService) GenerateAccessToken(user *identity.User) (*AccessToken, error) {
	now := time.Now()
	jti := uuid.New().String()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:        user.Email,
		AppMetadata:  AppMetadata{Role: user.Role.String()},
		UserMetadata: UserMetadata{FullName: user.FullName},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &AccessToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: now.Add(s.expiration),
		JTI:       jti,
	}, nil
}

// ValidateAccessToken checks the signature and time window and returns the claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(Audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetAccessTokenExpiration returns the access token lifetime
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.expiration
}

// UserID returns the subject as a UUID
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}

// Principal projects the claims into a request principal.
// A missing or unknown app_metadata role leaves Role empty. The claim is
// matched exactly, case included.
func (c *Claims) Principal() *identity.Principal {
	role := identity.Role(c.AppMetadata.Role)
	if !role.IsValid() {
		role = ""
	}
	profile := identity.User{Email: c.Email, FullName: c.UserMetadata.FullName}
	return &identity.Principal{
		ID:    c.UserID(),
		Email: c.Email,
		Name:  profile.DisplayName(),
		Role:  role,
	}
}

// IssuedAtTime returns the token's issued-at time
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time left until the token expires
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
