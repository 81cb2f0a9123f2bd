package auth

import (
	"testing"
	"time"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestUser(role identity.Role) *identity.User {
	return &identity.User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      "dana@example.com",
		FullName:   "Dana Whitfield",
		Role:       role,
	}
}

func TestNewJWTService(t *testing.T) {
	svc := newTestJWTService()

	assert.Equal(t, []byte(testSecret), svc.secret)
	assert.Equal(t, 15*time.Minute, svc.GetAccessTokenExpiration())
	assert.Equal(t, "test-issuer", svc.issuer)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	user := newTestUser(identity.RoleFinance)

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	assert.NotEmpty(t, token.Token)
	assert.NotEmpty(t, token.JTI)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)
}

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	user := newTestUser(identity.RoleFinance)

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, token.JTI, claims.ID)
	assert.Equal(t, "FINANCE", claims.AppMetadata.Role)
	assert.Equal(t, "Dana Whitfield", claims.UserMetadata.FullName)
	assert.True(t, claims.RemainingTTL() > 14*time.Minute)
	assert.WithinDuration(t, time.Now(), claims.IssuedAtTime(), 5*time.Second)

	principal := claims.Principal()
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, identity.RoleFinance, principal.Role)
	assert.Equal(t, "Dana Whitfield", principal.Name)
}

func TestClaims_Principal_RoleClaim(t *testing.T) {
	tests := []struct {
		name string
		role string
		want identity.Role
	}{
		{"staff", "STAFF", identity.RoleStaff},
		{"finance", "FINANCE", identity.RoleFinance},
		{"missing", "", ""},
		{"unknown", "ADMIN", ""},
		{"wrong case", "finance", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
				Email:            "sam@example.com",
				AppMetadata:      AppMetadata{Role: tt.role},
			}
			principal := claims.Principal()
			assert.Equal(t, tt.want, principal.Role)
			assert.Equal(t, "sam", principal.Name)
		})
	}
}

func TestValidateAccessToken_NoRole(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateAccessToken(newTestUser(""))
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.AppMetadata.Role)
	assert.Equal(t, identity.Role(""), claims.Principal().Role)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: -time.Minute,
		Issuer:                "test-issuer",
	})

	token, err := svc.GenerateAccessToken(newTestUser(identity.RoleStaff))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	svc := newTestJWTService()
	user := newTestUser(identity.RoleStaff)

	otherSecret := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "test-issuer",
	})
	otherIssuer := NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: time.Minute,
		Issuer:                "someone-else",
	})

	sign := func(t *testing.T, method jwt.SigningMethod, claims *Claims) string {
		t.Helper()
		var key any = []byte(testSecret)
		if method == jwt.SigningMethodNone {
			key = jwt.UnsafeAllowNoneSignatureType
		}
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	baseClaims := func(subject string) *Claims {
		now := time.Now()
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   subject,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		}}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{"garbage", func(*testing.T) string { return "not-a-token" }, ErrInvalidToken},
		{"wrong secret", func(t *testing.T) string {
			tok, err := otherSecret.GenerateAccessToken(user)
			require.NoError(t, err)
			return tok.Token
		}, ErrInvalidToken},
		{"wrong issuer", func(t *testing.T) string {
			tok, err := otherIssuer.GenerateAccessToken(user)
			require.NoError(t, err)
			return tok.Token
		}, ErrInvalidToken},
		{"none algorithm", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodNone, baseClaims(uuid.NewString()))
		}, ErrInvalidToken},
		{"wrong audience", func(t *testing.T) string {
			c := baseClaims(uuid.NewString())
			c.Audience = jwt.ClaimStrings{"anon"}
			return sign(t, jwt.SigningMethodHS256, c)
		}, ErrInvalidToken},
		{"missing subject", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, baseClaims(""))
		}, ErrMissingUserID},
		{"non-uuid subject", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, baseClaims("user-42"))
		}, ErrInvalidClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaims_RemainingTTL_NoExpiry(t *testing.T) {
	assert.Equal(t, time.Duration(0), (&Claims{}).RemainingTTL())
	assert.True(t, (&Claims{}).IssuedAtTime().IsZero())
}
