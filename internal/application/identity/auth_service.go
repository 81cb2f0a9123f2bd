package identity

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrResetLinkInvalid is returned when a reset token cannot be used
var ErrResetLinkInvalid = shared.NewDomainError("INVALID_INPUT", "Password reset link is invalid or has expired")

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	ResetTokenTTL time.Duration
	// BaseURL prefixes the reset link written to the log
	BaseURL string
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		ResetTokenTTL: 30 * time.Minute,
		BaseURL:       "http://localhost:8080",
	}
}

// AuthService handles authentication operations
type AuthService struct {
	users      identity.UserDirectory
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	resets     auth.ResetTokenStore
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserDirectory,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	resets auth.ResetTokenStore,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		blacklist:  blacklist,
		resets:     resets,
		config:     config,
		logger:     logger,
	}
}

// SignUp registers a STAFF account and signs it in
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SessionResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		log.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, err
	}
	user.RecordLogin()
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return nil, err
		}
		log.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))
	return s.issueSession(ctx, user)
}

// Login authenticates a user and returns a session
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*SessionResult, error) {
	log := logger.WithLogger(ctx, s.logger)

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Error("Failed to load user during login", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to sign in")
		}
		log.Warn("Login for unknown email")
		return nil, identity.ErrInvalidCredential
	}

	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredential
	}

	user.RecordLogin()
	if err := s.users.Update(ctx, user); err != nil {
		// The session is still valid without the login stamp
		log.Error("Failed to record login", zap.Error(err))
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issueSession(ctx, user)
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	logger.WithLogger(ctx, s.logger).Info("User logout", zap.String("user_id", input.UserID.String()))

	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.Remaining); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to sign out")
	}
	return nil
}

// ResolvePrincipal turns a presented access token into a principal.
// Revoked tokens and tokens issued before a role change are rejected.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*identity.Principal, *auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, auth.ErrTokenBlacklisted
	}

	stale, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.Subject, claims.IssuedAtTime())
	if err != nil {
		return nil, nil, err
	}
	if stale {
		return nil, nil, auth.ErrTokenBlacklisted
	}
	return claims.Principal(), claims, nil
}

// RequestPasswordReset issues a reset link for the account, if one exists.
// Unknown emails succeed silently so the response does not reveal accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.WithLogger(ctx, s.logger)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Info("Password reset requested for unknown email")
			return nil
		}
		log.Error("Failed to load user for password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	token, err := s.resets.Issue(ctx, user.ID, s.config.ResetTokenTTL)
	if err != nil {
		log.Error("Failed to issue reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	// No mail transport: the link is delivered through the log
	log.Info("Password reset link issued",
		zap.String("user_id", user.ID.String()),
		zap.String("link", s.resetLink(token)),
		zap.Duration("ttl", s.config.ResetTokenTTL))
	return nil
}

func (s *AuthService) resetLink(token string) string {
	return s.config.BaseURL + "/reset-password?" + url.Values{"token": {token}}.Encode()
}

// ResetPassword consumes a reset token and sets the new password.
// Existing sessions of the account are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	log := logger.WithLogger(ctx, s.logger)

	userID, err := s.resets.Consume(ctx, input.Token)
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			return ErrResetLinkInvalid
		}
		log.Error("Failed to consume reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrResetLinkInvalid
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := user.SetPassword(input.Password); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		log.Error("Failed to store new password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetAccessTokenExpiration()); err != nil {
		log.Error("Failed to revoke sessions after password reset", zap.Error(err))
	}

	log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// GetCurrentUser returns the profile of the signed-in account
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdateProfile renames the account and reissues its token so the
// profile claims stay current
func (s *AuthService) UpdateProfile(ctx context.Context, principal *identity.Principal, fullName string) (*SessionResult, error) {
	if principal == nil {
		return nil, identity.ErrMissingPrincipal
	}
	user, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}
	if err := user.Rename(fullName); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}
	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user *identity.User) (*SessionResult, error) {
	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}
	return &SessionResult{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserInfo(user),
	}, nil
}
