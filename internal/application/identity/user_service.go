package identity

import (
	"context"
	"errors"
	"time"

	"github.com/findash/backend/internal/application/listing"
	"github.com/findash/backend/internal/application/querystate"
	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserColumns maps the users list columns onto list rows
var UserColumns = listing.Columns[identity.UserSummary]{
	ID: func(u identity.UserSummary) string { return u.ID },
	Sort: map[string]listing.Field[identity.UserSummary]{
		"full_name": func(u identity.UserSummary) string { return u.FullName },
		"role":      func(u identity.UserSummary) string { return u.Role.String() },
	},
	Search: []listing.Field[identity.UserSummary]{
		func(u identity.UserSummary) string { return u.FullName },
	},
	Facets: map[string]listing.Field[identity.UserSummary]{
		"role": func(u identity.UserSummary) string { return u.Role.String() },
	},
}

// UserService handles user management operations
type UserService struct {
	users     identity.UserDirectory
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	provider  *listing.InMemoryProvider[identity.UserSummary]
	logger    *zap.Logger
}

// NewUserService creates a new user service. tokenTTL bounds how long a
// role change must keep older tokens revoked.
func NewUserService(
	users identity.UserDirectory,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	s := &UserService{
		users:     users,
		blacklist: blacklist,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
	s.provider = listing.NewInMemoryProvider(querystate.Users, s.loadSummaries, UserColumns, logger)
	return s
}

func (s *UserService) loadSummaries(ctx context.Context) ([]identity.UserSummary, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]identity.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// FetchPage serves one page of the users list
func (s *UserService) FetchPage(ctx context.Context, st querystate.State) listing.Result[identity.UserSummary] {
	return s.provider.FetchPage(ctx, st)
}

// UpdateRole assigns role to the target account and revokes the target's
// existing tokens, which still carry the old role claim
func (s *UserService) UpdateRole(ctx context.Context, actor *identity.Principal, targetID uuid.UUID, role identity.Role) (*identity.UserSummary, error) {
	log := logger.WithLogger(ctx, s.logger)

	if !actor.CanManageRoles() {
		log.Warn("Role change denied", zap.String("target_id", targetID.String()))
		return nil, identity.ErrRoleChangeDenied
	}
	if !role.IsValid() {
		return nil, identity.ErrInvalidRole
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		log.Error("Failed to load user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	previous := user.Role
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		log.Error("Failed to update role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update role")
	}

	if previous != role {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.tokenTTL); err != nil {
			log.Error("Failed to revoke tokens after role change", zap.Error(err))
		}
	}

	log.Info("Role updated",
		zap.String("target_id", user.ID.String()),
		zap.String("from", previous.String()),
		zap.String("to", role.String()))
	summary := user.Summary()
	return &summary, nil
}
