package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserDirectory is the identity-management store. It exposes no query
// capability: listings pull the whole directory and work in memory.
type UserDirectory interface {
	// ListAll returns every account in one unpaginated call
	ListAll(ctx context.Context) ([]User, error)

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
