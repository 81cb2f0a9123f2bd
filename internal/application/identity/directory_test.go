package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/findash/backend/internal/domain/identity"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserDirectory is a mock implementation of identity.UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) ListAll(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserDirectory) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserDirectory) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserDirectory) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// memoryDirectory is a working in-memory identity.UserDirectory for flow tests
type memoryDirectory struct {
	mu    sync.Mutex
	users map[uuid.UUID]identity.User
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{users: make(map[uuid.UUID]identity.User)}
}

func (d *memoryDirectory) ListAll(context.Context) ([]identity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]identity.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	return out, nil
}

func (d *memoryDirectory) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (d *memoryDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := d.FindByEmail(ctx, email)
	return err == nil, nil
}

func (d *memoryDirectory) Create(ctx context.Context, user *identity.User) error {
	if ok, _ := d.ExistsByEmail(ctx, user.Email); ok {
		return identity.ErrEmailTaken
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = *user
	return nil
}

func (d *memoryDirectory) Update(_ context.Context, user *identity.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	d.users[user.ID] = *user
	return nil
}

var (
	_ identity.UserDirectory = (*MockUserDirectory)(nil)
	_ identity.UserDirectory = (*memoryDirectory)(nil)
)
