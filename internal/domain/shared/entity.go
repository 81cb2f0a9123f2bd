package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain records
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
}

// BaseEntity provides the identity and creation time shared by every record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedEntity is a record created by, and attributed to, a principal
type OwnedEntity struct {
	BaseEntity
	CreatedBy uuid.UUID
}

// NewOwnedEntity creates a new owned entity attributed to createdBy
func NewOwnedEntity(createdBy uuid.UUID) OwnedEntity {
	return OwnedEntity{
		BaseEntity: NewBaseEntity(),
		CreatedBy:  createdBy,
	}
}

// IsOwnedBy reports whether the record was created by userID
func (e *OwnedEntity) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && e.CreatedBy == userID
}
