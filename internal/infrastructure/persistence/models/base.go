package models

import (
	"time"

	"github.com/findash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OwnedModel adds the creating principal to BaseModel
type OwnedModel struct {
	BaseModel
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainOwnedEntity populates OwnedModel from domain OwnedEntity
func (m *OwnedModel) FromDomainOwnedEntity(e shared.OwnedEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.CreatedBy = e.CreatedBy
}

// ToOwnedEntity converts OwnedModel to domain OwnedEntity
func (m *OwnedModel) ToOwnedEntity() shared.OwnedEntity {
	return shared.OwnedEntity{
		BaseEntity: m.ToDomain(),
		CreatedBy:  m.CreatedBy,
	}
}

// All returns every persisted model, in dependency order
func All() []any {
	return []any{
		&UserModel{},
		&BudgetModel{},
		&CashRequestModel{},
		&ExpenseModel{},
	}
}
