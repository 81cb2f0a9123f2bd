package persistence

import (
	"context"
	"errors"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cashRequestList = listSpec{
	sortFields:  CashRequestSortFields,
	defaultSort: "created_at",
	search:      []string{"purpose"},
	facets: map[string]facetFunc{
		finance.FilterStatus:    inSet("status"),
		finance.FilterCreatedBy: inSet("created_by"),
	},
}

// GormCashRequestRepository implements finance.CashRequestRepository using GORM
type GormCashRequestRepository struct {
	db *gorm.DB
	// forUpdate locks rows read by FindByID until the transaction ends
	forUpdate bool
}

// NewGormCashRequestRepository creates a new GormCashRequestRepository
func NewGormCashRequestRepository(db *gorm.DB) *GormCashRequestRepository {
	return &GormCashRequestRepository{db: db}
}

// FindByID finds a cash request by its ID
func (r *GormCashRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CashRequest, error) {
	var model models.CashRequestModel
	query := r.db.WithContext(ctx)
	if r.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Count counts cash requests matching the filter
func (r *GormCashRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.CashRequestModel{}), filter, cashRequestList)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Find returns one page of cash requests matching the filter
func (r *GormCashRequestRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.CashRequest, error) {
	var rows []models.CashRequestModel
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.CashRequestModel{}), filter, cashRequestList)
	if err := applyPage(query, filter, cashRequestList).Find(&rows).Error; err != nil {
		return nil, err
	}
	requests := make([]finance.CashRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests, nil
}

// Create inserts a new cash request
func (r *GormCashRequestRepository) Create(ctx context.Context, cr *finance.CashRequest) error {
	return r.db.WithContext(ctx).Create(models.CashRequestModelFromDomain(cr)).Error
}

// Update writes every mutable column of an existing cash request
func (r *GormCashRequestRepository) Update(ctx context.Context, cr *finance.CashRequest) error {
	model := models.CashRequestModelFromDomain(cr)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "created_by").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a cash request
func (r *GormCashRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CashRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
