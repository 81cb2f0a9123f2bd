package persistence

import (
	"context"
	"errors"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var expenseList = listSpec{
	sortFields:  ExpenseSortFields,
	defaultSort: "created_at",
	search:      []string{"category"},
	facets: map[string]facetFunc{
		finance.FilterVerified:  boolSet("verified"),
		finance.FilterCreatedBy: inSet("created_by"),
	},
}

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter, expenseList)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Find returns one page of expenses matching the filter
func (r *GormExpenseRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.Expense, error) {
	var rows []models.ExpenseModel
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), filter, expenseList)
	if err := applyPage(query, filter, expenseList).Find(&rows).Error; err != nil {
		return nil, err
	}
	expenses := make([]finance.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, nil
}

// Create inserts a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, e *finance.Expense) error {
	return r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(e)).Error
}

// Update writes every mutable column of an existing expense
func (r *GormExpenseRepository) Update(ctx context.Context, e *finance.Expense) error {
	model := models.ExpenseModelFromDomain(e)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "created_by").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
