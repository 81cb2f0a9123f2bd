package persistence

import (
	"context"
	"errors"

	"github.com/findash/backend/internal/domain/finance"
	"github.com/findash/backend/internal/domain/shared"
	"github.com/findash/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var budgetList = listSpec{
	sortFields:  BudgetSortFields,
	defaultSort: "created_at",
	search:      []string{"department", "period"},
	facets: map[string]facetFunc{
		finance.FilterStatus:     inSet("status"),
		finance.FilterDepartment: inSet("department"),
		finance.FilterCreatedBy:  inSet("created_by"),
	},
}

// GormBudgetRepository implements finance.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
	// forUpdate locks rows read by FindByID until the transaction ends
	forUpdate bool
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Budget, error) {
	var model models.BudgetModel
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

// Count counts budgets matching the filter
func (r *GormBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.BudgetModel{}), filter, budgetList)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Find returns one page of budgets matching the filter
func (r *GormBudgetRepository) Find(ctx context.Context, filter shared.Filter) ([]finance.Budget, error) {
	var rows []models.BudgetModel
	query := applyPredicate(r.db.WithContext(ctx).Model(&models.BudgetModel{}), filter, budgetList)
	if err := applyPage(query, filter, budgetList).Find(&rows).Error; err != nil {
		return nil, err
	}
	budgets := make([]finance.Budget, len(rows))
	for i := range rows {
		budgets[i] = *rows[i].ToDomain()
	}
	return budgets, nil
}

// Create inserts a new budget
func (r *GormBudgetRepository) Create(ctx context.Context, budget *finance.Budget) error {
	return r.db.WithContext(ctx).Create(models.BudgetModelFromDomain(budget)).Error
}

// Update writes every mutable column of an existing budget
func (r *GormBudgetRepository) Update(ctx context.Context, budget *finance.Budget) error {
	model := models.BudgetModelFromDomain(budget)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "created_by").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Totals sums allocations and usage over all budgets
func (r *GormBudgetRepository) Totals(ctx context.Context) (finance.BudgetTotals, error) {
	var row struct {
		Amount decimal.Decimal
		Used   decimal.Decimal
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.BudgetModel{}).
		Select("COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(used), 0) AS used, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return finance.BudgetTotals{}, err
	}
	return finance.BudgetTotals{Amount: row.Amount, Used: row.Used, Count: row.Count}, nil
}
