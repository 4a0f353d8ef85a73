package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockAccountRepository implements StockAccountRepository using GORM
type GormStockAccountRepository struct {
	db *gorm.DB
}

// NewGormStockAccountRepository creates a new GormStockAccountRepository
func NewGormStockAccountRepository(db *gorm.DB) *GormStockAccountRepository {
	return &GormStockAccountRepository{db: db}
}

// FindByID finds a stock account by its ID
func (r *GormStockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAccount, error) {
	var account inventory.StockAccount
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByProduct finds stock accounts for a product, optionally filtered by status
func (r *GormStockAccountRepository) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.StockAccountStatus) ([]inventory.StockAccount, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var accounts []inventory.StockAccount
	if err := query.Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindFirstAvailable finds the oldest available account for a product.
// FIFO dispatch: stock is handed out in the order it was loaded.
func (r *GormStockAccountRepository) FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*inventory.StockAccount, error) {
	var account inventory.StockAccount
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, inventory.StockAccountAvailable).
		Order("created_at ASC").
		First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindAll finds all stock accounts matching the filter
func (r *GormStockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockAccount, error) {
	var accounts []inventory.StockAccount
	query := applyStockFilter(r.db.WithContext(ctx).Model(&inventory.StockAccount{}), filter)

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates a stock account
func (r *GormStockAccountRepository) Save(ctx context.Context, account *inventory.StockAccount) error {
	return translateError(r.db.WithContext(ctx).Save(account).Error)
}

// SaveBatch creates multiple stock accounts
func (r *GormStockAccountRepository) SaveBatch(ctx context.Context, accounts []*inventory.StockAccount) error {
	if len(accounts) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(accounts).Error)
}

// Delete deletes a stock account
func (r *GormStockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockAccount{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAvailable counts available accounts for a product
func (r *GormStockAccountRepository) CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockAccount{}).
		Where("product_id = ? AND status = ?", productID, inventory.StockAccountAvailable).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyStockFilter applies shared filter options to a stock query. Both stock
// tables share the product_id/status shape so the helper serves accounts and
// credits alike.
func applyStockFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order("created_at ASC")
}

// Ensure GormStockAccountRepository implements StockAccountRepository
var _ inventory.StockAccountRepository = (*GormStockAccountRepository)(nil)
