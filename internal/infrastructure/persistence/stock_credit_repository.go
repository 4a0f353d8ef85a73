package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockCreditRepository implements StockCreditRepository using GORM
type GormStockCreditRepository struct {
	db *gorm.DB
}

// NewGormStockCreditRepository creates a new GormStockCreditRepository
func NewGormStockCreditRepository(db *gorm.DB) *GormStockCreditRepository {
	return &GormStockCreditRepository{db: db}
}

// FindByID finds a stock credit by its ID
func (r *GormStockCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCredit, error) {
	var credit inventory.StockCredit
	if err := r.db.WithContext(ctx).First(&credit, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &credit, nil
}

// FindByProduct finds stock credits for a product, optionally filtered by status
func (r *GormStockCreditRepository) FindByProduct(ctx context.Context, productID uuid.UUID, status *inventory.StockCreditStatus) ([]inventory.StockCredit, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var credits []inventory.StockCredit
	if err := query.Order("created_at ASC").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// FindFirstAvailable finds the oldest available credit for a product
func (r *GormStockCreditRepository) FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*inventory.StockCredit, error) {
	var credit inventory.StockCredit
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, inventory.StockCreditAvailable).
		Order("created_at ASC").
		First(&credit).Error; err != nil {
		return nil, translateError(err)
	}
	return &credit, nil
}

// FindAll finds all stock credits matching the filter
func (r *GormStockCreditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockCredit, error) {
	var credits []inventory.StockCredit
	query := applyStockFilter(r.db.WithContext(ctx).Model(&inventory.StockCredit{}), filter)

	if err := query.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Save creates or updates a stock credit
func (r *GormStockCreditRepository) Save(ctx context.Context, credit *inventory.StockCredit) error {
	return translateError(r.db.WithContext(ctx).Save(credit).Error)
}

// SaveBatch creates multiple stock credits
func (r *GormStockCreditRepository) SaveBatch(ctx context.Context, credits []*inventory.StockCredit) error {
	if len(credits) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(credits).Error)
}

// Delete deletes a stock credit
func (r *GormStockCreditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockCredit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAvailable counts available credits for a product
func (r *GormStockCreditRepository) CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockCredit{}).
		Where("product_id = ? AND status = ?", productID, inventory.StockCreditAvailable).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockCreditRepository implements StockCreditRepository
var _ inventory.StockCreditRepository = (*GormStockCreditRepository)(nil)
