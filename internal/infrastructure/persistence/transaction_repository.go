package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var transaction finance.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &transaction, nil
}

// FindAll finds all transactions matching the filter, newest first
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Transaction{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var transactions []finance.Transaction
	if err := query.Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// ExistsByOrder reports whether any transaction references the order
func (r *GormTransactionRepository) ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.Transaction{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a transaction. The unique index on order_id turns
// a concurrent double-insert for the same order into shared.ErrAlreadyExists.
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *finance.Transaction) error {
	return translateError(r.db.WithContext(ctx).Save(transaction).Error)
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Transaction{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByType sums amounts per transaction type
func (r *GormTransactionRepository) SumByType(ctx context.Context) (map[finance.TransactionType]decimal.Decimal, error) {
	var rows []struct {
		Type  finance.TransactionType
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&finance.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[finance.TransactionType]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Type] = row.Total
	}
	return sums, nil
}

// applyFilter applies transaction filter criteria without pagination
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
