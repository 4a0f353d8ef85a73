package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("RefillEvents", orderRefillEvents).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByExternalOrderSN finds an order by its marketplace order number
func (r *GormOrderRepository) FindByExternalOrderSN(ctx context.Context, orderSN string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("RefillEvents", orderRefillEvents).
		Where("external_order_sn = ?", orderSN).
		First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var orders []trade.Order
	if err := query.
		Preload("RefillEvents", orderRefillEvents).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds all orders with the given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("order_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindUnmatched finds orders without a product reference, oldest first.
// This backs the needs-mapping queue: operators work it front to back.
func (r *GormOrderRepository) FindUnmatched(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Where("product_id IS NULL")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var orders []trade.Order
	if err := query.Order("order_date ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByBuyer finds all orders for a buyer display name, newest first
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerName string) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Preload("RefillEvents", orderRefillEvents).
		Where("buyer_name = ?", buyerName).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order. A duplicate ExternalOrderSN insert is
// rejected by the unique index and surfaces as shared.ErrAlreadyExists.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error)
}

// Delete deletes an order and its refill events
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite builds don't enforce the CASCADE constraint, so child rows
		// go first.
		if err := tx.Delete(&trade.RefillEvent{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter trade.OrderFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies order filter criteria without pagination
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter trade.OrderFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BuyerName != "" {
		query = query.Where("buyer_name = ?", filter.BuyerName)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("external_order_sn LIKE ? OR buyer_name LIKE ?", pattern, pattern)
	}
	return query
}

// orderRefillEvents keeps preloaded refill events in chronological order
func orderRefillEvents(db *gorm.DB) *gorm.DB {
	return db.Order("order_refill_events.date ASC")
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
