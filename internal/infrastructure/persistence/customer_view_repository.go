package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/application/crm"
	"github.com/digiprime/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormCustomerViewRepository aggregates the CRM customer list straight out of
// the orders table. There is no customer entity: buyers exist only as the
// display names on their orders.
type GormCustomerViewRepository struct {
	db *gorm.DB
}

// NewGormCustomerViewRepository creates a new GormCustomerViewRepository
func NewGormCustomerViewRepository(db *gorm.DB) *GormCustomerViewRepository {
	return &GormCustomerViewRepository{db: db}
}

// FindCustomers groups orders by buyer name, newest activity first
func (r *GormCustomerViewRepository) FindCustomers(ctx context.Context, filter crm.CustomerListFilter) ([]crm.CustomerSummary, int64, error) {
	base := r.db.WithContext(ctx).Model(&trade.Order{})
	if filter.Search != "" {
		base = base.Where("buyer_name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).
		Distinct("buyer_name").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	var summaries []crm.CustomerSummary
	if err := base.Session(&gorm.Session{}).
		Select(
			"buyer_name, "+
				"COUNT(*) AS total_orders, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN total_price ELSE 0 END), 0) AS total_spent, "+
				"MIN(order_date) AS first_order_date, "+
				"MAX(order_date) AS last_order_date",
			trade.OrderStatusCompleted, trade.OrderStatusCompleted,
		).
		Group("buyer_name").
		Order("last_order_date DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Scan(&summaries).Error; err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// Ensure GormCustomerViewRepository implements CustomerViewRepository
var _ crm.CustomerViewRepository = (*GormCustomerViewRepository)(nil)
