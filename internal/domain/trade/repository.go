package trade

import (
	"context"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter defines filter criteria for order list queries
type OrderFilter struct {
	Status    *OrderStatus
	BuyerName string
	Search    string
	Page      int
	PageSize  int
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByExternalOrderSN finds an order by its marketplace order number.
	// The lookup is exact and case-sensitive: order numbers are opaque codes.
	FindByExternalOrderSN(ctx context.Context, orderSN string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// FindByStatus finds all orders with the given status
	FindByStatus(ctx context.Context, status OrderStatus) ([]Order, error)

	// FindUnmatched finds orders without a product reference, oldest first
	FindUnmatched(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByBuyer finds all orders for a buyer display name
	FindByBuyer(ctx context.Context, buyerName string) ([]Order, error)

	// Save creates or updates an order. Inserting a duplicate
	// ExternalOrderSN returns shared.ErrAlreadyExists.
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its refill events
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)
}
