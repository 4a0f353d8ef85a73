package trade

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the internal order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that end the order lifecycle
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// OrderSource records how the order entered the system
type OrderSource string

const (
	OrderSourceManual OrderSource = "manual"
	OrderSourceSync   OrderSource = "sync"
)

// Order is the canonical internal order. Marketplace orders are deduplicated
// against it by ExternalOrderSN, which carries a unique index so a concurrent
// double-insert surfaces as a duplicate-key error instead of a silent
// duplicate row.
type Order struct {
	shared.BaseAggregateRoot
	ExternalOrderSN string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_external_sn"`
	BuyerName       string          `gorm:"type:varchar(200);not null;index"`
	BuyerMeta       BuyerMeta       `gorm:"type:jsonb"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"` // nil until matched or manually mapped
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity        int             `gorm:"not null;default:1"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Source          OrderSource     `gorm:"type:varchar(20);not null;default:'manual'"`
	OrderDate       time.Time       `gorm:"not null;index"` // marketplace order time, not row creation time
	RefillEvents    []RefillEvent   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order. If the initial status is already COMPLETED
// (a scraped order can arrive in its final state) the completion event is
// emitted immediately so the income side effect fires exactly as it would
// for a later transition.
func NewOrder(
	externalOrderSN, buyerName string,
	productID *uuid.UUID,
	totalPrice decimal.Decimal,
	quantity int,
	status OrderStatus,
	orderDate time.Time,
	source OrderSource,
) (*Order, error) {
	if externalOrderSN == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_SN", "External order number cannot be empty")
	}
	if buyerName == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer name cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}
	if quantity < 1 {
		quantity = 1
	}
	if totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Total price cannot be negative")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExternalOrderSN:   externalOrderSN,
		BuyerName:         buyerName,
		BuyerMeta:         StandardBuyerMeta(),
		ProductID:         productID,
		TotalPrice:        totalPrice,
		Quantity:          quantity,
		Status:            status,
		OrderDate:         orderDate,
		Source:            source,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))
	if status == OrderStatusCompleted {
		order.AddDomainEvent(NewOrderCompletedEvent(order))
	}

	return order, nil
}

// TransitionTo moves the order to the given status. This is the single
// status-transition path for both manual edits and the sync pipeline, so the
// completion side effect cannot be bypassed. Setting the current status again
// is a no-op. Leaving a terminal status is rejected.
func (o *Order) TransitionTo(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}
	if status == o.Status {
		return nil
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Order is already "+string(o.Status)+" and cannot transition to "+string(status))
	}

	oldStatus := o.Status
	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, status))
	switch status {
	case OrderStatusCompleted:
		o.AddDomainEvent(NewOrderCompletedEvent(o))
	case OrderStatusCancelled:
		o.AddDomainEvent(NewOrderCancelledEvent(o))
	}

	return nil
}

// AssignProduct resolves the needs-mapping state by attaching a product
func (o *Order) AssignProduct(productID uuid.UUID) {
	o.ProductID = &productID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetBuyerMeta replaces the structured buyer metadata
func (o *Order) SetBuyerMeta(meta BuyerMeta) error {
	if err := meta.Validate(); err != nil {
		return err
	}
	o.BuyerMeta = meta
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// UpdateDetails updates the manually editable fields. The sync pipeline never
// calls this: reconciliation of an existing order touches the status only, so
// operator-entered data is never clobbered by a scrape.
func (o *Order) UpdateDetails(buyerName string, totalPrice decimal.Decimal, quantity int, orderDate time.Time) error {
	if buyerName == "" {
		return shared.NewDomainError("INVALID_BUYER", "Buyer name cannot be empty")
	}
	if totalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Total price cannot be negative")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	o.BuyerName = buyerName
	o.TotalPrice = totalPrice
	o.Quantity = quantity
	if !orderDate.IsZero() {
		o.OrderDate = orderDate
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// AppendRefillEvent appends one event to the order's refill/warranty history
func (o *Order) AppendRefillEvent(event RefillEvent) {
	event.OrderID = o.ID
	if event.Date.IsZero() {
		event.Date = time.Now()
	}
	o.RefillEvents = append(o.RefillEvents, event)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// NeedsMapping reports whether the order is waiting for a manual product
// assignment
func (o *Order) NeedsMapping() bool {
	return o.ProductID == nil
}

// IsCompleted returns true if the order reached COMPLETED
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}
