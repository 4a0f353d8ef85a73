package trade

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCompleted     = "OrderCompleted"
	EventTypeOrderCancelled     = "OrderCancelled"
)

// OrderCreatedEvent is published when an order enters the system
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID   `json:"order_id"`
	ExternalOrderSN string      `json:"external_order_sn"`
	BuyerName       string      `json:"buyer_name"`
	Status          OrderStatus `json:"status"`
	Source          OrderSource `json:"source"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ExternalOrderSN: order.ExternalOrderSN,
		BuyerName:       order.BuyerName,
		Status:          order.Status,
		Source:          order.Source,
	}
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID   `json:"order_id"`
	ExternalOrderSN string      `json:"external_order_sn"`
	OldStatus       OrderStatus `json:"old_status"`
	NewStatus       OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ExternalOrderSN: order.ExternalOrderSN,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderCompletedEvent is published when an order reaches COMPLETED,
// regardless of whether the transition came from a manual edit or the sync
// pipeline. The finance income side effect subscribes to this event.
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	ExternalOrderSN string          `json:"external_order_sn"`
	BuyerName       string          `json:"buyer_name"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	OrderDate       time.Time       `json:"order_date"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ExternalOrderSN: order.ExternalOrderSN,
		BuyerName:       order.BuyerName,
		TotalPrice:      order.TotalPrice,
		OrderDate:       order.OrderDate,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID `json:"order_id"`
	ExternalOrderSN string    `json:"external_order_sn"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ExternalOrderSN: order.ExternalOrderSN,
	}
}
