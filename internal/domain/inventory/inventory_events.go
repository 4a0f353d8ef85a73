package inventory

import (
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockKind distinguishes the two stock tables in events
type StockKind string

const (
	StockKindAccount StockKind = "account"
	StockKindCredit  StockKind = "credit"
)

// Aggregate type constants
const (
	AggregateTypeStockAccount = "StockAccount"
	AggregateTypeStockCredit  = "StockCredit"
)

// Event type constants
const (
	EventTypeStockReplenished = "StockReplenished"
	EventTypeStockSold        = "StockSold"
)

// StockReplenishedEvent is published when new stock enters inventory
type StockReplenishedEvent struct {
	shared.BaseDomainEvent
	StockID   uuid.UUID `json:"stock_id"`
	ProductID uuid.UUID `json:"product_id"`
	Kind      StockKind `json:"kind"`
}

// NewStockReplenishedEvent creates a new StockReplenishedEvent
func NewStockReplenishedEvent(stockID, productID uuid.UUID, kind StockKind) *StockReplenishedEvent {
	aggType := AggregateTypeStockAccount
	if kind == StockKindCredit {
		aggType = AggregateTypeStockCredit
	}
	return &StockReplenishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReplenished, aggType, stockID),
		StockID:         stockID,
		ProductID:       productID,
		Kind:            kind,
	}
}

// StockSoldEvent is published when a stock row is assigned to a buyer
type StockSoldEvent struct {
	shared.BaseDomainEvent
	StockID   uuid.UUID `json:"stock_id"`
	ProductID uuid.UUID `json:"product_id"`
	Kind      StockKind `json:"kind"`
	BuyerName string    `json:"buyer_name,omitempty"`
}

// NewStockSoldEvent creates a new StockSoldEvent
func NewStockSoldEvent(stockID, productID uuid.UUID, kind StockKind, buyerName string) *StockSoldEvent {
	aggType := AggregateTypeStockAccount
	if kind == StockKindCredit {
		aggType = AggregateTypeStockCredit
	}
	return &StockSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockSold, aggType, stockID),
		StockID:         stockID,
		ProductID:       productID,
		Kind:            kind,
		BuyerName:       buyerName,
	}
}
