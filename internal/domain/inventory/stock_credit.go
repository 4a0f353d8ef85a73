package inventory

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockCreditStatus represents the lifecycle of a credit code
type StockCreditStatus string

const (
	StockCreditAvailable StockCreditStatus = "AVAILABLE"
	StockCreditSold      StockCreditStatus = "SOLD"
)

// IsValid returns true if the status is a valid StockCreditStatus
func (s StockCreditStatus) IsValid() bool {
	switch s {
	case StockCreditAvailable, StockCreditSold:
		return true
	default:
		return false
	}
}

// StockCredit is one redeemable credit/top-up code
type StockCredit struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Code      string            `gorm:"type:varchar(200);not null"`
	Status    StockCreditStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
}

// TableName returns the table name for GORM
func (StockCredit) TableName() string {
	return "stock_credits"
}

// NewStockCredit creates an available credit code
func NewStockCredit(productID uuid.UUID, amount decimal.Decimal, code string) (*StockCredit, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Stock credit requires a product")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Credit code cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount cannot be negative")
	}

	credit := &StockCredit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Amount:            amount,
		Code:              code,
		Status:            StockCreditAvailable,
	}

	credit.AddDomainEvent(NewStockReplenishedEvent(credit.ID, productID, StockKindCredit))

	return credit, nil
}

// MarkSold consumes the credit code
func (c *StockCredit) MarkSold() error {
	if c.Status == StockCreditSold {
		return shared.NewDomainError("ALREADY_SOLD", "Credit code has already been sold")
	}

	c.Status = StockCreditSold
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewStockSoldEvent(c.ID, c.ProductID, StockKindCredit, ""))

	return nil
}

// IsAvailable returns true if the code can be sold
func (c *StockCredit) IsAvailable() bool {
	return c.Status == StockCreditAvailable
}
