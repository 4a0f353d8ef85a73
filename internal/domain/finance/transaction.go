package finance

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies money movement on a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
	TransactionTypeRefund  TransactionType = "REFUND"
)

// IsValid returns true if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeRefund:
		return true
	default:
		return false
	}
}

// Transaction is one money movement. At most one auto-generated INCOME
// transaction exists per order: the order reference carries a unique index
// and the completion handler checks existence before inserting.
type Transaction struct {
	shared.BaseAggregateRoot
	OrderID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_transactions_order_id"`
	Type        TransactionType `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a transaction without an order reference
func NewTransaction(transactionType TransactionType, amount decimal.Decimal, description string) (*Transaction, error) {
	return newTransaction(nil, transactionType, amount, description)
}

// NewOrderTransaction creates a transaction tied to an order
func NewOrderTransaction(orderID uuid.UUID, transactionType TransactionType, amount decimal.Decimal, description string) (*Transaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order reference cannot be empty")
	}
	return newTransaction(&orderID, transactionType, amount, description)
}

func newTransaction(orderID *uuid.UUID, transactionType TransactionType, amount decimal.Decimal, description string) (*Transaction, error) {
	if !transactionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown transaction type: "+string(transactionType))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}

	return &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Type:              transactionType,
		Amount:            amount,
		Description:       description,
	}, nil
}

// UpdateDescription updates the free-text description
func (t *Transaction) UpdateDescription(description string) {
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
