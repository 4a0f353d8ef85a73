package finance

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies the ledger side
type LedgerEntryType string

const (
	LedgerEntryTypeIncome  LedgerEntryType = "INCOME"
	LedgerEntryTypeExpense LedgerEntryType = "EXPENSE"
)

// IsValid returns true if the type is a valid LedgerEntryType
func (t LedgerEntryType) IsValid() bool {
	return t == LedgerEntryTypeIncome || t == LedgerEntryTypeExpense
}

// LedgerCategory groups ledger entries for reporting
type LedgerCategory string

const (
	LedgerCategorySales       LedgerCategory = "SALES"
	LedgerCategoryRestock     LedgerCategory = "RESTOCK"
	LedgerCategoryOperational LedgerCategory = "OPERATIONAL"
	LedgerCategoryOther       LedgerCategory = "OTHER"
)

// LedgerEntry is one row in the financial ledger. Income entries created by
// the ledger synchronizer carry the source order id in ReferenceID, which has
// a unique index so the backfill can never double-book an order even under
// concurrent runs.
type LedgerEntry struct {
	shared.BaseAggregateRoot
	Type        LedgerEntryType `gorm:"type:varchar(20);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:text"`
	Category    LedgerCategory  `gorm:"type:varchar(30);not null;default:'OTHER'"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_ledger_entries_reference_id"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates a manual ledger entry
func NewLedgerEntry(entryType LedgerEntryType, amount decimal.Decimal, description string, category LedgerCategory) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown ledger entry type: "+string(entryType))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Ledger amount cannot be negative")
	}
	if category == "" {
		category = LedgerCategoryOther
	}

	return &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              entryType,
		Amount:            amount,
		Description:       description,
		Category:          category,
	}, nil
}

// NewOrderIncomeEntry creates the income entry backfilled for a completed
// order. CreatedAt is set to the order date, not the sync time, so the
// ledger keeps its chronological ordering.
func NewOrderIncomeEntry(orderID uuid.UUID, amount decimal.Decimal, description string, orderDate time.Time) (*LedgerEntry, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order reference cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Ledger amount cannot be negative")
	}

	entry := &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              LedgerEntryTypeIncome,
		Amount:            amount,
		Description:       description,
		Category:          LedgerCategorySales,
		ReferenceID:       &orderID,
	}
	if !orderDate.IsZero() {
		entry.CreatedAt = orderDate
	}

	return entry, nil
}
