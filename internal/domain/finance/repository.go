package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filter criteria for transaction queries
type TransactionFilter struct {
	Type     *TransactionType
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// TransactionRepository defines the interface for transaction persistence
type TransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll finds all transactions matching the filter
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// ExistsByOrder reports whether any transaction references the order.
	// This is the completion side effect's at-most-once guard.
	ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Save creates or updates a transaction. Inserting a second transaction
	// for the same order returns shared.ErrAlreadyExists.
	Save(ctx context.Context, transaction *Transaction) error

	// Delete deletes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// SumByType sums amounts per transaction type
	SumByType(ctx context.Context) (map[TransactionType]decimal.Decimal, error)
}

// LedgerEntryFilter defines filter criteria for ledger queries
type LedgerEntryFilter struct {
	Type     *LedgerEntryType
	Category *LedgerCategory
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// LedgerEntryRepository defines the interface for ledger persistence
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindAll finds all ledger entries matching the filter
	FindAll(ctx context.Context, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// FindIncomeReferenceIDs returns the set of order ids already referenced
	// by income entries. The ledger synchronizer diffs completed orders
	// against this set.
	FindIncomeReferenceIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)

	// Save creates or updates a ledger entry. Inserting a second entry for
	// the same reference id returns shared.ErrAlreadyExists.
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveBatch inserts multiple ledger entries
	SaveBatch(ctx context.Context, entries []*LedgerEntry) error

	// Delete deletes a ledger entry
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts ledger entries matching the filter
	Count(ctx context.Context, filter LedgerEntryFilter) (int64, error)

	// SumByType sums amounts per ledger entry type
	SumByType(ctx context.Context) (map[LedgerEntryType]decimal.Decimal, error)
}
