package inventory

import (
	"context"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockAccountRepository defines the interface for account stock persistence
type StockAccountRepository interface {
	// FindByID finds a stock account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAccount, error)

	// FindByProduct finds stock accounts for a product, optionally filtered
	// by status
	FindByProduct(ctx context.Context, productID uuid.UUID, status *StockAccountStatus) ([]StockAccount, error)

	// FindFirstAvailable finds the oldest available account for a product
	FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*StockAccount, error)

	// FindAll finds all stock accounts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockAccount, error)

	// Save creates or updates a stock account
	Save(ctx context.Context, account *StockAccount) error

	// SaveBatch creates multiple stock accounts
	SaveBatch(ctx context.Context, accounts []*StockAccount) error

	// Delete deletes a stock account
	Delete(ctx context.Context, id uuid.UUID) error

	// CountAvailable counts available accounts for a product
	CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error)
}

// StockCreditRepository defines the interface for credit stock persistence
type StockCreditRepository interface {
	// FindByID finds a stock credit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockCredit, error)

	// FindByProduct finds stock credits for a product, optionally filtered
	// by status
	FindByProduct(ctx context.Context, productID uuid.UUID, status *StockCreditStatus) ([]StockCredit, error)

	// FindFirstAvailable finds the oldest available credit for a product
	FindFirstAvailable(ctx context.Context, productID uuid.UUID) (*StockCredit, error)

	// FindAll finds all stock credits matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockCredit, error)

	// Save creates or updates a stock credit
	Save(ctx context.Context, credit *StockCredit) error

	// SaveBatch creates multiple stock credits
	SaveBatch(ctx context.Context, credits []*StockCredit) error

	// Delete deletes a stock credit
	Delete(ctx context.Context, id uuid.UUID) error

	// CountAvailable counts available credits for a product
	CountAvailable(ctx context.Context, productID uuid.UUID) (int64, error)
}
