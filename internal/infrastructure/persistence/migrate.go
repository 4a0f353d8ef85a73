package persistence

import (
	"fmt"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all persisted entities.
// The unique indexes it creates back the idempotency guarantees: one order
// per external order number, one income transaction per order, one ledger
// entry per reference id.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockAccount{},
		&inventory.StockCredit{},
		&trade.Order{},
		&trade.RefillEvent{},
		&finance.Transaction{},
		&finance.LedgerEntry{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
