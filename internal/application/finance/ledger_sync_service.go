package finance

import (
	"context"
	"fmt"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// LedgerSyncResult reports the outcome of one ledger backfill run
type LedgerSyncResult struct {
	Created  int    `json:"created"`
	Message  string `json:"message"`
	UpToDate bool   `json:"up_to_date"`
}

// LedgerSyncService backfills the ledger from completed orders. The diff is
// keyed on the ledger entry's reference id, so running it any number of times
// creates each entry exactly once.
type LedgerSyncService struct {
	orderRepo  trade.OrderRepository
	ledgerRepo finance.LedgerEntryRepository
	logger     *zap.Logger
}

// NewLedgerSyncService creates a new LedgerSyncService
func NewLedgerSyncService(
	orderRepo trade.OrderRepository,
	ledgerRepo finance.LedgerEntryRepository,
	logger *zap.Logger,
) *LedgerSyncService {
	return &LedgerSyncService{
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// SyncFromOrders creates one SALES income entry for every completed order
// that has no ledger entry yet. Entries are dated with the order date, not
// the backfill time, so period reports stay correct.
func (s *LedgerSyncService) SyncFromOrders(ctx context.Context) (*LedgerSyncResult, error) {
	completed, err := s.orderRepo.FindByStatus(ctx, trade.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}

	referenced, err := s.ledgerRepo.FindIncomeReferenceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load referenced order ids: %w", err)
	}

	var entries []*finance.LedgerEntry
	for i := range completed {
		order := &completed[i]
		if _, ok := referenced[order.ID]; ok {
			continue
		}
		entry, err := finance.NewOrderIncomeEntry(
			order.ID,
			order.TotalPrice,
			fmt.Sprintf("Sale %s (%s)", order.ExternalOrderSN, order.BuyerName),
			order.OrderDate,
		)
		if err != nil {
			s.logger.Error("skipping unledgerable order",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return &LedgerSyncResult{
			Created:  0,
			Message:  "Ledger already up to date",
			UpToDate: true,
		}, nil
	}

	if err := s.ledgerRepo.SaveBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save ledger entries: %w", err)
	}

	s.logger.Info("ledger backfilled from completed orders",
		zap.Int("created", len(entries)),
	)

	return &LedgerSyncResult{
		Created: len(entries),
		Message: fmt.Sprintf("Created %d ledger entries", len(entries)),
	}, nil
}
