package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/shared"
	syncdomain "github.com/digiprime/backend/internal/domain/sync"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconcileService ingests scraped marketplace order batches. Records are
// processed one at a time; a fault in one record never aborts the rest of
// the batch.
type ReconcileService struct {
	orderRepo   trade.OrderRepository
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// SyncBatch reconciles every record of one scraped batch against the order
// store and returns aggregate counters. Only a setup fault (the active
// catalog cannot be read) fails the batch as a whole; per-record faults are
// folded into the stats.
func (s *ReconcileService) SyncBatch(ctx context.Context, externalOrders []syncdomain.ExternalOrder) (*syncdomain.BatchStats, error) {
	catalogSnapshot, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active catalog: %w", err)
	}

	stats := &syncdomain.BatchStats{Errors: []string{}}
	for i := range externalOrders {
		result := s.reconcile(ctx, externalOrders[i], catalogSnapshot)
		stats.Add(result)
	}

	s.logger.Info("sync batch reconciled",
		zap.Int("records", len(externalOrders)),
		zap.Int("synced", stats.Synced),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

// ListUnmatched returns synced orders still waiting for a manual product
// assignment, oldest first
func (s *ReconcileService) ListUnmatched(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	return s.orderRepo.FindUnmatched(ctx, filter)
}

// reconcile handles a single external record: dedup by order number, refresh
// the status of a known order, or insert a new one.
func (s *ReconcileService) reconcile(
	ctx context.Context,
	ext syncdomain.ExternalOrder,
	catalogSnapshot []catalog.Product,
) syncdomain.RecordResult {
	// Malformed scrape rows are expected and cheap to ignore
	if ext.OrderSN == "" || ext.BuyerName == "" {
		return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSkipped}
	}

	existing, err := s.orderRepo.FindByExternalOrderSN(ctx, ext.OrderSN)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return s.failed(ext.OrderSN, fmt.Errorf("lookup failed: %w", err))
	}

	mappedStatus := syncdomain.MapExternalStatus(ext.OrderStatus)

	if existing != nil {
		return s.refreshStatus(ctx, existing, mappedStatus)
	}
	return s.insertNew(ctx, ext, mappedStatus, catalogSnapshot)
}

// refreshStatus updates only the status of a known order. Everything else on
// the row may have been touched by an operator and must survive re-syncs.
func (s *ReconcileService) refreshStatus(ctx context.Context, order *trade.Order, mappedStatus trade.OrderStatus) syncdomain.RecordResult {
	if mappedStatus == order.Status {
		return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSynced}
	}

	if err := order.TransitionTo(mappedStatus); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_STATE" {
			// A scrape reporting an earlier status for a terminal order is
			// stale data, not a fault; the stored state wins.
			s.logger.Warn("ignoring stale status from scrape",
				zap.String("order_sn", order.ExternalOrderSN),
				zap.String("stored", order.Status.String()),
				zap.String("scraped", mappedStatus.String()),
			)
			return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSynced}
		}
		return s.failed(order.ExternalOrderSN, err)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return s.failed(order.ExternalOrderSN, fmt.Errorf("status update failed: %w", err))
	}
	s.publishEvents(ctx, order)

	return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSynced}
}

// insertNew creates an order from a scraped record. An unmatched item name
// leaves the product reference nil; the order then shows up in the
// needs-mapping queue instead of being guessed onto the wrong product.
func (s *ReconcileService) insertNew(
	ctx context.Context,
	ext syncdomain.ExternalOrder,
	mappedStatus trade.OrderStatus,
	catalogSnapshot []catalog.Product,
) syncdomain.RecordResult {
	productID := syncdomain.MatchProduct(ext.ItemName, catalogSnapshot)
	if productID == nil && ext.ItemName != "" {
		s.logger.Info("no catalog match for scraped item",
			zap.String("order_sn", ext.OrderSN),
			zap.String("item_name", ext.ItemName),
		)
	}

	totalPrice := decimal.NewFromFloat(ext.TotalAmount)
	if totalPrice.IsNegative() {
		totalPrice = decimal.Zero
	}

	var orderDate time.Time
	if ext.CreateTime > 0 {
		orderDate = time.Unix(ext.CreateTime, 0)
	}

	order, err := trade.NewOrder(
		ext.OrderSN, ext.BuyerName,
		productID,
		totalPrice, ext.Quantity,
		mappedStatus,
		orderDate,
		trade.OrderSourceSync,
	)
	if err != nil {
		return s.failed(ext.OrderSN, err)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost a race against a concurrent sync of the same order
			// number; the row exists, which is all this record wanted.
			s.logger.Warn("duplicate insert resolved by unique index",
				zap.String("order_sn", ext.OrderSN),
			)
			return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSynced}
		}
		return s.failed(ext.OrderSN, fmt.Errorf("insert failed: %w", err))
	}
	s.publishEvents(ctx, order)

	return syncdomain.RecordResult{Outcome: syncdomain.OutcomeSynced}
}

func (s *ReconcileService) failed(orderSN string, err error) syncdomain.RecordResult {
	s.logger.Error("record reconciliation failed",
		zap.String("order_sn", orderSN),
		zap.Error(err),
	)
	return syncdomain.RecordResult{
		Outcome: syncdomain.OutcomeFailed,
		Error:   fmt.Sprintf("%s: %s", orderSN, err.Error()),
	}
}

func (s *ReconcileService) publishEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_sn", order.ExternalOrderSN),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
