package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderCompletedHandler records an income transaction whenever an order
// reaches COMPLETED. It subscribes to OrderCompletedEvent, so it fires for
// manual status edits and for sync-pipeline transitions alike.
type OrderCompletedHandler struct {
	transactionRepo finance.TransactionRepository
	logger          *zap.Logger
}

// NewOrderCompletedHandler creates a new handler for order completed events
func NewOrderCompletedHandler(
	transactionRepo finance.TransactionRepository,
	logger *zap.Logger,
) *OrderCompletedHandler {
	return &OrderCompletedHandler{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCompletedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderCompleted}
}

// Handle processes an OrderCompletedEvent by recording an income transaction.
// At-most-once per order: re-delivery of the same event is a no-op.
func (h *OrderCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completedEvent, ok := event.(*trade.OrderCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypeOrderCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderCompleted, event.EventType())
	}

	// Idempotency check: one income transaction per order, ever
	exists, err := h.transactionRepo.ExistsByOrder(ctx, completedEvent.OrderID)
	if err != nil {
		h.logger.Error("failed to check existing transaction",
			zap.String("order_id", completedEvent.OrderID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to check existing transaction: %w", err)
	}
	if exists {
		h.logger.Warn("income transaction already exists for order, skipping",
			zap.String("order_id", completedEvent.OrderID.String()),
			zap.String("order_sn", completedEvent.ExternalOrderSN),
		)
		return nil
	}

	transaction, err := finance.NewOrderTransaction(
		completedEvent.OrderID,
		finance.TransactionTypeIncome,
		completedEvent.TotalPrice,
		fmt.Sprintf("Order %s completed (%s)", completedEvent.ExternalOrderSN, completedEvent.BuyerName),
	)
	if err != nil {
		return fmt.Errorf("failed to create income transaction: %w", err)
	}

	if err := h.transactionRepo.Save(ctx, transaction); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Two deliveries raced past the existence check; the unique index
			// on order_id kept the store correct.
			h.logger.Warn("duplicate income transaction rejected by unique index",
				zap.String("order_id", completedEvent.OrderID.String()),
			)
			return nil
		}
		h.logger.Error("failed to save income transaction",
			zap.String("order_id", completedEvent.OrderID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save income transaction: %w", err)
	}

	h.logger.Info("income transaction recorded",
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("order_id", completedEvent.OrderID.String()),
		zap.String("order_sn", completedEvent.ExternalOrderSN),
		zap.String("amount", completedEvent.TotalPrice.String()),
	)

	return nil
}

// Ensure OrderCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderCompletedHandler)(nil)
