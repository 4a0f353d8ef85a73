package handler

import (
	"fmt"
	"time"

	syncapp "github.com/digiprime/backend/internal/application/sync"
	tradeapp "github.com/digiprime/backend/internal/application/trade"
	"github.com/digiprime/backend/internal/domain/shared"
	syncdomain "github.com/digiprime/backend/internal/domain/sync"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen batch identity. Scrapers
// retrying a failed upload reuse the key so the batch is not reapplied.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// SyncHandler handles the marketplace order synchronization endpoints
type SyncHandler struct {
	BaseHandler
	reconcileService *syncapp.ReconcileService
	idempotencyStore shared.IdempotencyStore
	maxBatchSize     int
	idempotencyTTL   time.Duration
	logger           *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	reconcileService *syncapp.ReconcileService,
	idempotencyStore shared.IdempotencyStore,
	maxBatchSize int,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *SyncHandler {
	return &SyncHandler{
		reconcileService: reconcileService,
		idempotencyStore: idempotencyStore,
		maxBatchSize:     maxBatchSize,
		idempotencyTTL:   idempotencyTTL,
		logger:           logger,
	}
}

// SyncBatchRequest is the upload payload produced by the scraper scripts
type SyncBatchRequest struct {
	Orders []syncdomain.ExternalOrder `json:"orders" binding:"required"`
}

// SyncBatchResponse is the response body for a sync batch upload
type SyncBatchResponse struct {
	Message string                `json:"message"`
	Stats   *syncdomain.BatchStats `json:"stats,omitempty"`
}

// SyncOrders handles POST /sync/orders. The orders field must be a JSON
// array of scraped order records; anything else is a 400. Per-record
// problems never fail the batch, they are reported in the stats.
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	var req SyncBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Request body must carry an orders array")
		return
	}
	externalOrders := req.Orders

	if h.maxBatchSize > 0 && len(externalOrders) > h.maxBatchSize {
		h.BadRequest(c, fmt.Sprintf("Batch exceeds the maximum of %d records", h.maxBatchSize))
		return
	}

	ctx := c.Request.Context()

	// A replayed batch is acknowledged without touching the store. The
	// dedup of individual records does not depend on this: the unique
	// index on the order number is the real guarantee.
	key := c.GetHeader(IdempotencyKeyHeader)
	if key != "" {
		processed, err := h.idempotencyStore.IsProcessed(ctx, key)
		if err != nil {
			h.logger.Warn("idempotency check failed, processing batch anyway",
				zap.String("key", key),
				zap.Error(err),
			)
		} else if processed {
			h.Success(c, SyncBatchResponse{Message: "Batch already processed"})
			return
		}
	}

	stats, err := h.reconcileService.SyncBatch(ctx, externalOrders)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if key != "" {
		if _, err := h.idempotencyStore.MarkProcessed(ctx, key, h.idempotencyTTL); err != nil {
			h.logger.Warn("failed to record idempotency key",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	h.Success(c, SyncBatchResponse{
		Message: fmt.Sprintf("Processed %d records", len(externalOrders)),
		Stats:   stats,
	})
}

// ListUnmatched handles GET /sync/unmatched: the needs-mapping queue,
// oldest order first.
func (h *SyncHandler) ListUnmatched(c *gin.Context) {
	var query struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	orders, err := h.reconcileService.ListUnmatched(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]*tradeapp.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, tradeapp.ToOrderResponse(&orders[i]))
	}
	h.Success(c, responses)
}
