package handler

import (
	financeapp "github.com/digiprime/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler handles transaction and ledger API endpoints
type FinanceHandler struct {
	BaseHandler
	financeService    *financeapp.FinanceService
	ledgerSyncService *financeapp.LedgerSyncService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService, ledgerSyncService *financeapp.LedgerSyncService) *FinanceHandler {
	return &FinanceHandler{
		financeService:    financeService,
		ledgerSyncService: ledgerSyncService,
	}
}

// CreateTransaction handles POST /finance/transactions
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req financeapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transaction, err := h.financeService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transaction)
}

// GetTransaction handles GET /finance/transactions/:id
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.financeService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transaction)
}

// ListTransactions handles GET /finance/transactions
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	var filter financeapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.financeService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeleteTransaction handles DELETE /finance/transactions/:id
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.financeService.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateLedgerEntry handles POST /finance/ledger
func (h *FinanceHandler) CreateLedgerEntry(c *gin.Context) {
	var req financeapp.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.financeService.CreateLedgerEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListLedgerEntries handles GET /finance/ledger
func (h *FinanceHandler) ListLedgerEntries(c *gin.Context) {
	var filter financeapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.financeService.ListLedgerEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeleteLedgerEntry handles DELETE /finance/ledger/:id
func (h *FinanceHandler) DeleteLedgerEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid ledger entry ID")
		return
	}

	if err := h.financeService.DeleteLedgerEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSummary handles GET /finance/summary
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.GetSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SyncLedgerFromOrders handles POST /finance/ledger/sync-orders.
// It backfills one income entry per completed order that has none yet;
// running it twice is a no-op.
func (h *FinanceHandler) SyncLedgerFromOrders(c *gin.Context) {
	result, err := h.ledgerSyncService.SyncFromOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
