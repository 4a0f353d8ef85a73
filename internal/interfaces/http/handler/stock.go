package handler

import (
	inventoryapp "github.com/digiprime/backend/internal/application/inventory"
	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles account and credit stock API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// SellRequest represents a request to dispatch one stock unit to a buyer
type SellRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	BuyerName string    `json:"buyer_name"`
}

// stockListQuery holds common stock list query parameters
type stockListQuery struct {
	ProductID string `form:"product_id" binding:"required,uuid"`
	Status    string `form:"status"`
}

// AddAccounts handles POST /stock/accounts
func (h *StockHandler) AddAccounts(c *gin.Context) {
	var req inventoryapp.AddAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	accounts, err := h.stockService.AddAccounts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, accounts)
}

// ListAccounts handles GET /stock/accounts
func (h *StockHandler) ListAccounts(c *gin.Context) {
	var query stockListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	productID, _ := uuid.Parse(query.ProductID)

	var status *inventory.StockAccountStatus
	if query.Status != "" {
		s := inventory.StockAccountStatus(query.Status)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown stock status: "+query.Status)
			return
		}
		status = &s
	}

	accounts, err := h.stockService.ListAccounts(c.Request.Context(), productID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// SellAccount handles POST /stock/accounts/sell
func (h *StockHandler) SellAccount(c *gin.Context) {
	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.stockService.SellAccount(c.Request.Context(), req.ProductID, req.BuyerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ReserveAccount handles POST /stock/accounts/:id/reserve
func (h *StockHandler) ReserveAccount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock ID")
		return
	}

	account, err := h.stockService.ReserveAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ReleaseAccount handles POST /stock/accounts/:id/release
func (h *StockHandler) ReleaseAccount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock ID")
		return
	}

	account, err := h.stockService.ReleaseAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount handles DELETE /stock/accounts/:id
func (h *StockHandler) DeleteAccount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock ID")
		return
	}

	if err := h.stockService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddCredits handles POST /stock/credits
func (h *StockHandler) AddCredits(c *gin.Context) {
	var req inventoryapp.AddCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	credits, err := h.stockService.AddCredits(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, credits)
}

// ListCredits handles GET /stock/credits
func (h *StockHandler) ListCredits(c *gin.Context) {
	var query stockListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	productID, _ := uuid.Parse(query.ProductID)

	var status *inventory.StockCreditStatus
	if query.Status != "" {
		s := inventory.StockCreditStatus(query.Status)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown stock status: "+query.Status)
			return
		}
		status = &s
	}

	credits, err := h.stockService.ListCredits(c.Request.Context(), productID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credits)
}

// SellCredit handles POST /stock/credits/sell
func (h *StockHandler) SellCredit(c *gin.Context) {
	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	credit, err := h.stockService.SellCredit(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}

// DeleteCredit handles DELETE /stock/credits/:id
func (h *StockHandler) DeleteCredit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock ID")
		return
	}

	if err := h.stockService.DeleteCredit(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
