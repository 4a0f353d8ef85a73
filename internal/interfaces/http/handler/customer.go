package handler

import (
	crmapp "github.com/digiprime/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles the read-only CRM view over order history
type CustomerHandler struct {
	BaseHandler
	customerService *crmapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *crmapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles GET /crm/customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter crmapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /crm/customers/:buyer_name. Buyer names are free-form
// marketplace display names, so the parameter is matched verbatim.
func (h *CustomerHandler) Get(c *gin.Context) {
	buyerName := c.Param("buyer_name")
	if buyerName == "" {
		h.BadRequest(c, "Buyer name is required")
		return
	}

	detail, err := h.customerService.GetCustomer(c.Request.Context(), buyerName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
