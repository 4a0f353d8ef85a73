package trade

import (
	"context"
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/digiprime/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService provides application-level order operations for the manual
// back-office flow. Scraped orders enter through the sync pipeline instead,
// but both paths share the same aggregate and transition rules.
type OrderService struct {
	orderRepo trade.OrderRepository
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// RefillEventResponse represents one refill history entry in API responses
type RefillEventResponse struct {
	ID           uuid.UUID `json:"id"`
	Date         time.Time `json:"date"`
	Email        string    `json:"email,omitempty"`
	Password     string    `json:"password,omitempty"`
	ReferralCode string    `json:"referral_code,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	ExternalOrderSN string                `json:"external_order_sn"`
	BuyerName       string                `json:"buyer_name"`
	BuyerMeta       trade.BuyerMeta       `json:"buyer_meta"`
	ProductID       *uuid.UUID            `json:"product_id,omitempty"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	Quantity        int                   `json:"quantity"`
	Status          string                `json:"status"`
	Source          string                `json:"source"`
	OrderDate       time.Time             `json:"order_date"`
	NeedsMapping    bool                  `json:"needs_mapping"`
	RefillEvents    []RefillEventResponse `json:"refill_events,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// CreateOrderRequest represents a request to create a manual order
type CreateOrderRequest struct {
	ExternalOrderSN string          `json:"external_order_sn" binding:"required"`
	BuyerName       string          `json:"buyer_name" binding:"required"`
	ProductID       *uuid.UUID      `json:"product_id"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Quantity        int             `json:"quantity"`
	Status          string          `json:"status"`
	OrderDate       *time.Time      `json:"order_date"`
}

// UpdateOrderRequest represents a request to update an order's details
type UpdateOrderRequest struct {
	BuyerName  string          `json:"buyer_name" binding:"required"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	OrderDate  *time.Time      `json:"order_date"`
}

// UpdateStatusRequest represents a request to change an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetBuyerMetaRequest represents a request to replace an order's buyer metadata
type SetBuyerMetaRequest struct {
	Kind                string `json:"kind" binding:"required"`
	ReplacementEmail    string `json:"replacement_email"`
	ReplacementPassword string `json:"replacement_password"`
	Note                string `json:"note"`
	Info                string `json:"info"`
}

// AddRefillEventRequest represents a request to append one refill history entry
type AddRefillEventRequest struct {
	Date         *time.Time `json:"date"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	ReferralCode string     `json:"referral_code"`
}

// AssignProductRequest represents a request to resolve a needs-mapping order
type AssignProductRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// OrderListFilter defines filtering options for order list queries
type OrderListFilter struct {
	Status   string `form:"status"`
	Buyer    string `form:"buyer"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateOrder creates a manual order. The order number must not collide
// with a scraped one: the unique index is the final arbiter.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	status := trade.OrderStatusPending
	if req.Status != "" {
		status = trade.OrderStatus(req.Status)
	}
	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := trade.NewOrder(
		req.ExternalOrderSN, req.BuyerName,
		req.ProductID,
		req.TotalPrice, req.Quantity,
		status,
		orderDate,
		trade.OrderSourceManual,
	)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	s.logger.Info("manual order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_sn", order.ExternalOrderSN),
	)

	return ToOrderResponse(order), nil
}

// GetOrder retrieves an order by id
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrders lists orders with pagination
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	repoFilter := trade.OrderFilter{
		BuyerName: filter.Buyer,
		Search:    filter.Search,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if repoFilter.Page < 1 {
		repoFilter.Page = 1
	}
	if repoFilter.PageSize < 1 {
		repoFilter.PageSize = 20
	}
	if filter.Status != "" {
		status := trade.OrderStatus(filter.Status)
		repoFilter.Status = &status
	}

	orders, err := s.orderRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}

	return shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize), nil
}

// UpdateOrder updates an order's manually editable details
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	if err := order.UpdateDetails(req.BuyerName, req.TotalPrice, req.Quantity, orderDate); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// UpdateStatus moves an order through its lifecycle. Completion fires the
// income side effect through the event bus, same as the sync pipeline.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.TransitionTo(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)

	return ToOrderResponse(order), nil
}

// SetBuyerMeta replaces an order's structured buyer metadata
func (s *OrderService) SetBuyerMeta(ctx context.Context, id uuid.UUID, req SetBuyerMetaRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := trade.BuyerMeta{
		Kind:                trade.BuyerMetaKind(req.Kind),
		ReplacementEmail:    req.ReplacementEmail,
		ReplacementPassword: req.ReplacementPassword,
		Note:                req.Note,
		Info:                req.Info,
	}
	if err := order.SetBuyerMeta(meta); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// AddRefillEvent appends one entry to an order's refill history
func (s *OrderService) AddRefillEvent(ctx context.Context, id uuid.UUID, req AddRefillEventRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	order.AppendRefillEvent(trade.NewRefillEvent(date, req.Email, req.Password, req.ReferralCode))

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// AssignProduct resolves a needs-mapping order by attaching a product
func (s *OrderService) AssignProduct(ctx context.Context, id uuid.UUID, req AssignProductRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.AssignProduct(req.ProductID)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("product assigned to order",
		zap.String("order_id", order.ID.String()),
		zap.String("product_id", req.ProductID.String()),
	)

	return ToOrderResponse(order), nil
}

// DeleteOrder removes an order and its refill history
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}

func ToOrderResponse(o *trade.Order) *OrderResponse {
	refills := make([]RefillEventResponse, 0, len(o.RefillEvents))
	for _, e := range o.RefillEvents {
		refills = append(refills, RefillEventResponse{
			ID:           e.ID,
			Date:         e.Date,
			Email:        e.Email,
			Password:     e.Password,
			ReferralCode: e.ReferralCode,
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		ExternalOrderSN: o.ExternalOrderSN,
		BuyerName:       o.BuyerName,
		BuyerMeta:       o.BuyerMeta,
		ProductID:       o.ProductID,
		TotalPrice:      o.TotalPrice,
		Quantity:        o.Quantity,
		Status:          o.Status.String(),
		Source:          string(o.Source),
		OrderDate:       o.OrderDate,
		NeedsMapping:    o.NeedsMapping(),
		RefillEvents:    refills,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
