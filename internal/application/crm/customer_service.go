package crm

import (
	"context"
	"time"

	"github.com/digiprime/backend/internal/application/trade"
	domtrade "github.com/digiprime/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CustomerSummary is one row of the customer list, aggregated from orders.
// Customers have no table of their own: the buyer display name scraped from
// the marketplace is the only identity available.
type CustomerSummary struct {
	BuyerName       string          `json:"buyer_name"`
	TotalOrders     int64           `json:"total_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	FirstOrderDate  time.Time       `json:"first_order_date"`
	LastOrderDate   time.Time       `json:"last_order_date"`
}

// CustomerListResult is a paginated customer list
type CustomerListResult struct {
	Items    []CustomerSummary `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CustomerListFilter defines filtering options for customer list queries
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CustomerViewRepository aggregates customer rows out of the orders table
type CustomerViewRepository interface {
	// FindCustomers groups orders by buyer name, newest activity first
	FindCustomers(ctx context.Context, filter CustomerListFilter) ([]CustomerSummary, int64, error)
}

// CustomerService provides the read-only CRM view over order history
type CustomerService struct {
	viewRepo  CustomerViewRepository
	orderRepo domtrade.OrderRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(viewRepo CustomerViewRepository, orderRepo domtrade.OrderRepository) *CustomerService {
	return &CustomerService{
		viewRepo:  viewRepo,
		orderRepo: orderRepo,
	}
}

// ListCustomers lists aggregated customers with pagination
func (s *CustomerService) ListCustomers(ctx context.Context, filter CustomerListFilter) (*CustomerListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	summaries, total, err := s.viewRepo.FindCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &CustomerListResult{
		Items:    summaries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// CustomerDetail is one customer with their full order history
type CustomerDetail struct {
	Summary CustomerSummary       `json:"summary"`
	Orders  []trade.OrderResponse `json:"orders"`
}

// GetCustomer returns one customer's aggregate plus their order history,
// newest first
func (s *CustomerService) GetCustomer(ctx context.Context, buyerName string) (*CustomerDetail, error) {
	orders, err := s.orderRepo.FindByBuyer(ctx, buyerName)
	if err != nil {
		return nil, err
	}

	summary := CustomerSummary{
		BuyerName:  buyerName,
		TotalSpent: decimal.Zero,
	}
	responses := make([]trade.OrderResponse, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		summary.TotalOrders++
		if order.IsCompleted() {
			summary.CompletedOrders++
			summary.TotalSpent = summary.TotalSpent.Add(order.TotalPrice)
		}
		if summary.FirstOrderDate.IsZero() || order.OrderDate.Before(summary.FirstOrderDate) {
			summary.FirstOrderDate = order.OrderDate
		}
		if order.OrderDate.After(summary.LastOrderDate) {
			summary.LastOrderDate = order.OrderDate
		}
		responses = append(responses, *trade.ToOrderResponse(order))
	}

	return &CustomerDetail{
		Summary: summary,
		Orders:  responses,
	}, nil
}
