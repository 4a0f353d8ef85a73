package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService provides application-level product operations
type ProductService struct {
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	StockCount int             `json:"stock_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Type  string          `json:"type" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// ProductListFilter defines filtering options for product list queries
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateProduct creates a new product. The name must be unique: it is the
// key marketplace item names are matched against.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_NAME", "A product with this name already exists")
	}

	product, err := catalog.NewProduct(req.Name, catalog.ProductType(req.Type), req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	return toProductResponse(product), nil
}

// GetProduct retrieves a product by id
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts lists products with pagination
func (s *ProductService) ListProducts(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	repoFilter := shared.DefaultFilter()
	repoFilter.Search = filter.Search
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		repoFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *toProductResponse(&products[i]))
	}

	return shared.NewPaginated(items, total, repoFilter.Page, repoFilter.PageSize), nil
}

// UpdateProduct updates a product's name and price
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != product.Name {
		existing, err := s.productRepo.FindByName(ctx, req.Name)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("DUPLICATE_NAME", "A product with this name already exists")
		}
	}

	if err := product.Update(req.Name, req.Price); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	return toProductResponse(product), nil
}

// ActivateProduct puts the product back into the matching pool
func (s *ProductService) ActivateProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// DeactivateProduct removes the product from the matching pool without
// deleting it or its stock
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	return toProductResponse(product), nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
	product.ClearDomainEvents()
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Type:       p.Type.String(),
		Price:      p.Price,
		Status:     string(p.Status),
		StockCount: p.StockCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
