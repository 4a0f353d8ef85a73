package catalog

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes the two kinds of digital goods sold
type ProductType string

const (
	// ProductTypeAccount is a ready-made account credential (email + password)
	ProductTypeAccount ProductType = "ACCOUNT"
	// ProductTypeCredit is a redeemable credit/top-up code
	ProductTypeCredit ProductType = "CREDIT"
)

// IsValid returns true if the product type is valid
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeAccount, ProductTypeCredit:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductType
func (t ProductType) String() string {
	return string(t)
}

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable digital good in the catalog.
// The name doubles as the matching key for marketplace item names, so it
// should stay unique among active products.
type Product struct {
	shared.BaseAggregateRoot
	Name       string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_name"`
	Type       ProductType     `gorm:"type:varchar(20);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status     ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	StockCount int             `gorm:"not null;default:0"` // denormalized count of AVAILABLE stock rows
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name string, productType ProductType, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !productType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Product type must be ACCOUNT or CREDIT")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              productType,
		Price:             price,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's name and price
func (p *Product) Update(name string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product so it no longer participates in matching
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// AdjustStockCount moves the denormalized stock counter by delta,
// clamping at zero
func (p *Product) AdjustStockCount(delta int) {
	p.StockCount += delta
	if p.StockCount < 0 {
		p.StockCount = 0
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
