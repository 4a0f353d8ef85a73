package inventory

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockAccountStatus represents the lifecycle of an account credential
type StockAccountStatus string

const (
	StockAccountAvailable StockAccountStatus = "AVAILABLE"
	StockAccountSold      StockAccountStatus = "SOLD"
	StockAccountReserved  StockAccountStatus = "RESERVED"
)

// IsValid returns true if the status is a valid StockAccountStatus
func (s StockAccountStatus) IsValid() bool {
	switch s {
	case StockAccountAvailable, StockAccountSold, StockAccountReserved:
		return true
	default:
		return false
	}
}

// StockAccount is one sellable account credential. The password is stored
// encrypted; the infrastructure cipher seals it before the row is written
// and opens it on read.
type StockAccount struct {
	shared.BaseAggregateRoot
	ProductID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	Email          string             `gorm:"type:varchar(200);not null"`
	Password       string             `gorm:"type:text;not null;column:password_enc"` // ciphertext at rest
	AdditionalInfo string             `gorm:"type:text"`
	Status         StockAccountStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	BuyerName      string             `gorm:"type:varchar(200)"` // set once sold
}

// TableName returns the table name for GORM
func (StockAccount) TableName() string {
	return "stock_accounts"
}

// NewStockAccount creates an available account credential
func NewStockAccount(productID uuid.UUID, email, password, additionalInfo string) (*StockAccount, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Stock account requires a product")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if password == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}

	account := &StockAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Email:             email,
		Password:          password,
		AdditionalInfo:    additionalInfo,
		Status:            StockAccountAvailable,
	}

	account.AddDomainEvent(NewStockReplenishedEvent(account.ID, productID, StockKindAccount))

	return account, nil
}

// Reserve holds the credential so two operators cannot hand it out twice
func (a *StockAccount) Reserve() error {
	if a.Status != StockAccountAvailable {
		return shared.NewDomainError("INVALID_STATE", "Only available accounts can be reserved")
	}
	a.Status = StockAccountReserved
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Release returns a reserved credential to the available pool
func (a *StockAccount) Release() error {
	if a.Status != StockAccountReserved {
		return shared.NewDomainError("INVALID_STATE", "Only reserved accounts can be released")
	}
	a.Status = StockAccountAvailable
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// MarkSold assigns the credential to a buyer
func (a *StockAccount) MarkSold(buyerName string) error {
	if a.Status == StockAccountSold {
		return shared.NewDomainError("ALREADY_SOLD", "Account has already been sold")
	}
	if buyerName == "" {
		return shared.NewDomainError("INVALID_BUYER", "Buyer name cannot be empty")
	}

	a.Status = StockAccountSold
	a.BuyerName = buyerName
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewStockSoldEvent(a.ID, a.ProductID, StockKindAccount, buyerName))

	return nil
}

// IsAvailable returns true if the credential can be sold
func (a *StockAccount) IsAvailable() bool {
	return a.Status == StockAccountAvailable
}
