package inventory

import (
	"context"
	"time"

	"github.com/digiprime/backend/internal/domain/catalog"
	"github.com/digiprime/backend/internal/domain/inventory"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CredentialCipher seals account passwords before they hit the store and
// opens them for operator display
type CredentialCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// StockService provides application-level stock operations for both kinds
// of inventory: account credentials and credit codes. It also keeps the
// denormalized stock counter on the product in step.
type StockService struct {
	accountRepo inventory.StockAccountRepository
	creditRepo  inventory.StockCreditRepository
	productRepo catalog.ProductRepository
	cipher      CredentialCipher
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	accountRepo inventory.StockAccountRepository,
	creditRepo inventory.StockCreditRepository,
	productRepo catalog.ProductRepository,
	cipher CredentialCipher,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		accountRepo: accountRepo,
		creditRepo:  creditRepo,
		productRepo: productRepo,
		cipher:      cipher,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ===================== Account Stock =====================

// StockAccountResponse represents an account credential in API responses.
// The password is decrypted for display: this is an internal back-office
// tool and operators hand the credential to the buyer.
type StockAccountResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	Status         string    `json:"status"`
	BuyerName      string    `json:"buyer_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AccountItem is one credential in a batch add request
type AccountItem struct {
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	AdditionalInfo string `json:"additional_info"`
}

// AddAccountsRequest represents a request to add account credentials
type AddAccountsRequest struct {
	ProductID uuid.UUID     `json:"product_id" binding:"required"`
	Accounts  []AccountItem `json:"accounts" binding:"required,min=1,dive"`
}

// AddAccounts adds a batch of account credentials to a product's stock
func (s *StockService) AddAccounts(ctx context.Context, req AddAccountsRequest) ([]StockAccountResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Type != catalog.ProductTypeAccount {
		return nil, shared.NewDomainError("WRONG_STOCK_KIND", "Product does not hold account stock")
	}

	accounts := make([]*inventory.StockAccount, 0, len(req.Accounts))
	for _, item := range req.Accounts {
		sealed, err := s.cipher.Encrypt(item.Password)
		if err != nil {
			return nil, err
		}
		account, err := inventory.NewStockAccount(req.ProductID, item.Email, sealed, item.AdditionalInfo)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := s.accountRepo.SaveBatch(ctx, accounts); err != nil {
		return nil, err
	}
	s.adjustStockCount(ctx, product, len(accounts))

	responses := make([]StockAccountResponse, 0, len(accounts))
	for i, account := range accounts {
		resp := s.toAccountResponse(account)
		// echo the plaintext the operator just submitted
		resp.Password = req.Accounts[i].Password
		responses = append(responses, *resp)
	}

	s.logger.Info("account stock added",
		zap.String("product_id", req.ProductID.String()),
		zap.Int("count", len(accounts)),
	)

	return responses, nil
}

// ListAccounts lists account credentials for a product
func (s *StockService) ListAccounts(ctx context.Context, productID uuid.UUID, status *inventory.StockAccountStatus) ([]StockAccountResponse, error) {
	accounts, err := s.accountRepo.FindByProduct(ctx, productID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]StockAccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *s.toAccountResponse(&accounts[i]))
	}
	return responses, nil
}

// SellAccount hands the oldest available credential for a product to a buyer
func (s *StockService) SellAccount(ctx context.Context, productID uuid.UUID, buyerName string) (*StockAccountResponse, error) {
	account, err := s.accountRepo.FindFirstAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := account.MarkSold(buyerName); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishStockEvents(ctx, &account.BaseAggregateRoot)

	if product, err := s.productRepo.FindByID(ctx, productID); err == nil {
		s.adjustStockCount(ctx, product, -1)
	}

	return s.toAccountResponse(account), nil
}

// ReserveAccount holds a specific credential while an operator negotiates a
// sale, so a second operator cannot dispatch it in the meantime
func (s *StockService) ReserveAccount(ctx context.Context, id uuid.UUID) (*StockAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Reserve(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	// a reserved credential is out of the sellable pool
	if product, err := s.productRepo.FindByID(ctx, account.ProductID); err == nil {
		s.adjustStockCount(ctx, product, -1)
	}

	s.logger.Info("account stock reserved", zap.String("account_id", id.String()))
	return s.toAccountResponse(account), nil
}

// ReleaseAccount returns a reserved credential to the available pool
func (s *StockService) ReleaseAccount(ctx context.Context, id uuid.UUID) (*StockAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Release(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	if product, err := s.productRepo.FindByID(ctx, account.ProductID); err == nil {
		s.adjustStockCount(ctx, product, 1)
	}

	s.logger.Info("account stock released", zap.String("account_id", id.String()))
	return s.toAccountResponse(account), nil
}

// DeleteAccount removes one credential from stock
func (s *StockService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return err
	}
	if account.IsAvailable() {
		if product, err := s.productRepo.FindByID(ctx, account.ProductID); err == nil {
			s.adjustStockCount(ctx, product, -1)
		}
	}
	return nil
}

// ===================== Credit Stock =====================

// StockCreditResponse represents a credit code in API responses
type StockCreditResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Code      string          `json:"code,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreditItem is one code in a batch add request
type CreditItem struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Code   string          `json:"code"`
}

// AddCreditsRequest represents a request to add credit codes
type AddCreditsRequest struct {
	ProductID uuid.UUID    `json:"product_id" binding:"required"`
	Credits   []CreditItem `json:"credits" binding:"required,min=1,dive"`
}

// AddCredits adds a batch of credit codes to a product's stock
func (s *StockService) AddCredits(ctx context.Context, req AddCreditsRequest) ([]StockCreditResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Type != catalog.ProductTypeCredit {
		return nil, shared.NewDomainError("WRONG_STOCK_KIND", "Product does not hold credit stock")
	}

	credits := make([]*inventory.StockCredit, 0, len(req.Credits))
	for _, item := range req.Credits {
		credit, err := inventory.NewStockCredit(req.ProductID, item.Amount, item.Code)
		if err != nil {
			return nil, err
		}
		credits = append(credits, credit)
	}

	if err := s.creditRepo.SaveBatch(ctx, credits); err != nil {
		return nil, err
	}
	s.adjustStockCount(ctx, product, len(credits))

	responses := make([]StockCreditResponse, 0, len(credits))
	for _, credit := range credits {
		responses = append(responses, *toCreditResponse(credit))
	}
	return responses, nil
}

// ListCredits lists credit codes for a product
func (s *StockService) ListCredits(ctx context.Context, productID uuid.UUID, status *inventory.StockCreditStatus) ([]StockCreditResponse, error) {
	credits, err := s.creditRepo.FindByProduct(ctx, productID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]StockCreditResponse, 0, len(credits))
	for i := range credits {
		responses = append(responses, *toCreditResponse(&credits[i]))
	}
	return responses, nil
}

// SellCredit hands the oldest available credit code for a product to a buyer
func (s *StockService) SellCredit(ctx context.Context, productID uuid.UUID) (*StockCreditResponse, error) {
	credit, err := s.creditRepo.FindFirstAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := credit.MarkSold(); err != nil {
		return nil, err
	}

	if err := s.creditRepo.Save(ctx, credit); err != nil {
		return nil, err
	}
	s.publishStockEvents(ctx, &credit.BaseAggregateRoot)

	if product, err := s.productRepo.FindByID(ctx, productID); err == nil {
		s.adjustStockCount(ctx, product, -1)
	}

	return toCreditResponse(credit), nil
}

// DeleteCredit removes one credit code from stock
func (s *StockService) DeleteCredit(ctx context.Context, id uuid.UUID) error {
	credit, err := s.creditRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.creditRepo.Delete(ctx, id); err != nil {
		return err
	}
	if credit.IsAvailable() {
		if product, err := s.productRepo.FindByID(ctx, credit.ProductID); err == nil {
			s.adjustStockCount(ctx, product, -1)
		}
	}
	return nil
}

// adjustStockCount moves the denormalized counter on the product. A failure
// here is logged but not propagated: the counter is display data and the
// stock rows remain the source of truth.
func (s *StockService) adjustStockCount(ctx context.Context, product *catalog.Product, delta int) {
	product.AdjustStockCount(delta)
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("failed to update product stock count",
			zap.String("product_id", product.ID.String()),
			zap.Int("delta", delta),
			zap.Error(err),
		)
	}
}

func (s *StockService) publishStockEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish stock events", zap.Error(err))
	}
	root.ClearDomainEvents()
}

func (s *StockService) toAccountResponse(a *inventory.StockAccount) *StockAccountResponse {
	password, err := s.cipher.Decrypt(a.Password)
	if err != nil {
		// rows written before an encryption-key rotation cannot be opened;
		// show nothing rather than ciphertext
		s.logger.Error("failed to decrypt stock account password",
			zap.String("account_id", a.ID.String()),
			zap.Error(err),
		)
		password = ""
	}
	return &StockAccountResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		Email:          a.Email,
		Password:       password,
		AdditionalInfo: a.AdditionalInfo,
		Status:         string(a.Status),
		BuyerName:      a.BuyerName,
		CreatedAt:      a.CreatedAt,
	}
}

func toCreditResponse(c *inventory.StockCredit) *StockCreditResponse {
	return &StockCreditResponse{
		ID:        c.ID,
		ProductID: c.ProductID,
		Amount:    c.Amount,
		Code:      c.Code,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
