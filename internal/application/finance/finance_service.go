package finance

import (
	"context"
	"time"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceService provides application-level transaction and ledger operations
type FinanceService struct {
	transactionRepo finance.TransactionRepository
	ledgerRepo      finance.LedgerEntryRepository
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(
	transactionRepo finance.TransactionRepository,
	ledgerRepo finance.LedgerEntryRepository,
) *FinanceService {
	return &FinanceService{
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
	}
}

// ===================== Transaction Operations =====================

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateTransactionRequest represents a request to record a transaction
type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// TransactionListFilter defines filtering options for transaction list queries
type TransactionListFilter struct {
	Type     string     `form:"type"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateTransaction records a manual transaction (not tied to an order)
func (s *FinanceService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	transaction, err := finance.NewTransaction(
		finance.TransactionType(req.Type),
		req.Amount,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Save(ctx, transaction); err != nil {
		return nil, err
	}

	return toTransactionResponse(transaction), nil
}

// GetTransaction retrieves a transaction by id
func (s *FinanceService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(transaction), nil
}

// ListTransactions lists transactions with pagination
func (s *FinanceService) ListTransactions(ctx context.Context, filter TransactionListFilter) (*shared.Paginated[TransactionResponse], error) {
	repoFilter := finance.TransactionFilter{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Type != "" {
		t := finance.TransactionType(filter.Type)
		repoFilter.Type = &t
	}

	transactions, err := s.transactionRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, *toTransactionResponse(&transactions[i]))
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// DeleteTransaction removes a transaction
func (s *FinanceService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.transactionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.transactionRepo.Delete(ctx, id)
}

// ===================== Ledger Operations =====================

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateLedgerEntryRequest represents a request to record a ledger entry
type CreateLedgerEntryRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
}

// LedgerListFilter defines filtering options for ledger list queries
type LedgerListFilter struct {
	Type     string     `form:"type"`
	Category string     `form:"category"`
	FromDate *time.Time `form:"from_date"`
	ToDate   *time.Time `form:"to_date"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// CreateLedgerEntry records a manual ledger entry
func (s *FinanceService) CreateLedgerEntry(ctx context.Context, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := finance.NewLedgerEntry(
		finance.LedgerEntryType(req.Type),
		req.Amount,
		req.Description,
		finance.LedgerCategory(req.Category),
	)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	return toLedgerEntryResponse(entry), nil
}

// ListLedgerEntries lists ledger entries with pagination
func (s *FinanceService) ListLedgerEntries(ctx context.Context, filter LedgerListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	repoFilter := finance.LedgerEntryFilter{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Type != "" {
		t := finance.LedgerEntryType(filter.Type)
		repoFilter.Type = &t
	}
	if filter.Category != "" {
		c := finance.LedgerCategory(filter.Category)
		repoFilter.Category = &c
	}

	entries, err := s.ledgerRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *toLedgerEntryResponse(&entries[i]))
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// DeleteLedgerEntry removes a ledger entry
func (s *FinanceService) DeleteLedgerEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ledgerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ledgerRepo.Delete(ctx, id)
}

// ===================== Summary =====================

// FinanceSummaryResponse aggregates totals across the ledger
type FinanceSummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// GetSummary returns income, expense, and net totals from the ledger
func (s *FinanceService) GetSummary(ctx context.Context) (*FinanceSummaryResponse, error) {
	sums, err := s.ledgerRepo.SumByType(ctx)
	if err != nil {
		return nil, err
	}

	income := sums[finance.LedgerEntryTypeIncome]
	expense := sums[finance.LedgerEntryTypeExpense]

	return &FinanceSummaryResponse{
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    income.Sub(expense),
	}, nil
}

func toTransactionResponse(t *finance.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		OrderID:     t.OrderID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toLedgerEntryResponse(e *finance.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		Category:    string(e.Category),
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}
