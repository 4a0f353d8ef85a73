package persistence

import (
	"context"

	"github.com/digiprime/backend/internal/domain/finance"
	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var entry finance.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entry, nil
}

// FindAll finds all ledger entries matching the filter, newest first
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.LedgerEntry{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []finance.LedgerEntry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindIncomeReferenceIDs returns the set of order ids already referenced by
// income entries
func (r *GormLedgerEntryRepository) FindIncomeReferenceIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&finance.LedgerEntry{}).
		Where("type = ? AND reference_id IS NOT NULL", finance.LedgerEntryTypeIncome).
		Pluck("reference_id", &ids).Error; err != nil {
		return nil, err
	}

	refs := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		refs[id] = struct{}{}
	}
	return refs, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	return translateError(r.db.WithContext(ctx).Save(entry).Error)
}

// SaveBatch inserts multiple ledger entries
func (r *GormLedgerEntryRepository) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Create(entries).Error)
}

// Delete deletes a ledger entry
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.LedgerEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts ledger entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter finance.LedgerEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.LedgerEntry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByType sums amounts per ledger entry type
func (r *GormLedgerEntryRepository) SumByType(ctx context.Context) (map[finance.LedgerEntryType]decimal.Decimal, error) {
	var rows []struct {
		Type  finance.LedgerEntryType
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&finance.LedgerEntry{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[finance.LedgerEntryType]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Type] = row.Total
	}
	return sums, nil
}

// applyFilter applies ledger filter criteria without pagination
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter finance.LedgerEntryFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ finance.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
