package mysql

import (
	"context"
	"time"

	ledgerDomain "creditunion-backoffice/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository reads and appends rows of the general transaction log.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, tx *ledgerDomain.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(tx).Error)
}

func (r *LedgerRepository) GetByID(ctx context.Context, id uint64) (*ledgerDomain.Transaction, error) {
	var out ledgerDomain.Transaction
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) GetByReference(ctx context.Context, reference string) (*ledgerDomain.Transaction, error) {
	var out ledgerDomain.Transaction
	res := r.db.WithContext(ctx).Where("reference = ?", reference).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) ListByMemberID(ctx context.Context, memberID string) ([]ledgerDomain.Transaction, error) {
	var out []ledgerDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) scoped(ctx context.Context, memberID string, rg ledgerDomain.Range) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&ledgerDomain.Transaction{}).Where("member_id = ?", memberID)
	if !rg.From.IsZero() {
		q = q.Where("date >= ?", rg.From)
	}
	if !rg.To.IsZero() {
		q = q.Where("date <= ?", rg.To)
	}
	return q
}

func (r *LedgerRepository) SumByTypes(ctx context.Context, memberID string, types []ledgerDomain.Type, rg ledgerDomain.Range) (decimal.Decimal, error) {
	if len(types) == 0 {
		return decimal.Zero, nil
	}
	var rows []amountRow
	res := r.scoped(ctx, memberID, rg).
		Select("amount").
		Where("transaction_type IN ?", types).
		Scan(&rows)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	return sumRows(rows), nil
}

func (r *LedgerRepository) Recent(ctx context.Context, memberID string, limit int) ([]ledgerDomain.Transaction, error) {
	var out []ledgerDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

// MonthlyTotals groups in Go: MONTH() and strftime() differ between MySQL
// and SQLite, and the sums must stay exact.
func (r *LedgerRepository) MonthlyTotals(ctx context.Context, memberID string, t ledgerDomain.Type, rg ledgerDomain.Range) ([]ledgerDomain.MonthTotal, error) {
	var rows []struct {
		Date   time.Time
		Amount decimal.Decimal
	}
	res := r.scoped(ctx, memberID, rg).
		Select("date, amount").
		Where("transaction_type = ?", t).
		Order("date ASC").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}

	var out []ledgerDomain.MonthTotal
	for _, row := range rows {
		m := row.Date.Month()
		if n := len(out); n > 0 && out[n-1].Month == m {
			out[n-1].Total = out[n-1].Total.Add(row.Amount)
			continue
		}
		out = append(out, ledgerDomain.MonthTotal{Month: m, Total: row.Amount})
	}
	return out, nil
}
