package mysql

import (
	"context"

	repaymentDomain "creditunion-backoffice/internal/domain/repayment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(ctx context.Context, rp *repaymentDomain.Repayment) error {
	return translate(r.db.WithContext(ctx).Create(rp).Error)
}

// Sums are taken in Go over the stored decimals so every driver yields the
// exact total; SQLite would otherwise sum through float64.
func (r *RepaymentRepository) SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error) {
	var rows []amountRow
	res := r.db.WithContext(ctx).
		Model(&repaymentDomain.Repayment{}).
		Select("amount_paid AS amount").
		Where("loan_id = ?", loanID).
		Scan(&rows)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	return sumRows(rows), nil
}

func (r *RepaymentRepository) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error) {
	out := make(map[uint64]decimal.Decimal, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		LoanID     uint64
		AmountPaid decimal.Decimal
	}
	res := r.db.WithContext(ctx).
		Model(&repaymentDomain.Repayment{}).
		Select("loan_id, amount_paid").
		Where("loan_id IN ?", loanIDs).
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	for _, row := range rows {
		out[row.LoanID] = out[row.LoanID].Add(row.AmountPaid)
	}
	return out, nil
}

func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("payment_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) ListByMemberID(ctx context.Context, memberID string) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("payment_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}
