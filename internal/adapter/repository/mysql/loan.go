package mysql

import (
	"context"

	loanDomain "creditunion-backoffice/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return translate(r.db.WithContext(ctx).Save(l).Error)
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetPendingByMemberID(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	return r.byMemberStatus(r.db.WithContext(ctx), memberID, loanDomain.StatusPending)
}

func (r *LoanRepository) GetActiveByMemberID(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	return r.byMemberStatus(r.db.WithContext(ctx), memberID, loanDomain.StatusActive)
}

func (r *LoanRepository) GetActiveByMemberIDForUpdate(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.byMemberStatus(q, memberID, loanDomain.StatusActive)
}

func (r *LoanRepository) byMemberStatus(q *gorm.DB, memberID string, s loanDomain.Status) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := q.Where("member_id = ? AND status = ?", memberID, s).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByMemberID(ctx context.Context, memberID string, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Where("member_id = ?", memberID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStatus(ctx context.Context, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}
