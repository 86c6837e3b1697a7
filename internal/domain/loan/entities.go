package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// HistoryStatuses are the closed states listed by the lifecycle history query.
var HistoryStatuses = []Status{StatusCompleted, StatusCancelled, StatusRejected}

// SummaryStatuses are the states shown in the member's loan summary history.
var SummaryStatuses = []Status{StatusActive, StatusCompleted}

// OpenStatuses are the states shown on the officer listing.
var OpenStatuses = []Status{StatusActive, StatusPending, StatusRejected}

// Table: loans
type Loan struct {
	ID               uint64          `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	LoanID           string          `gorm:"column:loan_id;type:char(32);not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	MemberID         string          `gorm:"column:member_id;type:char(32);not null;index:idx_loans_member_status" json:"member_id"`
	AccountOfficerID *string         `gorm:"column:account_officer_id;type:char(32)" json:"account_officer_id,omitempty"`
	Principal        decimal.Decimal `gorm:"column:principal;type:decimal(12,2);not null" json:"principal"`
	InterestRate     decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null" json:"interest_rate"`
	Term             int             `gorm:"column:term;not null" json:"term"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	Status           Status          `gorm:"column:status;type:enum('pending','active','completed','rejected','cancelled');default:'pending';index:idx_loans_member_status" json:"status"`
	Purpose          string          `gorm:"column:purpose;type:text" json:"purpose"`
	DisbursedDate    *time.Time      `gorm:"column:disbursed_date;type:date" json:"disbursed_date,omitempty"`
	DueDate          *time.Time      `gorm:"column:due_date;type:date" json:"due_date,omitempty"`
	// Guard columns: hold MemberID only while the loan is pending (resp. active).
	// The unique indexes make a second pending or active loan per member a
	// duplicate-key error at the storage layer.
	PendingMemberID *string   `gorm:"column:pending_member_id;type:char(32);uniqueIndex:ux_loans_pending_member" json:"-"`
	ActiveMemberID  *string   `gorm:"column:active_member_id;type:char(32);uniqueIndex:ux_loans_active_member" json:"-"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// SetStatus moves the loan to s and keeps the guard columns in step.
func (l *Loan) SetStatus(s Status) {
	l.Status = s
	l.PendingMemberID, l.ActiveMemberID = nil, nil
	member := l.MemberID
	switch s {
	case StatusPending:
		l.PendingMemberID = &member
	case StatusActive:
		l.ActiveMemberID = &member
	}
}

// Activate marks the loan disbursed on day and derives its due date.
func (l *Loan) Activate(day time.Time) {
	d := DateOf(day)
	due := AddMonths(d, l.Term)
	l.DisbursedDate = &d
	l.DueDate = &due
	l.SetStatus(StatusActive)
}
