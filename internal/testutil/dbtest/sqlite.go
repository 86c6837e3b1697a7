// Package dbtest opens in-memory SQLite databases with a schema equivalent
// to the MySQL one, minus engine specifics (ENUM, DECIMAL affinity).
package dbtest

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Money columns are TEXT so SQLite never rounds through float64.
type LoanRow struct {
	ID               uint64 `gorm:"primaryKey;column:id;autoIncrement"`
	LoanID           string `gorm:"size:32;column:loan_id;uniqueIndex:ux_loans_loan_id"`
	MemberID         string `gorm:"size:32;column:member_id;index"`
	AccountOfficerID *string
	Principal        string `gorm:"type:text"`
	InterestRate     string `gorm:"type:text"`
	Term             int
	TotalAmount      string `gorm:"type:text"`
	Status           string `gorm:"type:text"` // no enum
	Purpose          string
	DisbursedDate    *time.Time `gorm:"type:date"`
	DueDate          *time.Time `gorm:"type:date"`
	PendingMemberID  *string    `gorm:"uniqueIndex:ux_loans_pending_member"`
	ActiveMemberID   *string    `gorm:"uniqueIndex:ux_loans_active_member"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LoanRow) TableName() string { return "loans" }

type RepaymentRow struct {
	ID          uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	LoanID      uint64    `gorm:"index"`
	MemberID    string    `gorm:"index"`
	AmountPaid  string    `gorm:"type:text"`
	PaymentDate time.Time `gorm:"type:date"`
	RecordedBy  *string
	CreatedAt   time.Time
}

func (RepaymentRow) TableName() string { return "loan_repayments" }

type TransactionRow struct {
	ID               uint64 `gorm:"primaryKey;column:id;autoIncrement"`
	MemberID         string `gorm:"index"`
	AccountOfficerID *string
	TransactionType  string    `gorm:"column:transaction_type"`
	Amount           string    `gorm:"type:text"`
	Date             time.Time `gorm:"type:date"`
	Reference        *string   `gorm:"uniqueIndex:ux_transactions_reference"`
	Notes            string
}

func (TransactionRow) TableName() string { return "transactions" }

// Open returns a migrated in-memory database. The pool is pinned to one
// connection: every new ":memory:" connection would be a fresh, empty db.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// IMPORTANT: migrate the sqlite-safe rows, NOT the domain models.
	if err := db.AutoMigrate(&LoanRow{}, &RepaymentRow{}, &TransactionRow{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
