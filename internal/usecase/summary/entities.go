package summary

type NextPaymentDTO struct {
	Number int    `json:"number"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// ActiveLoanDTO describes the member's running loan.
type ActiveLoanDTO struct {
	Reference        string          `json:"id"`
	LoanID           string          `json:"loan_id"`
	Principal        string          `json:"amount"`
	DisbursedDate    string          `json:"disbursedDate"`
	DueDate          string          `json:"dueDate"`
	Term             int             `json:"term"`
	InterestRate     string          `json:"interestRate"`
	TotalAmount      string          `json:"totalAmount"`
	MonthlyAmount    string          `json:"monthlyAmount"`
	TotalRepayments  string          `json:"totalRepayments"`
	BalanceRemaining string          `json:"balanceRemaining"`
	PaidInstallments int             `json:"paidInstallments"`
	NextPayment      *NextPaymentDTO `json:"nextPayment"`
}

type HistoryItemDTO struct {
	Reference    string `json:"id"`
	LoanID       string `json:"loan_id"`
	Principal    string `json:"principal"`
	InterestPaid string `json:"interestPaid"`
	TotalPayment string `json:"totalPayment"`
	Status       string `json:"status"`
	DateClosed   string `json:"dateClosed,omitempty"`
}

type SummaryDTO struct {
	ActiveLoan  *ActiveLoanDTO   `json:"activeLoan"`
	LoanHistory []HistoryItemDTO `json:"loanHistory"`
}

const dateLayout = "2006-01-02"
