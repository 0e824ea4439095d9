// Package domain contains the fund entities as the admin front-end sees them.
// Every entity is owned by the fund API; these are read-only snapshots.
package domain

import (
	"strings"
	"time"
)

// AccountStatus is the member account state reported by the API.
type AccountStatus string

const (
	AccountNormal AccountStatus = "ปกติ"
	AccountFrozen AccountStatus = "ถูกอายัด"
	AccountClosed AccountStatus = "ปิดการใช้งาน"
)

// Tone maps a status to the alert colour used in templates.
func (s AccountStatus) Tone() string {
	switch s {
	case AccountNormal:
		return "success"
	case AccountFrozen:
		return "warning"
	case AccountClosed:
		return "error"
	default:
		return "default"
	}
}

// Label returns the status text, or a placeholder for unknown values.
func (s AccountStatus) Label() string {
	if s == "" {
		return "ไม่ระบุ"
	}
	return string(s)
}

// Account is a member savings account.
type Account struct {
	ID        ID            `json:"account_id"`
	Name      string        `json:"account_name"`
	Number    string        `json:"account_number"`
	Balance   Money         `json:"balance"`
	OpenDate  string        `json:"open_date"`
	CreatedBy string        `json:"created_by"`
	Status    AccountStatus `json:"account_status"`
}

// TransactionKind classifies a transaction for display.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindUnknown    TransactionKind = "unknown"
)

// Transaction is one deposit or withdrawal on a member account.
// The API guarantees one of Deposit/Withdrawal is non-zero; that is not checked.
type Transaction struct {
	ID             ID     `json:"transaction_id"`
	AccountNumber  string `json:"account_number"`
	Date           string `json:"transaction_date"`
	Time           string `json:"transaction_time"`
	ByUser         string `json:"by_user"`
	Channel        string `json:"channel"`
	Deposit        Money  `json:"deposit"`
	Withdrawal     Money  `json:"withdrawal"`
	RunningBalance Money  `json:"t_balance"`
	Balance        Money  `json:"balance"`
}

// Kind picks the display side. Deposit wins when both amounts are non-zero.
func (t Transaction) Kind() TransactionKind {
	switch {
	case t.Deposit.IsPositive():
		return KindDeposit
	case t.Withdrawal.IsPositive():
		return KindWithdrawal
	default:
		return KindUnknown
	}
}

// Amount is the unsigned amount on the display side.
func (t Transaction) Amount() Money {
	if t.Kind() == KindWithdrawal {
		return t.Withdrawal
	}
	return t.Deposit
}

// OccurredAt combines the date and time columns. Zero when unparsable.
func (t Transaction) OccurredAt() time.Time {
	d, ok := ParseAPIDate(t.Date)
	if !ok {
		return time.Time{}
	}
	if tod, err := time.Parse("15:04:05", strings.TrimSpace(t.Time)); err == nil {
		d = time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, d.Location())
	}
	return d
}

// Member is a registered fund member.
type Member struct {
	ID            ID     `json:"member_id"`
	IDCardNumber  string `json:"id_card_number"`
	FullName      string `json:"full_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	HouseCode     string `json:"house_code"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phone_number"`
	MaritalStatus string `json:"marital_status"`
	HasAccount    Count  `json:"has_account"`
	CreatedBy     string `json:"created_by,omitempty"`
}

// Loan is a loan contract with its server-computed totals.
type Loan struct {
	ID                ID     `json:"id"`
	Title             string `json:"title"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Address           string `json:"address"`
	BirthDate         string `json:"birth_date"`
	PhoneNumber       string `json:"phone_number"`
	IDCardNumber      string `json:"id_card_number"`
	Guarantor1Name    string `json:"guarantor_1_name"`
	Guarantor2Name    string `json:"guarantor_2_name"`
	Committee1Name    string `json:"committee_1_name"`
	Committee2Name    string `json:"committee_2_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankName          string `json:"bank_name"`
	LoanAmount        Money  `json:"loan_amount"`
	InterestRate      Money  `json:"interest_rate"`
	InstallmentCount  Count  `json:"installment_count"`
	PaidInstallments  Count  `json:"paid_installments"`
	CreatedAt         string `json:"created_at"`
	TotalPaid         Money  `json:"total_paid"`
	RemainingBalance  Money  `json:"remaining_balance"`
}

// BorrowerName is "first last".
func (l Loan) BorrowerName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// DisplayName includes the title prefix when present.
func (l Loan) DisplayName() string {
	return strings.TrimSpace(l.Title + l.BorrowerName())
}

// Outstanding reports whether any balance remains.
func (l Loan) Outstanding() bool {
	return l.RemainingBalance.IsPositive()
}

// PaidCount returns the paid-installment figure, falling back to the number
// of paid schedule entries when the API omits it or reports zero.
func (l Loan) PaidCount(schedule []PaymentScheduleEntry) int {
	if l.PaidInstallments > 0 {
		return int(l.PaidInstallments)
	}
	n := 0
	for _, e := range schedule {
		if e.Status == PaymentPaid {
			n++
		}
	}
	return n
}

// ProgressPercent is paid/total as a whole percentage, capped at 100.
func (l Loan) ProgressPercent(paid int) int {
	if l.InstallmentCount <= 0 {
		return 0
	}
	p := paid * 100 / int(l.InstallmentCount)
	if p > 100 {
		return 100
	}
	return p
}

// PaymentStatus is the schedule entry state.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// PaymentScheduleEntry is one installment of a loan.
type PaymentScheduleEntry struct {
	ID      ID            `json:"id"`
	DueDate string        `json:"due_date"`
	Amount  Money         `json:"amount"`
	Status  PaymentStatus `json:"status"`
}

// Overdue derives the overdue flag: unpaid and due before today.
func (e PaymentScheduleEntry) Overdue(now time.Time) bool {
	if e.Status == PaymentPaid {
		return false
	}
	due, ok := ParseAPIDate(e.DueDate)
	if !ok {
		return false
	}
	return StartOfDay(due).Before(StartOfDay(now))
}

// Label returns the Thai status chip text.
func (e PaymentScheduleEntry) Label(now time.Time) string {
	switch {
	case e.Status == PaymentPaid:
		return "ชำระแล้ว"
	case e.Overdue(now):
		return "เกินกำหนด"
	default:
		return "รอดำเนินการ"
	}
}

// Tone maps the entry state to an alert colour.
func (e PaymentScheduleEntry) Tone(now time.Time) string {
	switch {
	case e.Status == PaymentPaid:
		return "success"
	case e.Overdue(now):
		return "error"
	default:
		return "warning"
	}
}

// FundReport is the loan-pool summary served by /fundaccount/{id}/report.
type FundReport struct {
	TotalLoans   Count `json:"totalLoans"`
	TotalAmount  Money `json:"totalAmount"`
	OverdueLoans Count `json:"overdueLoans"`
}
