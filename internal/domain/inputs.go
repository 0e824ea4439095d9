package domain

// Request bodies sent to the fund API.

// TransactionType is the wire value for a new transaction.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// ChannelWeb stamps transactions entered from the admin site.
const ChannelWeb = "web"

// TransactionInput is the POST /api/transactions body.
type TransactionInput struct {
	AccountNumber   string          `json:"account_number"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          Money           `json:"amount"`
	ByUser          string          `json:"by_user"`
	Channel         string          `json:"channel"`
}

// TransactionUpdate is the PUT /api/transactions/{id} body.
type TransactionUpdate struct {
	Deposit         Money  `json:"deposit"`
	Withdrawal      Money  `json:"withdrawal"`
	TransactionDate string `json:"transaction_date"`
	TransactionTime string `json:"transaction_time"`
}

// MemberInput is the POST /api/members body.
type MemberInput struct {
	IDCardNumber  string `json:"id_card_number"`
	FullName      string `json:"full_name"`
	BirthDate     string `json:"birth_date"`
	Gender        string `json:"gender"`
	HouseCode     string `json:"house_code"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phone_number"`
	MaritalStatus string `json:"marital_status"`
	HasAccount    string `json:"has_account"`
	CreatedBy     string `json:"created_by"`
}

// LoanInput is the POST /api/loan body.
type LoanInput struct {
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
	InstallmentCount  int    `json:"installment_count"`
}

// PaymentMethodCash is the only method the admin screen offers.
const PaymentMethodCash = "cash"

// RepaymentInput is the POST /api/loan/repayment body.
type RepaymentInput struct {
	LoanContractID    ID     `json:"loan_contract_id"`
	AmountPaid        Money  `json:"amount_paid"`
	PaymentDate       string `json:"payment_date"`
	PaymentMethod     string `json:"payment_method"`
	PaymentScheduleID ID     `json:"payment_schedule_id"`
}
