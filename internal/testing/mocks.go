package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/puyolnw/F/internal/domain"
)

// RecordedRequest is one call received by FakeFundAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// DecodeBody unmarshals the recorded JSON body into a map.
func (r RecordedRequest) DecodeBody() map[string]interface{} {
	out := map[string]interface{}{}
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type failure struct {
	status  int
	message string
}

// FakeFundAPI is an in-memory stand-in for the fund REST API. Seed the
// exported slices before issuing requests; every request is recorded.
type FakeFundAPI struct {
	mu sync.RWMutex

	Accounts     []domain.Account
	Transactions []domain.Transaction
	Members      []domain.Member
	Loans        []domain.Loan
	Payments     map[domain.ID][]domain.PaymentScheduleEntry
	Upcoming     map[domain.ID][]domain.PaymentScheduleEntry
	Funds        []domain.FundAccount
	Reports      map[domain.ID]domain.FundReport

	failures map[string]failure
	requests []RecordedRequest
	nextID   int
	server   *httptest.Server
}

// NewFakeFundAPI starts a fake seeded with the standard fixtures.
func NewFakeFundAPI(t *testing.T) *FakeFundAPI {
	t.Helper()

	f := &FakeFundAPI{
		Accounts:     NewAccountFixtures(),
		Transactions: NewTransactionFixtures(),
		Members:      NewMemberFixtures(),
		Loans:        NewLoanFixtures(),
		Payments:     map[domain.ID][]domain.PaymentScheduleEntry{"1": NewScheduleFixtures()},
		Upcoming: map[domain.ID][]domain.PaymentScheduleEntry{
			"1": NewScheduleFixtures()[2:],
			"2": {{ID: "201", DueDate: "2024-03-01", Amount: domain.MustMoney("1050"), Status: domain.PaymentPending}},
		},
		Funds:    NewFundAccountFixtures(),
		Reports:  map[domain.ID]domain.FundReport{"4": {TotalLoans: 3, TotalAmount: domain.MustMoney("21000"), OverdueLoans: 1}},
		failures: map[string]failure{},
		nextID:   1000,
	}
	f.server = httptest.NewServer(f.routes())
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base address to hand to fundapi.NewClient.
func (f *FakeFundAPI) URL() string {
	return f.server.URL
}

// Fail makes method+path answer with status and a {"message": ...} body.
func (f *FakeFundAPI) Fail(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, message: message}
}

// Requests returns the recorded calls for method+path.
func (f *FakeFundAPI) Requests(method, path string) []RecordedRequest {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []RecordedRequest
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Count is len(Requests(method, path)).
func (f *FakeFundAPI) Count(method, path string) int {
	return len(f.Requests(method, path))
}

// TotalRequests counts every call received.
func (f *FakeFundAPI) TotalRequests() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.requests)
}

func (f *FakeFundAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", f.listAccounts)
		r.Get("/accounts/search", f.searchAccounts)
		r.Get("/accounts/{id}", f.getAccount)

		r.Get("/transactions", f.listTransactions)
		r.Post("/transactions", f.createTransaction)
		r.Get("/transactions/{id}", f.getTransaction)
		r.Put("/transactions/{id}", f.updateTransaction)
		r.Delete("/transactions/{id}", f.deleteTransaction)
		r.Get("/transactions/accounts/{number}/transactions", f.accountTransactions)

		r.Get("/members", f.listMembers)
		r.Post("/members", f.createMember)

		r.Get("/loan", f.listLoans)
		r.Post("/loan", f.createLoan)
		r.Post("/loan/repayment", f.repay)
		r.Get("/loan/{id}", f.getLoan)
		r.Get("/loan/{id}/payments", f.loanPayments)
		r.Get("/loan/{id}/upcoming-payments", f.upcomingPayments)

		r.Get("/fundaccount", f.listFunds)
		r.Get("/fundaccount/{id}", f.getFund)
		r.Get("/fundaccount/{id}/report", f.fundReport)
	})
	return r
}

func (f *FakeFundAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		fail, failing := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if failing {
			writeJSON(w, fail.status, map[string]string{"message": fail.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "ไม่พบข้อมูล"})
}

func (f *FakeFundAPI) newID() domain.ID {
	f.nextID++
	return domain.ID(strconv.Itoa(f.nextID))
}

func (f *FakeFundAPI) listAccounts(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	writeJSON(w, http.StatusOK, f.Accounts)
}

func (f *FakeFundAPI) searchAccounts(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(r.URL.Query().Get("term"))
	f.mu.RLock()
	defer f.mu.RUnlock()
	results := []domain.Account{}
	for _, a := range f.Accounts {
		if strings.Contains(strings.ToLower(a.Name), term) || strings.Contains(a.Number, term) {
			results = append(results, a)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "results": results})
}

func (f *FakeFundAPI) getAccount(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, a := range f.Accounts {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	notFound(w)
}

func (f *FakeFundAPI) listTransactions(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	writeJSON(w, http.StatusOK, f.Transactions)
}

func (f *FakeFundAPI) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := -1
	for i, a := range f.Accounts {
		if a.Number == in.AccountNumber {
			idx = i
		}
	}
	if idx < 0 {
		notFound(w)
		return
	}

	acc := &f.Accounts[idx]
	tx := domain.Transaction{
		ID:            f.newID(),
		AccountNumber: in.AccountNumber,
		Date:          "2024-06-01",
		Time:          "12:00:00",
		ByUser:        in.ByUser,
		Channel:       in.Channel,
	}
	if in.TransactionType == domain.TransactionWithdrawal {
		if in.Amount.GreaterThan(acc.Balance) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "ยอดเงินในบัญชีไม่เพียงพอ"})
			return
		}
		tx.Withdrawal = in.Amount
		acc.Balance = acc.Balance.Sub(in.Amount)
	} else {
		tx.Deposit = in.Amount
		acc.Balance = acc.Balance.Add(in.Amount)
	}
	tx.RunningBalance = acc.Balance
	tx.Balance = acc.Balance
	f.Transactions = append(f.Transactions, tx)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "ทำรายการสำเร็จ", "transaction": tx})
}

func (f *FakeFundAPI) findTransaction(id domain.ID) int {
	for i, tx := range f.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeFundAPI) getTransaction(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.findTransaction(domain.ID(chi.URLParam(r, "id")))
	if i < 0 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.Transactions[i])
}

func (f *FakeFundAPI) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findTransaction(domain.ID(chi.URLParam(r, "id")))
	if i < 0 {
		notFound(w)
		return
	}
	tx := &f.Transactions[i]
	tx.Deposit = in.Deposit
	tx.Withdrawal = in.Withdrawal
	tx.Date = in.TransactionDate
	tx.Time = in.TransactionTime
	writeJSON(w, http.StatusOK, map[string]string{"message": "แก้ไขสำเร็จ"})
}

func (f *FakeFundAPI) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findTransaction(domain.ID(chi.URLParam(r, "id")))
	if i < 0 {
		notFound(w)
		return
	}
	f.Transactions = append(f.Transactions[:i], f.Transactions[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "ลบสำเร็จ"})
}

func (f *FakeFundAPI) accountTransactions(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []domain.Transaction{}
	for _, tx := range f.Transactions {
		if tx.AccountNumber == number {
			out = append(out, tx)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeFundAPI) listMembers(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	writeJSON(w, http.StatusOK, f.Members)
}

func (f *FakeFundAPI) createMember(w http.ResponseWriter, r *http.Request) {
	var in domain.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.Members {
		if m.IDCardNumber == in.IDCardNumber {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "เลขบัตรประชาชนนี้มีอยู่ในระบบแล้ว"})
			return
		}
	}
	f.Members = append(f.Members, domain.Member{
		ID:            f.newID(),
		IDCardNumber:  in.IDCardNumber,
		FullName:      in.FullName,
		BirthDate:     in.BirthDate,
		Gender:        in.Gender,
		HouseCode:     in.HouseCode,
		Address:       in.Address,
		PhoneNumber:   in.PhoneNumber,
		MaritalStatus: in.MaritalStatus,
		HasAccount:    1,
		CreatedBy:     in.CreatedBy,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
}

func (f *FakeFundAPI) listLoans(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	writeJSON(w, http.StatusOK, f.Loans)
}

func (f *FakeFundAPI) createLoan(w http.ResponseWriter, r *http.Request) {
	var in domain.LoanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loans = append(f.Loans, domain.Loan{
		ID:               f.newID(),
		Title:            in.Title,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		LoanAmount:       in.LoanAmount,
		InterestRate:     in.InterestRate,
		InstallmentCount: domain.Count(in.InstallmentCount),
		RemainingBalance: in.LoanAmount,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
}

func (f *FakeFundAPI) findLoan(id domain.ID) int {
	for i, l := range f.Loans {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeFundAPI) getLoan(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.findLoan(domain.ID(chi.URLParam(r, "id")))
	if i < 0 {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.Loans[i])
}

func (f *FakeFundAPI) loanPayments(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := f.Payments[domain.ID(chi.URLParam(r, "id"))]
	if out == nil {
		out = []domain.PaymentScheduleEntry{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeFundAPI) upcomingPayments(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := f.Upcoming[domain.ID(chi.URLParam(r, "id"))]
	if out == nil {
		out = []domain.PaymentScheduleEntry{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeFundAPI) repay(w http.ResponseWriter, r *http.Request) {
	var in domain.RepaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.findLoan(in.LoanContractID)
	if i < 0 {
		notFound(w)
		return
	}
	loan := &f.Loans[i]
	loan.TotalPaid = loan.TotalPaid.Add(in.AmountPaid)
	loan.RemainingBalance = loan.RemainingBalance.Sub(in.AmountPaid)
	loan.PaidInstallments++

	upcoming := f.Upcoming[loan.ID]
	for j, p := range upcoming {
		if p.ID == in.PaymentScheduleID {
			f.Upcoming[loan.ID] = append(upcoming[:j:j], upcoming[j+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "ชำระเงินสำเร็จ"})
}

func (f *FakeFundAPI) listFunds(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	writeJSON(w, http.StatusOK, f.Funds)
}

func (f *FakeFundAPI) getFund(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "id"))
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, a := range f.Funds {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	notFound(w)
}

func (f *FakeFundAPI) fundReport(w http.ResponseWriter, r *http.Request) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	report, ok := f.Reports[domain.ID(chi.URLParam(r, "id"))]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
