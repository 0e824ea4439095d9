package loans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/puyolnw/F/internal/clients/fundapi"
	"github.com/puyolnw/F/internal/domain"
	"github.com/puyolnw/F/internal/format"
)

// API is the part of the fund client used by the loan screens.
type API interface {
	ListLoans(ctx context.Context) ([]domain.Loan, error)
	CreateLoan(ctx context.Context, in domain.LoanInput) error
	GetLoan(ctx context.Context, id domain.ID) (domain.Loan, error)
	ListLoanPayments(ctx context.Context, id domain.ID) ([]domain.PaymentScheduleEntry, error)
	ListUpcomingPayments(ctx context.Context, id domain.ID) ([]domain.PaymentScheduleEntry, error)
	CreateRepayment(ctx context.Context, in domain.RepaymentInput) error
}

// Payment screen messages.
const (
	MsgAmountRequired = "กรุณากรอกจำนวนเงิน"
	MsgInvalidNumber  = "กรุณากรอกตัวเลขที่ถูกต้อง"
	MsgNotPositive    = "จำนวนเงินต้องมากกว่า 0"
	MsgOverpay        = "ไม่สามารถชำระเงินเกินยอดคงเหลือ %s"
	MsgSelectLoan     = "กรุณาเลือกสัญญาก่อน"
	MsgPaid           = "ชำระเงินสำเร็จ"
	MsgPayFailed      = "เกิดข้อผิดพลาดในการชำระเงิน"
	MsgConnection     = "เกิดข้อผิดพลาดในการเชื่อมต่อ"
	MsgLoadFailed     = "ไม่สามารถโหลดข้อมูลได้"
	MsgLoanNotFound   = "ไม่พบข้อมูลสัญญากู้ยืม"
)

// ErrNotReviewed is returned by Submit outside the review step.
var ErrNotReviewed = errors.New("loan contract has not reached review")

// ErrIncomplete is returned by Submit when a step fails validation.
var ErrIncomplete = errors.New("loan contract is incomplete")

// ValidationError is a payment error caught before any API call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidatePayment checks an amount against the loan's reported remaining
// balance. Nothing here touches the network.
func ValidatePayment(loan domain.Loan, raw string) (domain.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Money{}, &ValidationError{Message: MsgAmountRequired}
	}
	amount, err := domain.ParseMoney(raw)
	if err != nil {
		return domain.Money{}, &ValidationError{Message: MsgInvalidNumber}
	}
	if !amount.IsPositive() {
		return domain.Money{}, &ValidationError{Message: MsgNotPositive}
	}
	if amount.GreaterThan(loan.RemainingBalance) {
		return domain.Money{}, &ValidationError{Message: fmt.Sprintf(MsgOverpay, format.Baht(loan.RemainingBalance))}
	}
	return amount, nil
}

// Service runs the loan screens against the fund API.
type Service struct {
	api API
	now func() time.Time
	log zerolog.Logger
}

// NewService creates the loan service.
func NewService(api API, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		now: time.Now,
		log: log.With().Str("service", "loans").Logger(),
	}
}

// Submit posts the wizard's contract. It only runs from the review step and
// re-validates every step first, so a partial contract is never sent.
func (s *Service) Submit(ctx context.Context, w *Wizard) error {
	if w.Step != StepReview {
		return ErrNotReviewed
	}
	if !w.ValidateAll() {
		return ErrIncomplete
	}

	in := w.Input()
	if err := s.api.CreateLoan(ctx, in); err != nil {
		w.Message = fundapi.MessageOr(err, MsgCreateFailed)
		s.log.Warn().Err(err).Str("borrower", in.FirstName+" "+in.LastName).Msg("Loan contract rejected")
		return err
	}

	s.log.Info().
		Str("borrower", in.FirstName+" "+in.LastName).
		Str("amount", in.LoanAmount.StringFixed(2)).
		Int("installments", in.InstallmentCount).
		Msg("Loan contract created")

	*w = NewWizard()
	w.Step = StepSubmitted
	w.Message = MsgCreated
	return nil
}

// ActiveLoans returns loans that still have a remaining balance.
func (s *Service) ActiveLoans(ctx context.Context) ([]domain.Loan, error) {
	all, err := s.api.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Loan, 0, len(all))
	for _, l := range all {
		if l.Outstanding() {
			active = append(active, l)
		}
	}
	return active, nil
}

// Upcoming returns the unpaid installments of a loan.
func (s *Service) Upcoming(ctx context.Context, id domain.ID) ([]domain.PaymentScheduleEntry, error) {
	return s.api.ListUpcomingPayments(ctx, id)
}

// Payment is one repayment request from the screen.
type Payment struct {
	Loan     domain.Loan
	Upcoming []domain.PaymentScheduleEntry
	Amount   string
	Date     time.Time
}

// Pay validates and posts one repayment against the first upcoming
// installment. The returned message is the one to show the user.
func (s *Service) Pay(ctx context.Context, p Payment) (string, error) {
	amount, err := ValidatePayment(p.Loan, p.Amount)
	if err != nil {
		return err.Error(), err
	}

	date := p.Date
	if date.IsZero() {
		date = s.now()
	}
	in := domain.RepaymentInput{
		LoanContractID: p.Loan.ID,
		AmountPaid:     amount,
		PaymentDate:    date.In(domain.Bangkok).Format("2006-01-02"),
		PaymentMethod:  domain.PaymentMethodCash,
	}
	if len(p.Upcoming) > 0 {
		in.PaymentScheduleID = p.Upcoming[0].ID
	}

	if err := s.api.CreateRepayment(ctx, in); err != nil {
		s.log.Warn().Err(err).Str("loan_id", p.Loan.ID.String()).Msg("Repayment rejected")
		var apiErr *fundapi.APIError
		if errors.As(err, &apiErr) {
			return fundapi.MessageOr(err, MsgPayFailed), err
		}
		return MsgConnection, err
	}

	s.log.Info().
		Str("loan_id", p.Loan.ID.String()).
		Str("amount", amount.StringFixed(2)).
		Str("schedule_id", in.PaymentScheduleID.String()).
		Msg("Repayment recorded")
	return MsgPaid, nil
}

// History returns every loan, newest contract first.
func (s *Service) History(ctx context.Context) ([]domain.Loan, error) {
	loans, err := s.api.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(loans, func(i, j int) bool {
		a, _ := domain.ParseAPIDate(loans[i].CreatedAt)
		b, _ := domain.ParseAPIDate(loans[j].CreatedAt)
		return a.After(b)
	})
	return loans, nil
}

// Detail is a loan with its schedule and derived progress.
type Detail struct {
	Loan      domain.Loan
	Schedule  []ScheduleRow
	PaidCount int
	Progress  int
	// PaidRatio is total_paid / loan_amount as a percentage with two decimals.
	PaidRatio string
}

var hundred = decimal.NewFromInt(100)

// ScheduleRow is one installment with its status derived against today.
type ScheduleRow struct {
	Entry   domain.PaymentScheduleEntry
	Number  int
	Label   string
	Tone    string
	Overdue bool
}

// Detail loads a loan and its payment schedule.
func (s *Service) Detail(ctx context.Context, id domain.ID) (Detail, error) {
	loan, err := s.api.GetLoan(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	schedule, err := s.api.ListLoanPayments(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	now := s.now()
	d := Detail{Loan: loan, PaidRatio: "0.00"}
	d.PaidCount = loan.PaidCount(schedule)
	d.Progress = loan.ProgressPercent(d.PaidCount)
	if loan.LoanAmount.IsPositive() {
		ratio := loan.TotalPaid.Decimal.Div(loan.LoanAmount.Decimal).Mul(hundred)
		d.PaidRatio = ratio.StringFixed(2)
	}
	for i, e := range schedule {
		d.Schedule = append(d.Schedule, ScheduleRow{
			Entry:   e,
			Number:  i + 1,
			Label:   e.Label(now),
			Tone:    e.Tone(now),
			Overdue: e.Overdue(now),
		})
	}
	return d, nil
}

// UpcomingRows numbers upcoming installments after the ones already paid.
func UpcomingRows(loan domain.Loan, upcoming []domain.PaymentScheduleEntry, now time.Time) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(upcoming))
	for i, e := range upcoming {
		rows = append(rows, ScheduleRow{
			Entry:   e,
			Number:  int(loan.PaidInstallments) + i + 1,
			Label:   e.Label(now),
			Tone:    e.Tone(now),
			Overdue: e.Overdue(now),
		})
	}
	return rows
}
