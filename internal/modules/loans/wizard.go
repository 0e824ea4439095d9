// Package loans implements the loan contract wizard, the repayment screen
// and the loan history and detail pages.
package loans

import (
	"strconv"
	"strings"

	"github.com/puyolnw/F/internal/domain"
)

// Step is a wizard position.
type Step int

const (
	StepPersonal Step = iota + 1
	StepGuarantor
	StepFinancial
	StepReview
	StepSubmitted
)

// Title is the Thai step heading.
func (s Step) Title() string {
	switch s {
	case StepPersonal:
		return "ข้อมูลส่วนตัว"
	case StepGuarantor:
		return "ข้อมูลผู้ค้ำประกัน"
	case StepFinancial:
		return "ข้อมูลการเงิน"
	case StepReview:
		return "ตรวจสอบข้อมูล"
	case StepSubmitted:
		return "บันทึกเรียบร้อย"
	default:
		return ""
	}
}

// Field is one wizard input.
type Field struct {
	Name     string
	Label    string
	Required string
	Type     string
}

// DefaultInterestRate pre-fills the financial step.
const DefaultInterestRate = "5.00"

const (
	MsgInvalidLoanAmount  = "จำนวนเงินกู้ต้องมากกว่า 0"
	MsgInvalidInterest    = "อัตราดอกเบี้ยต้องไม่ติดลบ"
	MsgInvalidInstallment = "จำนวนงวดต้องเป็นจำนวนเต็มบวก"
	MsgCreated            = "บันทึกข้อมูลสำเร็จ"
	MsgCreateFailed       = "เกิดข้อผิดพลาดในการเชื่อมต่อกับเซิร์ฟเวอร์"
)

var stepFields = map[Step][]Field{
	StepPersonal: {
		{Name: "title", Label: "คำนำหน้าชื่อ", Required: "กรุณากรอกคำนำหน้าชื่อ"},
		{Name: "first_name", Label: "ชื่อ", Required: "กรุณากรอกชื่อ"},
		{Name: "last_name", Label: "นามสกุล", Required: "กรุณากรอกนามสกุล"},
		{Name: "address", Label: "ที่อยู่", Required: "กรุณากรอกที่อยู่"},
		{Name: "birth_date", Label: "วันเกิด", Required: "กรุณากรอกวันเกิด", Type: "date"},
	},
	StepGuarantor: {
		{Name: "phone_number", Label: "หมายเลขโทรศัพท์", Required: "กรุณากรอกหมายเลขโทรศัพท์", Type: "tel"},
		{Name: "id_card_number", Label: "หมายเลขบัตรประชาชน", Required: "กรุณากรอกหมายเลขบัตรประชาชน"},
		{Name: "guarantor_1_name", Label: "ชื่อผู้ค้ำประกัน 1", Required: "กรุณากรอกชื่อผู้ค้ำประกัน 1"},
		{Name: "guarantor_2_name", Label: "ชื่อผู้ค้ำประกัน 2", Required: "กรุณากรอกชื่อผู้ค้ำประกัน 2"},
	},
	StepFinancial: {
		{Name: "committee_1_name", Label: "ชื่อกรรมการคนที่ 1", Required: "กรุณากรอกชื่อกรรมการคนที่ 1"},
		{Name: "committee_2_name", Label: "ชื่อกรรมการคนที่ 2", Required: "กรุณากรอกชื่อกรรมการคนที่ 2"},
		{Name: "bank_account_number", Label: "เลขบัญชีธนาคาร", Required: "กรุณากรอกเลขบัญชีธนาคาร"},
		{Name: "bank_name", Label: "ชื่อธนาคาร", Required: "กรุณากรอกชื่อธนาคาร"},
		{Name: "loan_amount", Label: "จำนวนเงินกู้", Required: "กรุณากรอกจำนวนเงินกู้", Type: "number"},
		{Name: "interest_rate", Label: "อัตราดอกเบี้ย (%)", Type: "number"},
		{Name: "installment_count", Label: "จำนวนงวด", Required: "กรุณากรอกจำนวนงวด", Type: "number"},
	},
}

// FieldsFor returns the inputs of step s.
func FieldsFor(s Step) []Field {
	return stepFields[s]
}

// Wizard is the loan contract form. It lives in the session between steps.
type Wizard struct {
	Step    Step
	Values  map[string]string
	Errors  map[string]string
	Message string
}

// NewWizard starts at the first step with the default interest rate.
func NewWizard() Wizard {
	return Wizard{
		Step:   StepPersonal,
		Values: map[string]string{"interest_rate": DefaultInterestRate},
		Errors: map[string]string{},
	}
}

// Clone copies the maps so a stored wizard is never mutated in place.
func (w Wizard) Clone() Wizard {
	out := Wizard{Step: w.Step, Message: w.Message, Values: map[string]string{}, Errors: map[string]string{}}
	for k, v := range w.Values {
		out.Values[k] = v
	}
	for k, v := range w.Errors {
		out.Errors[k] = v
	}
	return out
}

// Fields returns the inputs of the current step.
func (w Wizard) Fields() []Field {
	return FieldsFor(w.Step)
}

// Value returns a field value.
func (w Wizard) Value(name string) string {
	return w.Values[name]
}

// Update stores the submitted values of the current step. Fields of other
// steps are ignored.
func (w *Wizard) Update(get func(name string) string) {
	for _, f := range FieldsFor(w.Step) {
		w.Values[f.Name] = strings.TrimSpace(get(f.Name))
		delete(w.Errors, f.Name)
	}
}

// Next validates the current step and advances when it is complete.
func (w *Wizard) Next() bool {
	if w.Step >= StepReview {
		return false
	}
	errs := w.validate(w.Step)
	w.Errors = errs
	if len(errs) > 0 {
		return false
	}
	w.Step++
	return true
}

// Back returns to the previous step without validating.
func (w *Wizard) Back() {
	w.Errors = map[string]string{}
	if w.Step > StepPersonal && w.Step <= StepReview {
		w.Step--
	}
}

// ValidateAll checks every step. On failure the wizard moves to the first
// incomplete step.
func (w *Wizard) ValidateAll() bool {
	for s := StepPersonal; s <= StepFinancial; s++ {
		if errs := w.validate(s); len(errs) > 0 {
			w.Step = s
			w.Errors = errs
			return false
		}
	}
	return true
}

func (w Wizard) validate(s Step) map[string]string {
	errs := map[string]string{}
	for _, f := range FieldsFor(s) {
		if f.Required != "" && strings.TrimSpace(w.Values[f.Name]) == "" {
			errs[f.Name] = f.Required
		}
	}
	if s != StepFinancial {
		return errs
	}

	if _, ok := errs["loan_amount"]; !ok {
		if amount, err := domain.ParseMoney(w.Values["loan_amount"]); err != nil || !amount.IsPositive() {
			errs["loan_amount"] = MsgInvalidLoanAmount
		}
	}
	if raw := strings.TrimSpace(w.Values["interest_rate"]); raw != "" {
		if rate, err := domain.ParseMoney(raw); err != nil || rate.IsNegative() {
			errs["interest_rate"] = MsgInvalidInterest
		}
	}
	if _, ok := errs["installment_count"]; !ok {
		if n, err := strconv.Atoi(w.Values["installment_count"]); err != nil || n <= 0 {
			errs["installment_count"] = MsgInvalidInstallment
		}
	}
	return errs
}

// Input builds the POST body. Call only after ValidateAll.
func (w Wizard) Input() domain.LoanInput {
	amount, _ := domain.ParseMoney(w.Values["loan_amount"])
	rate, err := domain.ParseMoney(w.Values["interest_rate"])
	if err != nil {
		rate = domain.MustMoney(DefaultInterestRate)
	}
	n, _ := strconv.Atoi(w.Values["installment_count"])

	return domain.LoanInput{
		Title:             w.Values["title"],
		FirstName:         w.Values["first_name"],
		LastName:          w.Values["last_name"],
		Address:           w.Values["address"],
		BirthDate:         w.Values["birth_date"],
		PhoneNumber:       w.Values["phone_number"],
		IDCardNumber:      w.Values["id_card_number"],
		Guarantor1Name:    w.Values["guarantor_1_name"],
		Guarantor2Name:    w.Values["guarantor_2_name"],
		Committee1Name:    w.Values["committee_1_name"],
		Committee2Name:    w.Values["committee_2_name"],
		BankAccountNumber: w.Values["bank_account_number"],
		BankName:          w.Values["bank_name"],
		LoanAmount:        amount,
		InterestRate:      rate,
		InstallmentCount:  n,
	}
}

// ReviewRows lists every field and value for the review step.
func (w Wizard) ReviewRows() []ReviewRow {
	var rows []ReviewRow
	for s := StepPersonal; s <= StepFinancial; s++ {
		for _, f := range FieldsFor(s) {
			rows = append(rows, ReviewRow{Step: s, Label: f.Label, Value: w.Values[f.Name]})
		}
	}
	return rows
}

// ReviewRow is one line of the review table.
type ReviewRow struct {
	Step  Step
	Label string
	Value string
}
