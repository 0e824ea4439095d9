package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(w *Wizard, values map[string]string) {
	w.Update(func(name string) string { return values[name] })
}

var completeValues = map[string]string{
	"title":               "นาย",
	"first_name":          "สมชาย",
	"last_name":           "ใจดี",
	"address":             "12 หมู่ 3",
	"birth_date":          "1980-05-01",
	"phone_number":        "0812345678",
	"id_card_number":      "1100100100101",
	"guarantor_1_name":    "มานี มีนา",
	"guarantor_2_name":    "ปิติ รักเรียน",
	"committee_1_name":    "กรรมการ หนึ่ง",
	"committee_2_name":    "กรรมการ สอง",
	"bank_account_number": "123-4-56789-0",
	"bank_name":           "ธ.ก.ส.",
	"loan_amount":         "12000",
	"interest_rate":       "5.00",
	"installment_count":   "12",
}

func walkToReview(t *testing.T) Wizard {
	t.Helper()
	w := NewWizard()
	for w.Step < StepReview {
		fill(&w, completeValues)
		require.True(t, w.Next(), "step %d", w.Step)
	}
	return w
}

func TestNewWizard_Defaults(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepPersonal, w.Step)
	assert.Equal(t, DefaultInterestRate, w.Value("interest_rate"))
}

func TestNext_BlocksOnMissingFields(t *testing.T) {
	w := NewWizard()
	fill(&w, map[string]string{"title": "นาย", "first_name": "สมชาย"})

	assert.False(t, w.Next())
	assert.Equal(t, StepPersonal, w.Step)
	assert.Equal(t, "กรุณากรอกนามสกุล", w.Errors["last_name"])
	assert.Equal(t, "กรุณากรอกที่อยู่", w.Errors["address"])
	assert.NotContains(t, w.Errors, "title")
}

func TestBack_DoesNotValidate(t *testing.T) {
	w := NewWizard()
	fill(&w, completeValues)
	require.True(t, w.Next())
	require.Equal(t, StepGuarantor, w.Step)

	fill(&w, map[string]string{})
	w.Back()
	assert.Equal(t, StepPersonal, w.Step)
	assert.Empty(t, w.Errors)

	w.Back()
	assert.Equal(t, StepPersonal, w.Step)
}

func TestFinancialStep_NumericChecks(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  string
	}{
		{"loan_amount", "0", MsgInvalidLoanAmount},
		{"loan_amount", "abc", MsgInvalidLoanAmount},
		{"interest_rate", "-1", MsgInvalidInterest},
		{"installment_count", "1.5", MsgInvalidInstallment},
		{"installment_count", "0", MsgInvalidInstallment},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			w := NewWizard()
			w.Step = StepFinancial
			values := map[string]string{}
			for k, v := range completeValues {
				values[k] = v
			}
			values[tt.field] = tt.value
			fill(&w, values)

			assert.False(t, w.Next())
			assert.Equal(t, tt.want, w.Errors[tt.field])
		})
	}
}

func TestUpdate_OnlyTouchesCurrentStep(t *testing.T) {
	w := NewWizard()
	fill(&w, completeValues)
	assert.Empty(t, w.Value("bank_name"))
	assert.Equal(t, "สมชาย", w.Value("first_name"))
}

func TestValidateAll_JumpsToFirstIncompleteStep(t *testing.T) {
	w := walkToReview(t)
	w.Values["guarantor_1_name"] = ""

	assert.False(t, w.ValidateAll())
	assert.Equal(t, StepGuarantor, w.Step)
	assert.Equal(t, "กรุณากรอกชื่อผู้ค้ำประกัน 1", w.Errors["guarantor_1_name"])
}

func TestInput(t *testing.T) {
	w := walkToReview(t)
	in := w.Input()
	assert.Equal(t, "สมชาย", in.FirstName)
	assert.Equal(t, "12000", in.LoanAmount.String())
	assert.Equal(t, "5", in.InterestRate.String())
	assert.Equal(t, 12, in.InstallmentCount)
}

func TestClone_IsIndependent(t *testing.T) {
	w := NewWizard()
	c := w.Clone()
	c.Values["title"] = "นาง"
	assert.Empty(t, w.Value("title"))
}

func TestReviewRows(t *testing.T) {
	w := walkToReview(t)
	rows := w.ReviewRows()
	assert.Len(t, rows, len(FieldsFor(StepPersonal))+len(FieldsFor(StepGuarantor))+len(FieldsFor(StepFinancial)))
	assert.Equal(t, "คำนำหน้าชื่อ", rows[0].Label)
	assert.Equal(t, "นาย", rows[0].Value)
}
