// Package format renders money, dates and transactions the way the Thai
// admin pages show them.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/puyolnw/F/internal/domain"
)

// Baht formats an amount in th-TH currency style: ฿1,234.56, -฿50.00.
func Baht(m domain.Money) string {
	return BahtDecimal(m.Decimal)
}

// BahtDecimal is Baht for a bare decimal.
func BahtDecimal(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "฿" + groupDigits(d.StringFixed(2))
}

// Number formats with thousands separators and two decimals, no symbol.
func Number(m domain.Money) string {
	d := m.Decimal
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + groupDigits(d.StringFixed(2))
}

// Float formats a float64 the same way, for statistics.
func Float(v float64) string {
	return BahtDecimal(decimal.NewFromFloat(v))
}

func groupDigits(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var thaiMonthsShort = [...]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// BuddhistYear converts a Gregorian year.
func BuddhistYear(year int) int {
	return year + 543
}

// InvalidDate is shown for missing or unparsable dates.
const InvalidDate = "N/A"

// ThaiDate renders an API date as "5 มีนาคม 2567".
func ThaiDate(s string) string {
	t, ok := domain.ParseAPIDate(s)
	if !ok {
		return InvalidDate
	}
	return ThaiDateOf(t)
}

// ThaiDateOf renders t as "5 มีนาคม 2567".
func ThaiDateOf(t time.Time) string {
	t = t.In(domain.Bangkok)
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], BuddhistYear(t.Year()))
}

// ThaiShortDate renders "5 มี.ค. 67".
func ThaiShortDate(s string) string {
	t, ok := domain.ParseAPIDate(s)
	if !ok {
		return InvalidDate
	}
	t = t.In(domain.Bangkok)
	return fmt.Sprintf("%d %s %02d", t.Day(), thaiMonthsShort[t.Month()-1], BuddhistYear(t.Year())%100)
}

// ThaiDateTime renders t as "5 มีนาคม 2567 14:30 น.".
func ThaiDateTime(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	t = t.In(domain.Bangkok)
	return fmt.Sprintf("%s %s น.", ThaiDateOf(t), t.Format("15:04"))
}

// InputDate formats t for an <input type="date"> and the API's payment_date.
func InputDate(t time.Time) string {
	return t.In(domain.Bangkok).Format("2006-01-02")
}

// TransactionDisplay is how one transaction row is shown.
type TransactionDisplay struct {
	Kind   domain.TransactionKind
	Label  string
	Sign   string
	Amount string // unsigned, currency formatted
	Tone   string
}

// Signed is the amount with its sign: "+฿500.00" / "-฿200.00".
func (d TransactionDisplay) Signed() string {
	return d.Sign + d.Amount
}

// Transaction labels.
const (
	DepositLabel     = "ฝากเงิน"
	WithdrawalLabel  = "ถอนเงิน"
	LoanPaymentLabel = "ชำระเงินกู้"
	UnknownLabel     = "ไม่ระบุ"
)

// DescribeTransaction picks label, sign and colour. A deposit is positive,
// a withdrawal negative; deposit wins when both are non-zero.
func DescribeTransaction(tx domain.Transaction) TransactionDisplay {
	switch tx.Kind() {
	case domain.KindDeposit:
		return TransactionDisplay{Kind: domain.KindDeposit, Label: DepositLabel, Sign: "+", Amount: Baht(tx.Deposit), Tone: "success"}
	case domain.KindWithdrawal:
		return TransactionDisplay{Kind: domain.KindWithdrawal, Label: WithdrawalLabel, Sign: "-", Amount: Baht(tx.Withdrawal), Tone: "error"}
	default:
		return TransactionDisplay{Kind: domain.KindUnknown, Label: UnknownLabel, Amount: Baht(domain.Money{}), Tone: "default"}
	}
}
