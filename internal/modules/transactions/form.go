// Package transactions implements the deposit/withdrawal form and the
// transaction history, detail, edit and delete screens.
package transactions

import (
	"strings"

	"github.com/puyolnw/F/internal/domain"
)

// Messages shown on the transaction screens.
const (
	MsgInvalidNumber  = "กรุณากรอกตัวเลขที่ถูกต้อง"
	MsgNotPositive    = "จำนวนเงินต้องมากกว่า 0"
	MsgAmountRequired = "กรุณากรอกจำนวนเงิน"
	MsgSelectAccount  = "กรุณาเลือกบัญชีก่อนทำรายการ"
	MsgNoUser         = "ไม่พบข้อมูลผู้ใช้งาน กรุณาเข้าสู่ระบบอีกครั้ง"
	MsgSuccess        = "ทำรายการสำเร็จ!"
	MsgFailed         = "เกิดข้อผิดพลาดในการทำรายการ"
	MsgDuplicate      = "รายการนี้กำลังดำเนินการหรือทำรายการไปแล้ว"
	MsgLoadFailed     = "ไม่สามารถโหลดข้อมูลได้"
	MsgDetailFailed   = "ไม่พบข้อมูลธุรกรรมหรือเกิดข้อผิดพลาดในการดึงข้อมูล"
	MsgConfirmDelete  = "คุณต้องการลบรายการนี้ใช่หรือไม่?"
	MsgInvalidDate    = "รูปแบบวันที่ไม่ถูกต้อง"
	MsgInvalidTime    = "รูปแบบเวลาไม่ถูกต้อง"
)

// Kind is the form mode.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// ParseKind defaults to deposit for anything unrecognised.
func ParseKind(s string) Kind {
	if Kind(strings.TrimSpace(s)) == KindWithdraw {
		return KindWithdraw
	}
	return KindDeposit
}

// TransactionType is the wire value sent to the API.
func (k Kind) TransactionType() domain.TransactionType {
	if k == KindWithdraw {
		return domain.TransactionWithdrawal
	}
	return domain.TransactionDeposit
}

// Label is the Thai action name.
func (k Kind) Label() string {
	if k == KindWithdraw {
		return "ถอนเงิน"
	}
	return "ฝากเงิน"
}

// ConfirmLabel is the submit button text.
func (k Kind) ConfirmLabel() string {
	if k == KindWithdraw {
		return "ยืนยันการถอนเงิน"
	}
	return "ยืนยันการฝากเงิน"
}

// ValidateAmount checks a raw amount field. Empty input is not an error yet
// (the user has not typed anything), so it yields a zero amount and no message.
func ValidateAmount(raw string) (domain.Money, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Money{}, ""
	}
	amount, err := domain.ParseMoney(raw)
	if err != nil {
		return domain.Money{}, MsgInvalidNumber
	}
	if !amount.IsPositive() {
		return domain.Money{}, MsgNotPositive
	}
	return amount, ""
}
