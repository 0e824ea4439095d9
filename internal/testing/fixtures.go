package testing

import "github.com/puyolnw/F/internal/domain"

// NewAccountFixtures returns member accounts. The first one is the
// 10-digit account used by the search scenario tests.
func NewAccountFixtures() []domain.Account {
	return []domain.Account{
		{
			ID:        "1",
			Name:      "สมชาย ใจดี",
			Number:    "0001234567",
			Balance:   domain.MustMoney("15000.00"),
			OpenDate:  "2023-01-15",
			CreatedBy: "admin",
			Status:    domain.AccountNormal,
		},
		{
			ID:        "2",
			Name:      "มานี มีนา",
			Number:    "0001234568",
			Balance:   domain.MustMoney("3250.50"),
			OpenDate:  "2023-02-01",
			CreatedBy: "admin",
			Status:    domain.AccountFrozen,
		},
		{
			ID:        "3",
			Name:      "ปิติ รักเรียน",
			Number:    "0009876543",
			Balance:   domain.MustMoney("0"),
			OpenDate:  "2022-11-20",
			CreatedBy: "staff01",
			Status:    domain.AccountClosed,
		},
	}
}

// NewTransactionFixtures returns transactions on the fixture accounts,
// oldest first.
func NewTransactionFixtures() []domain.Transaction {
	return []domain.Transaction{
		{ID: "10", AccountNumber: "0001234567", Date: "2024-01-05", Time: "09:00:00", ByUser: "admin", Channel: "web",
			Deposit: domain.MustMoney("10000"), RunningBalance: domain.MustMoney("10000"), Balance: domain.MustMoney("15000")},
		{ID: "11", AccountNumber: "0001234568", Date: "2024-01-06", Time: "10:30:00", ByUser: "admin", Channel: "web",
			Deposit: domain.MustMoney("3250.50"), RunningBalance: domain.MustMoney("3250.50"), Balance: domain.MustMoney("3250.50")},
		{ID: "12", AccountNumber: "0001234567", Date: "2024-02-10", Time: "14:15:00", ByUser: "staff01", Channel: "counter",
			Withdrawal: domain.MustMoney("500"), RunningBalance: domain.MustMoney("9500"), Balance: domain.MustMoney("15000")},
		{ID: "13", AccountNumber: "0001234567", Date: "2024-03-01", Time: "08:45:00", ByUser: "admin", Channel: "web",
			Deposit: domain.MustMoney("5500"), RunningBalance: domain.MustMoney("15000"), Balance: domain.MustMoney("15000")},
	}
}

// NewMemberFixtures returns registered members.
func NewMemberFixtures() []domain.Member {
	return []domain.Member{
		{ID: "1", IDCardNumber: "1100100100101", FullName: "สมชาย ใจดี", BirthDate: "1980-05-01", Gender: "ชาย",
			HouseCode: "H001", Address: "12 หมู่ 3", PhoneNumber: "0812345678", MaritalStatus: "แต่งงาน", HasAccount: 1},
		{ID: "2", IDCardNumber: "1100100100102", FullName: "มานี มีนา", BirthDate: "1985-08-12", Gender: "หญิง",
			HouseCode: "H002", Address: "45 หมู่ 3", PhoneNumber: "0898765432", MaritalStatus: "โสด", HasAccount: 1},
		{ID: "3", IDCardNumber: "1100100100103", FullName: "ปิติ รักเรียน", BirthDate: "1990-12-30", Gender: "ชาย",
			HouseCode: "H003", Address: "7 หมู่ 4", PhoneNumber: "0861112222", MaritalStatus: "โสด", HasAccount: 0},
	}
}

// NewLoanFixtures returns loan contracts; the last one is fully repaid.
func NewLoanFixtures() []domain.Loan {
	return []domain.Loan{
		{ID: "1", Title: "นาย", FirstName: "สมชาย", LastName: "ใจดี", Address: "12 หมู่ 3", BirthDate: "1980-05-01",
			PhoneNumber: "0812345678", IDCardNumber: "1100100100101", Guarantor1Name: "มานี มีนา", Guarantor2Name: "ปิติ รักเรียน",
			Committee1Name: "กรรมการ หนึ่ง", Committee2Name: "กรรมการ สอง", BankAccountNumber: "123-4-56789-0", BankName: "ธ.ก.ส.",
			LoanAmount: domain.MustMoney("12000"), InterestRate: domain.MustMoney("5.00"), InstallmentCount: 12, PaidInstallments: 2,
			CreatedAt: "2024-01-10T08:00:00.000Z", TotalPaid: domain.MustMoney("2100"), RemainingBalance: domain.MustMoney("10500")},
		{ID: "2", Title: "นาง", FirstName: "มานี", LastName: "มีนา", LoanAmount: domain.MustMoney("6000"),
			InterestRate: domain.MustMoney("5.00"), InstallmentCount: 6, CreatedAt: "2024-02-01T08:00:00.000Z",
			TotalPaid: domain.MustMoney("0"), RemainingBalance: domain.MustMoney("6300")},
		{ID: "3", Title: "นาย", FirstName: "ปิติ", LastName: "รักเรียน", LoanAmount: domain.MustMoney("3000"),
			InterestRate: domain.MustMoney("5.00"), InstallmentCount: 3, PaidInstallments: 3, CreatedAt: "2023-06-01T08:00:00.000Z",
			TotalPaid: domain.MustMoney("3150"), RemainingBalance: domain.MustMoney("0")},
	}
}

// NewScheduleFixtures returns the payment schedule of loan 1.
func NewScheduleFixtures() []domain.PaymentScheduleEntry {
	return []domain.PaymentScheduleEntry{
		{ID: "101", DueDate: "2024-02-10", Amount: domain.MustMoney("1050"), Status: domain.PaymentPaid},
		{ID: "102", DueDate: "2024-03-10", Amount: domain.MustMoney("1050"), Status: domain.PaymentPaid},
		{ID: "103", DueDate: "2024-04-10", Amount: domain.MustMoney("1050"), Status: domain.PaymentPending},
		{ID: "104", DueDate: "2024-05-10", Amount: domain.MustMoney("1050"), Status: domain.PaymentPending},
	}
}

// NewFundAccountFixtures returns the three well-known fund accounts. Only the
// loan pool carries an explicit type; the others rely on the legacy ids.
func NewFundAccountFixtures() []domain.FundAccount {
	return []domain.FundAccount{
		{ID: "1", Name: "บัญชีกองทุนหลัก", Number: "F-0001", Balance: domain.MustMoney("250000"), Status: "active"},
		{ID: "2", Name: "บัญชีเงินสัจจะ", Number: "F-0002", Balance: domain.MustMoney("0"), Status: "active"},
		{ID: "4", Name: "บัญชีกองทุนเงินกู้", Number: "F-0004", Balance: domain.MustMoney("80000"), Status: "active", Type: "loan"},
	}
}
