package domain

import "strings"

// FundKind names the well-known fund accounts.
type FundKind string

const (
	FundMain     FundKind = "main"
	FundSavings  FundKind = "savings" // "sajja"
	FundLoanPool FundKind = "loan_pool"
	FundOther    FundKind = "other"
)

// Title is the Thai heading for the kind.
func (k FundKind) Title() string {
	switch k {
	case FundMain:
		return "บัญชีกองทุนหลัก"
	case FundSavings:
		return "บัญชีเงินสัจจะ"
	case FundLoanPool:
		return "บัญชีกองทุนเงินกู้"
	default:
		return "บัญชีกองทุน"
	}
}

// fundTypeAliases maps the backend's type/category values onto kinds.
var fundTypeAliases = map[string]FundKind{
	"main":      FundMain,
	"primary":   FundMain,
	"หลัก":      FundMain,
	"savings":   FundSavings,
	"saving":    FundSavings,
	"sajja":     FundSavings,
	"สัจจะ":     FundSavings,
	"loan":      FundLoanPool,
	"loans":     FundLoanPool,
	"loan_pool": FundLoanPool,
	"เงินกู้":   FundLoanPool,
}

// legacyFundIDs covers backends that do not send a type field yet.
var legacyFundIDs = map[ID]FundKind{
	"1": FundMain,
	"2": FundSavings,
	"4": FundLoanPool,
}

// ResolveFundKind prefers the backend's own type field and only falls back
// to the legacy id table when the field is missing or unrecognised.
func ResolveFundKind(typeField string, id ID) FundKind {
	if k, ok := fundTypeAliases[strings.ToLower(strings.TrimSpace(typeField))]; ok {
		return k
	}
	if k, ok := legacyFundIDs[id]; ok {
		return k
	}
	return FundOther
}

// FundAccount is a pooled fund-level ledger.
type FundAccount struct {
	ID        ID     `json:"fund_account_id"`
	Name      string `json:"fund_account_name"`
	Number    string `json:"fund_account_number"`
	Balance   Money  `json:"fund_account_balance"`
	OpenDate  string `json:"fund_account_open_date"`
	CreatedBy string `json:"fund_account_created_by"`
	Status    string `json:"fund_account_status"`
	Type      string `json:"fund_account_type,omitempty"`
}

// Kind resolves the account's role.
func (f FundAccount) Kind() FundKind {
	return ResolveFundKind(f.Type, f.ID)
}

// FindFund returns the first account of the given kind.
func FindFund(accounts []FundAccount, kind FundKind) (FundAccount, bool) {
	for _, a := range accounts {
		if a.Kind() == kind {
			return a, true
		}
	}
	return FundAccount{}, false
}
