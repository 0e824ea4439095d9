package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFundKind(t *testing.T) {
	testCases := []struct {
		name     string
		typ      string
		id       ID
		expected FundKind
	}{
		{"type field wins over id", "loan", "1", FundLoanPool},
		{"case insensitive", " Sajja ", "9", FundSavings},
		{"thai alias", "หลัก", "", FundMain},
		{"legacy id main", "", "1", FundMain},
		{"legacy id savings", "", "2", FundSavings},
		{"legacy id loan pool", "", "4", FundLoanPool},
		{"unknown type falls back to id", "misc", "4", FundLoanPool},
		{"unknown", "", "3", FundOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveFundKind(tc.typ, tc.id))
		})
	}
}

func TestFindFund(t *testing.T) {
	accounts := []FundAccount{
		{ID: "1", Name: "กองทุนหลัก"},
		{ID: "7", Name: "สัจจะ", Type: "savings"},
	}

	got, ok := FindFund(accounts, FundSavings)
	assert.True(t, ok)
	assert.Equal(t, ID("7"), got.ID)

	_, ok = FindFund(accounts, FundLoanPool)
	assert.False(t, ok)

	assert.Equal(t, "บัญชีกองทุนเงินกู้", FundLoanPool.Title())
}
