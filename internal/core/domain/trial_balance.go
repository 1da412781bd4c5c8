package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is a single ledger account line of a trial balance.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is the client's trial balance for an engagement, as imported
// from its source sheet.
type TrialBalance struct {
	EngagementID string            `json:"engagementId"`
	SourceURL    string            `json:"sourceUrl"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"totalDebit"`
	TotalCredit  decimal.Decimal   `json:"totalCredit"`
	FetchedAt    time.Time         `json:"fetchedAt"`
}

// Recalculate sums the debit and credit columns.
func (tb *TrialBalance) Recalculate() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, row := range tb.Rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	tb.TotalDebit = debit
	tb.TotalCredit = credit
}

// IsBalanced reports whether total debits equal total credits.
func (tb TrialBalance) IsBalanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}
