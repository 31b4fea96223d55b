package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedRecord is the common shape the three financial record kinds
// are mapped into before aggregation. SignedAmount is positive for income
// and negative for expense. Derived and ephemeral; never persisted.
type NormalizedRecord struct {
	PaymentMethod *PaymentMethod
	Date          time.Time
	SignedAmount  decimal.Decimal
	Origin        string
	Category      *string
}

// BalanceState is the sign of a balance, as presented to callers.
type BalanceState string

const (
	BalanceStatePositive BalanceState = "positive"
	BalanceStateNegative BalanceState = "negative"
	BalanceStateNeutral  BalanceState = "neutral"
)

// BalanceStateOf derives the state strictly from the sign of balance.
func BalanceStateOf(balance decimal.Decimal) BalanceState {
	switch balance.Sign() {
	case 1:
		return BalanceStatePositive
	case -1:
		return BalanceStateNegative
	default:
		return BalanceStateNeutral
	}
}

// MoneyFlow accumulates one direction of movement for a payment method.
type MoneyFlow struct {
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	LastAt *time.Time      `json:"lastAt,omitempty"`
}

// MethodBalance is the consolidated position of one payment method over
// the queried window. Expense.Total holds absolute values; Balance is
// Income.Total minus Expense.Total.
type MethodBalance struct {
	PaymentMethod *PaymentMethod `json:"paymentMethod"`
	Income        MoneyFlow      `json:"income"`
	Expense       MoneyFlow      `json:"expense"`
	// Balance = Income.Total - Expense.Total
	Balance decimal.Decimal `json:"balance"`
	State   BalanceState    `json:"state"`
	// IncomeExpenseRatio is nil when there are no expenses; callers must
	// branch on presence, never on a zero or infinite value.
	IncomeExpenseRatio *decimal.Decimal `json:"incomeExpenseRatio,omitempty"`
	// ParticipationPct is this method's share of total movement
	// (income + expense) across all methods, in [0, 100].
	ParticipationPct decimal.Decimal `json:"participationPct"`
	LastActivity     *time.Time      `json:"lastActivity,omitempty"`
}

// ActivityCount is the number of movements in either direction.
func (m *MethodBalance) ActivityCount() int {
	return m.Income.Count + m.Expense.Count
}

// AggregateTotals sums the method balances.
// Invariants: TotalIncome = Σ Income.Total, TotalBalance = Σ Balance.
type AggregateTotals struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	MethodCount      int             `json:"methodCount"`
	TransactionCount int             `json:"transactionCount"`
}

// BalanceAlerts flags risk conditions derived from the method list.
type BalanceAlerts struct {
	// InTheRed counts methods with a negative balance.
	InTheRed int `json:"inTheRed"`
	// ExcessiveConcentration is set when the single largest income method
	// holds strictly more than 80% of total income.
	ExcessiveConcentration bool `json:"excessiveConcentration"`
	// Inactive counts methods with no movement in either direction.
	// Methods only enter the aggregation once they have a record, so this
	// stays zero unless the caller pre-seeds the full method list.
	Inactive int `json:"inactive"`
}

// DistributionEntry is one method's share of total income and expense.
// The two percentages are tracked separately and need not sum to 100.
type DistributionEntry struct {
	Method     string          `json:"method"`
	IncomePct  decimal.Decimal `json:"incomePct"`
	ExpensePct decimal.Decimal `json:"expensePct"`
	Balance    decimal.Decimal `json:"balance"`
}

// BalanceAnalysis is the derived analysis block of a balance report.
type BalanceAnalysis struct {
	TopMethod        *MethodBalance      `json:"topMethod,omitempty"`
	BottomMethod     *MethodBalance      `json:"bottomMethod,omitempty"`
	MostActiveMethod *MethodBalance      `json:"mostActiveMethod,omitempty"`
	Distribution     []DistributionEntry `json:"distribution"`
	Alerts           BalanceAlerts       `json:"alerts"`
}

// BalanceQuery is the echoed set of parameters a report was built from.
type BalanceQuery struct {
	From            *time.Time `json:"from,omitempty"`
	To              *time.Time `json:"to,omitempty"`
	PaymentMethodID *string    `json:"paymentMethodId,omitempty"`
	IncludeIncome   bool       `json:"includeIncome"`
	IncludeExpenses bool       `json:"includeExpenses"`
	Currency        Currency   `json:"currency"`
}

// BalanceReport is the full response of a balance query. Methods is
// sorted by balance descending, ties in first-seen order.
type BalanceReport struct {
	Methods     []*MethodBalance    `json:"balance"`
	Totals      AggregateTotals     `json:"totals"`
	Analysis    BalanceAnalysis     `json:"analysis"`
	Health      *HealthScore        `json:"health"`
	CashFlow    *CashFlowProjection `json:"cashFlow"`
	Params      BalanceQuery        `json:"params"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
