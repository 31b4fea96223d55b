package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

var (
	concentrationLimit = decimal.New(8, -1) // strictly greater than 0.8
	hundred            = decimal.NewFromInt(100)
)

// BalanceService consolidates ledger transactions, budget expenses and
// general expenses into per-payment-method balances, alerts, a health
// score and a cash-flow projection. Stateless; every query recomputes
// from the filtered record set.
type BalanceService struct {
	transactionRepo    domain.TransactionRepository
	budgetExpenseRepo  domain.BudgetExpenseRepository
	generalExpenseRepo domain.GeneralExpenseRepository
	budgetRepo         domain.BudgetRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	transactionRepo domain.TransactionRepository,
	budgetExpenseRepo domain.BudgetExpenseRepository,
	generalExpenseRepo domain.GeneralExpenseRepository,
	budgetRepo domain.BudgetRepository,
) *BalanceService {
	return &BalanceService{
		transactionRepo:    transactionRepo,
		budgetExpenseRepo:  budgetExpenseRepo,
		generalExpenseRepo: generalExpenseRepo,
		budgetRepo:         budgetRepo,
	}
}

// BalanceInput is the parsed query for a balance report.
type BalanceInput struct {
	From            *time.Time
	To              *time.Time
	PaymentMethodID *uuid.UUID
	IncludeIncome   bool
	IncludeExpenses bool
	Currency        domain.Currency
}

// GetBalance runs the normalize, aggregate, derive pipeline and returns
// the full report.
func (s *BalanceService) GetBalance(input BalanceInput) (*domain.BalanceReport, error) {
	records, err := s.fetchRecords(input)
	if err != nil {
		return nil, err
	}

	methods := aggregateByMethod(records)
	totals := computeTotals(methods)
	applyDerivedMetrics(methods, totals)
	analysis := buildAnalysis(methods, totals)

	var methodIDParam *string
	if input.PaymentMethodID != nil {
		id := input.PaymentMethodID.String()
		methodIDParam = &id
	}

	return &domain.BalanceReport{
		Methods:  methods,
		Totals:   totals,
		Analysis: analysis,
		Health:   domain.ComputeHealthScore(totals, analysis.Alerts),
		CashFlow: domain.ProjectCashFlow(totals, methods),
		Params: domain.BalanceQuery{
			From:            input.From,
			To:              input.To,
			PaymentMethodID: methodIDParam,
			IncludeIncome:   input.IncludeIncome,
			IncludeExpenses: input.IncludeExpenses,
			Currency:        input.Currency,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// fetchRecords reads the three source collections, date and method
// filtered at the store, and normalizes them into one sequence. Each
// read is scoped to a single currency so amounts are never mixed.
func (s *BalanceService) fetchRecords(input BalanceInput) ([]domain.NormalizedRecord, error) {
	currency := input.Currency
	var records []domain.NormalizedRecord

	if input.IncludeIncome {
		transactions, err := s.transactionRepo.ListAll(&domain.TransactionFilters{
			Types:           domain.IncomeTypes,
			PaymentMethodID: input.PaymentMethodID,
			From:            input.From,
			To:              input.To,
			Currency:        &currency,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching transactions: %w", err)
		}
		records = append(records, domain.NormalizeTransactions(transactions)...)
	}

	if input.IncludeExpenses {
		expenseFilters := &domain.ExpenseFilters{
			PaymentMethodID: input.PaymentMethodID,
			From:            input.From,
			To:              input.To,
			Currency:        &currency,
		}

		budgetExpenses, err := s.budgetExpenseRepo.ListAll(expenseFilters)
		if err != nil {
			return nil, fmt.Errorf("fetching budget expenses: %w", err)
		}
		records = append(records, domain.NormalizeBudgetExpenses(budgetExpenses, s.budgetLabel)...)

		generalExpenses, err := s.generalExpenseRepo.ListAll(expenseFilters)
		if err != nil {
			return nil, fmt.Errorf("fetching general expenses: %w", err)
		}
		records = append(records, domain.NormalizeGeneralExpenses(generalExpenses)...)
	}

	return records, nil
}

// budgetLabel builds the origin label for a budget expense.
func (s *BalanceService) budgetLabel(expense *domain.BudgetExpense) string {
	budget, err := s.budgetRepo.GetByID(expense.BudgetID)
	if err != nil {
		return fmt.Sprintf("Budget expense %s", expense.Number)
	}
	return fmt.Sprintf("Budget %s - %s", budget.Number, budget.ClientName)
}

// methodAccumulator is the mutable grouping entry for one payment method.
type methodAccumulator struct {
	balance   *domain.MethodBalance
	firstSeen int
}

// aggregateByMethod groups normalized records by payment method in a
// single pass and returns the list sorted by balance descending. Ties
// keep first-seen order.
func aggregateByMethod(records []domain.NormalizedRecord) []*domain.MethodBalance {
	accumulators := make(map[uuid.UUID]*methodAccumulator)
	order := make([]*methodAccumulator, 0)

	for _, record := range records {
		methodID := record.PaymentMethod.ID
		acc, ok := accumulators[methodID]
		if !ok {
			acc = &methodAccumulator{
				balance: &domain.MethodBalance{
					PaymentMethod: record.PaymentMethod,
					Income:        domain.MoneyFlow{Total: decimal.Zero},
					Expense:       domain.MoneyFlow{Total: decimal.Zero},
				},
				firstSeen: len(order),
			}
			accumulators[methodID] = acc
			order = append(order, acc)
		}

		flow := &acc.balance.Expense
		amount := record.SignedAmount.Abs()
		if record.SignedAmount.Sign() >= 0 {
			flow = &acc.balance.Income
			amount = record.SignedAmount
		}
		flow.Total = flow.Total.Add(amount)
		flow.Count++
		if flow.LastAt == nil || record.Date.After(*flow.LastAt) {
			date := record.Date
			flow.LastAt = &date
		}
	}

	methods := make([]*domain.MethodBalance, len(order))
	for i, acc := range order {
		mb := acc.balance
		mb.Balance = mb.Income.Total.Sub(mb.Expense.Total)
		mb.State = domain.BalanceStateOf(mb.Balance)
		if mb.Expense.Total.IsPositive() {
			ratio := mb.Income.Total.Div(mb.Expense.Total)
			mb.IncomeExpenseRatio = &ratio
		}
		mb.LastActivity = laterOf(mb.Income.LastAt, mb.Expense.LastAt)
		methods[i] = mb
	}

	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Balance.GreaterThan(methods[j].Balance)
	})

	return methods
}

func laterOf(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil || a.After(*b) {
		return a
	}
	return b
}

// computeTotals sums the method list. No cross-method netting: income
// and expense accumulate separately.
func computeTotals(methods []*domain.MethodBalance) domain.AggregateTotals {
	totals := domain.AggregateTotals{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		MethodCount:  len(methods),
	}
	for _, m := range methods {
		totals.TotalIncome = totals.TotalIncome.Add(m.Income.Total)
		totals.TotalExpense = totals.TotalExpense.Add(m.Expense.Total)
		totals.TransactionCount += m.ActivityCount()
	}
	totals.TotalBalance = totals.TotalIncome.Sub(totals.TotalExpense)
	return totals
}

// applyDerivedMetrics fills each method's participation percentage:
// the method's movement over the global movement, or 0 when the global
// sum is zero.
func applyDerivedMetrics(methods []*domain.MethodBalance, totals domain.AggregateTotals) {
	globalMovement := totals.TotalIncome.Add(totals.TotalExpense)
	for _, m := range methods {
		m.ParticipationPct = decimal.Zero
		if globalMovement.IsPositive() {
			movement := m.Income.Total.Add(m.Expense.Total)
			m.ParticipationPct = movement.Div(globalMovement).Mul(hundred)
		}
	}
}

// buildAnalysis derives the alert and distribution block from the sorted
// method list.
func buildAnalysis(methods []*domain.MethodBalance, totals domain.AggregateTotals) domain.BalanceAnalysis {
	analysis := domain.BalanceAnalysis{
		Distribution: make([]domain.DistributionEntry, 0, len(methods)),
	}

	if len(methods) > 0 {
		analysis.TopMethod = methods[0]
		analysis.BottomMethod = methods[len(methods)-1]

		mostActive := methods[0]
		for _, m := range methods[1:] {
			if m.ActivityCount() > mostActive.ActivityCount() {
				mostActive = m
			}
		}
		analysis.MostActiveMethod = mostActive
	}

	var largestIncome decimal.Decimal
	for _, m := range methods {
		incomePct := decimal.Zero
		if totals.TotalIncome.IsPositive() {
			incomePct = m.Income.Total.Div(totals.TotalIncome).Mul(hundred)
		}
		expensePct := decimal.Zero
		if totals.TotalExpense.IsPositive() {
			expensePct = m.Expense.Total.Div(totals.TotalExpense).Mul(hundred)
		}
		analysis.Distribution = append(analysis.Distribution, domain.DistributionEntry{
			Method:     m.PaymentMethod.Name,
			IncomePct:  incomePct,
			ExpensePct: expensePct,
			Balance:    m.Balance,
		})

		if m.Balance.IsNegative() {
			analysis.Alerts.InTheRed++
		}
		if m.ActivityCount() == 0 {
			analysis.Alerts.Inactive++
		}
		if m.Income.Total.GreaterThan(largestIncome) {
			largestIncome = m.Income.Total
		}
	}

	// Concentration: strictly greater than 80% of total income held by
	// the single largest income method. Guarded when there is no income.
	if totals.TotalIncome.IsPositive() {
		analysis.Alerts.ExcessiveConcentration = largestIncome.Div(totals.TotalIncome).GreaterThan(concentrationLimit)
	}

	return analysis
}
