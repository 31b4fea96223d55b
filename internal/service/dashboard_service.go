package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	transactionRepo domain.TransactionRepository
	orderRepo       domain.OrderRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository, orderRepo domain.OrderRepository) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
	}
}

// DashboardSummary is the month-to-date overview with comparison
// against the previous month.
type DashboardSummary struct {
	MonthIncome      decimal.Decimal       `json:"monthIncome"`
	MonthExpense     decimal.Decimal       `json:"monthExpense"`
	MonthNet         decimal.Decimal       `json:"monthNet"`
	MarginPct        decimal.Decimal       `json:"marginPct"`
	IncomeTrendPct   *decimal.Decimal      `json:"incomeTrendPct,omitempty"`
	ExpenseTrendPct  *decimal.Decimal      `json:"expenseTrendPct,omitempty"`
	SalesProjection  decimal.Decimal       `json:"salesProjection"`
	PendingBalance   decimal.Decimal       `json:"pendingBalance"`
	TransactionCount int64                 `json:"transactionCount"`
	TopMethods       []*domain.MethodUsage `json:"topMethods"`
	RecentActivity   []*domain.Transaction `json:"recentActivity"`
}

// GetSummary returns the dashboard for the current month
func (s *DashboardService) GetSummary() (*DashboardSummary, error) {
	now := time.Now()
	return s.GetSummaryAt(now)
}

// GetSummaryAt builds the dashboard as of a reference instant. Split out
// so the month math stays testable.
func (s *DashboardService) GetSummaryAt(now time.Time) (*DashboardSummary, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.Add(-time.Nanosecond)

	monthIncome, err := s.transactionRepo.SumByTypes(domain.IncomeTypes, monthStart, now)
	if err != nil {
		return nil, err
	}
	monthExpense, err := s.transactionRepo.SumByTypes(domain.ExpenseTypes, monthStart, now)
	if err != nil {
		return nil, err
	}
	prevIncome, err := s.transactionRepo.SumByTypes(domain.IncomeTypes, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	prevExpense, err := s.transactionRepo.SumByTypes(domain.ExpenseTypes, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	monthNet := monthIncome.Sub(monthExpense)
	marginPct := decimal.Zero
	if monthIncome.IsPositive() {
		marginPct = monthNet.Div(monthIncome).Mul(hundred)
	}

	pendingBalance, err := s.orderRepo.SumPendingBalance()
	if err != nil {
		return nil, err
	}
	transactionCount, err := s.transactionRepo.CountByDateRange(monthStart, now)
	if err != nil {
		return nil, err
	}
	topMethods, err := s.transactionRepo.TopMethodUsage(monthStart, now, 5)
	if err != nil {
		return nil, err
	}
	recent, err := s.transactionRepo.ListRecent(10)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		MonthIncome:      monthIncome,
		MonthExpense:     monthExpense,
		MonthNet:         monthNet,
		MarginPct:        marginPct,
		IncomeTrendPct:   trendPct(monthIncome, prevIncome),
		ExpenseTrendPct:  trendPct(monthExpense, prevExpense),
		SalesProjection:  projectMonthSales(monthIncome, now),
		PendingBalance:   pendingBalance,
		TransactionCount: transactionCount,
		TopMethods:       topMethods,
		RecentActivity:   recent,
	}, nil
}

// trendPct is the percentage change against the previous period, or nil
// when the previous period had no movement.
func trendPct(current, previous decimal.Decimal) *decimal.Decimal {
	if !previous.IsPositive() {
		return nil
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred)
	return &pct
}

// projectMonthSales extrapolates month-to-date income over the full
// month by average daily pace.
func projectMonthSales(monthIncome decimal.Decimal, now time.Time) decimal.Decimal {
	daysElapsed := now.Day()
	if daysElapsed == 0 {
		return monthIncome
	}
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return monthIncome.
		Div(decimal.NewFromInt(int64(daysElapsed))).
		Mul(decimal.NewFromInt(int64(daysInMonth)))
}
