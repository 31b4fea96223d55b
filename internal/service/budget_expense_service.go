package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/util"
	"github.com/tallerhq/taller-backend/internal/websocket"
)

// BudgetExpenseService handles budget-scoped expense business logic
type BudgetExpenseService struct {
	expenseRepo    domain.BudgetExpenseRepository
	budgetRepo     domain.BudgetRepository
	methodRepo     domain.PaymentMethodRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetExpenseService creates a new BudgetExpenseService
func NewBudgetExpenseService(
	expenseRepo domain.BudgetExpenseRepository,
	budgetRepo domain.BudgetRepository,
	methodRepo domain.PaymentMethodRepository,
) *BudgetExpenseService {
	return &BudgetExpenseService{
		expenseRepo: expenseRepo,
		budgetRepo:  budgetRepo,
		methodRepo:  methodRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BudgetExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateBudgetExpenseInput holds the input for creating a budget expense
type CreateBudgetExpenseInput struct {
	Description     string
	Category        domain.ExpenseCategory
	Subcategory     *string
	Amount          decimal.Decimal
	Currency        domain.Currency
	Date            time.Time
	Voucher         *string
	Supplier        *string
	Notes           *string
	PaymentMethodID uuid.UUID
}

// CreateBudgetExpense validates the input, assigns the next sequential
// number within the budget and records the expense.
func (s *BudgetExpenseService) CreateBudgetExpense(userID uuid.UUID, budgetID uuid.UUID, input CreateBudgetExpenseInput) (*domain.BudgetExpense, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	if !input.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if input.Notes != nil && len(*input.Notes) > domain.MaxNotesLength {
		return nil, domain.ErrDescriptionTooLong
	}
	if _, err := requireActiveMethod(s.methodRepo, input.PaymentMethodID); err != nil {
		return nil, err
	}

	count, err := s.expenseRepo.CountByBudget(budgetID)
	if err != nil {
		return nil, err
	}

	expense := &domain.BudgetExpense{
		BudgetID:        budgetID,
		Number:          util.BudgetExpenseNumber(budget.Number, count+1),
		Description:     description,
		Category:        input.Category,
		Subcategory:     input.Subcategory,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Date:            input.Date,
		Voucher:         input.Voucher,
		Supplier:        input.Supplier,
		Notes:           input.Notes,
		PaymentMethodID: input.PaymentMethodID,
		CreatedBy:       userID,
	}
	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.BudgetExpenseCreated(created))
	s.publishEvent(websocket.BalanceInvalidated("budget_expense.created"))

	return created, nil
}

// GetBudgetExpenseByID retrieves a budget expense by ID
func (s *BudgetExpenseService) GetBudgetExpenseByID(id uuid.UUID) (*domain.BudgetExpense, error) {
	return s.expenseRepo.GetByID(id)
}

// SetReceipt stores the receipt object key on an expense
func (s *BudgetExpenseService) SetReceipt(id uuid.UUID, key string) error {
	return s.expenseRepo.SetReceiptURL(id, &key)
}

// BudgetExpenseSummary is the expense list for one budget plus totals
// against the budgeted amount.
type BudgetExpenseSummary struct {
	Budget     *domain.Budget          `json:"budget"`
	Expenses   []*domain.BudgetExpense `json:"expenses"`
	TotalSpent decimal.Decimal         `json:"totalSpent"`
	Remaining  decimal.Decimal         `json:"remaining"`
	ByCategory []*domain.CategoryStat  `json:"byCategory"`
}

// GetByBudget lists a budget's expenses and how much of the budgeted
// total they consume. Only expenses in the budget's currency count
// toward the spent total.
func (s *BudgetExpenseService) GetByBudget(budgetID uuid.UUID) (*BudgetExpenseSummary, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByBudget(budgetID)
	if err != nil {
		return nil, err
	}

	totalSpent := decimal.Zero
	byCategory := make(map[domain.ExpenseCategory]*domain.CategoryStat)
	var categoryOrder []*domain.CategoryStat
	for _, e := range expenses {
		if e.Currency != budget.Currency {
			continue
		}
		totalSpent = totalSpent.Add(e.Amount)
		stat, ok := byCategory[e.Category]
		if !ok {
			stat = &domain.CategoryStat{Category: string(e.Category), Amount: decimal.Zero}
			byCategory[e.Category] = stat
			categoryOrder = append(categoryOrder, stat)
		}
		stat.Count++
		stat.Amount = stat.Amount.Add(e.Amount)
	}

	return &BudgetExpenseSummary{
		Budget:     budget,
		Expenses:   expenses,
		TotalSpent: totalSpent,
		Remaining:  budget.Total.Sub(totalSpent),
		ByCategory: categoryOrder,
	}, nil
}
