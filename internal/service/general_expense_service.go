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

// GeneralExpenseService handles operating expense business logic
type GeneralExpenseService struct {
	expenseRepo    domain.GeneralExpenseRepository
	methodRepo     domain.PaymentMethodRepository
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewGeneralExpenseService creates a new GeneralExpenseService
func NewGeneralExpenseService(
	expenseRepo domain.GeneralExpenseRepository,
	methodRepo domain.PaymentMethodRepository,
	userRepo domain.UserRepository,
) *GeneralExpenseService {
	return &GeneralExpenseService{
		expenseRepo: expenseRepo,
		methodRepo:  methodRepo,
		userRepo:    userRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GeneralExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *GeneralExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateGeneralExpenseInput holds the input for creating a general expense
type CreateGeneralExpenseInput struct {
	Description     string
	Category        string
	Subcategory     *string
	Amount          decimal.Decimal
	Currency        domain.Currency
	Date            time.Time
	Period          *string
	InvoiceNumber   *string
	Supplier        *string
	PaymentMethodID uuid.UUID
}

// CreateGeneralExpense validates the input, assigns the next sequential
// number for the expense year and records the expense.
func (s *GeneralExpenseService) CreateGeneralExpense(userID uuid.UUID, input CreateGeneralExpenseInput) (*domain.GeneralExpense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return nil, domain.ErrInvalidCategory
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if _, err := requireActiveMethod(s.methodRepo, input.PaymentMethodID); err != nil {
		return nil, err
	}

	year := input.Date.Year()
	count, err := s.expenseRepo.CountByYear(year)
	if err != nil {
		return nil, err
	}

	expense := &domain.GeneralExpense{
		Number:          util.GeneralExpenseNumber(year, count+1),
		Description:     description,
		Category:        category,
		Subcategory:     input.Subcategory,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Date:            input.Date,
		Period:          input.Period,
		InvoiceNumber:   input.InvoiceNumber,
		Supplier:        input.Supplier,
		PaymentMethodID: input.PaymentMethodID,
		CreatedBy:       userID,
	}
	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.GeneralExpenseCreated(created))
	s.publishEvent(websocket.BalanceInvalidated("general_expense.created"))

	return created, nil
}

// GetGeneralExpenseByID retrieves a general expense by ID
func (s *GeneralExpenseService) GetGeneralExpenseByID(id uuid.UUID) (*domain.GeneralExpense, error) {
	return s.expenseRepo.GetByID(id)
}

// GetGeneralExpenses retrieves a filtered, paginated expense list
func (s *GeneralExpenseService) GetGeneralExpenses(filters *domain.ExpenseFilters) (*domain.PaginatedGeneralExpenses, error) {
	if filters.Currency != nil && !filters.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.expenseRepo.List(filters)
}

// UpdateGeneralExpenseInput holds the editable fields of a general
// expense. Nil fields are left unchanged; the number never changes.
type UpdateGeneralExpenseInput struct {
	Description     *string
	Category        *string
	Subcategory     *string
	Amount          *decimal.Decimal
	Date            *time.Time
	Period          *string
	InvoiceNumber   *string
	Supplier        *string
	PaymentMethodID *uuid.UUID
}

// UpdateGeneralExpense applies a partial update. Only the creator or an
// admin may modify an expense.
func (s *GeneralExpenseService) UpdateGeneralExpense(userID uuid.UUID, id uuid.UUID, input UpdateGeneralExpenseInput) (*domain.GeneralExpense, error) {
	expense, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(userID, expense.CreatedBy); err != nil {
		return nil, err
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, domain.ErrDescriptionRequired
		}
		if len(description) > domain.MaxDescriptionLength {
			return nil, domain.ErrDescriptionTooLong
		}
		expense.Description = description
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, domain.ErrCategoryRequired
		}
		if len(category) > domain.MaxCategoryLength {
			return nil, domain.ErrInvalidCategory
		}
		expense.Category = category
	}
	if input.Subcategory != nil {
		expense.Subcategory = input.Subcategory
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		expense.Amount = *input.Amount
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.Period != nil {
		expense.Period = input.Period
	}
	if input.InvoiceNumber != nil {
		expense.InvoiceNumber = input.InvoiceNumber
	}
	if input.Supplier != nil {
		expense.Supplier = input.Supplier
	}
	if input.PaymentMethodID != nil {
		if _, err := requireActiveMethod(s.methodRepo, *input.PaymentMethodID); err != nil {
			return nil, err
		}
		expense.PaymentMethodID = *input.PaymentMethodID
	}

	updated, err := s.expenseRepo.Update(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.GeneralExpenseUpdated(updated))
	s.publishEvent(websocket.BalanceInvalidated("general_expense.updated"))

	return updated, nil
}

// DeleteGeneralExpense removes an expense. Only the creator or an admin
// may delete.
func (s *GeneralExpenseService) DeleteGeneralExpense(userID uuid.UUID, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(userID, expense.CreatedBy); err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.GeneralExpenseDeleted(map[string]string{"id": id.String()}))
	s.publishEvent(websocket.BalanceInvalidated("general_expense.deleted"))

	return nil
}

// GeneralExpenseStats groups totals by category and by payment method
// for the filtered window.
type GeneralExpenseStats struct {
	TotalAmount decimal.Decimal        `json:"totalAmount"`
	TotalCount  int64                  `json:"totalCount"`
	ByCategory  []*domain.CategoryStat `json:"byCategory"`
	ByMethod    []*domain.MethodStat   `json:"byMethod"`
}

// GetStats aggregates general expenses by category and payment method
func (s *GeneralExpenseService) GetStats(filters *domain.ExpenseFilters) (*GeneralExpenseStats, error) {
	if filters.Currency != nil && !filters.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}

	byCategory, err := s.expenseRepo.StatsByCategory(filters)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.expenseRepo.StatsByMethod(filters)
	if err != nil {
		return nil, err
	}

	stats := &GeneralExpenseStats{
		TotalAmount: decimal.Zero,
		ByCategory:  byCategory,
		ByMethod:    byMethod,
	}
	for _, c := range byCategory {
		stats.TotalAmount = stats.TotalAmount.Add(c.Amount)
		stats.TotalCount += c.Count
	}
	return stats, nil
}

// SetReceipt stores the receipt object key on an expense
func (s *GeneralExpenseService) SetReceipt(id uuid.UUID, key string) error {
	return s.expenseRepo.SetReceiptURL(id, &key)
}

func (s *GeneralExpenseService) checkOwnership(userID, ownerID uuid.UUID) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CanModify(ownerID) {
		return domain.ErrForbidden
	}
	return nil
}
