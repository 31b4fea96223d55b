package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/websocket"
)

// TransactionService handles ledger transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	methodRepo      domain.PaymentMethodRepository
	orderRepo       domain.OrderRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	methodRepo domain.PaymentMethodRepository,
	orderRepo domain.OrderRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		methodRepo:      methodRepo,
		orderRepo:       orderRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Type            domain.TransactionType
	Concept         string
	Amount          decimal.Decimal
	Currency        domain.Currency
	Date            time.Time
	PaymentMethodID *uuid.UUID
	ClientName      *string
	OrderID         *uuid.UUID
}

// CreateTransaction validates and records a ledger entry. Amounts are
// stored positive regardless of type; normalization applies the sign.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	concept := strings.TrimSpace(input.Concept)
	if concept == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(concept) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if input.PaymentMethodID != nil {
		if _, err := requireActiveMethod(s.methodRepo, *input.PaymentMethodID); err != nil {
			return nil, err
		}
	}

	var orderNumber *string
	if input.OrderID != nil {
		order, err := s.orderRepo.GetByID(*input.OrderID)
		if err != nil {
			return nil, err
		}
		orderNumber = &order.Number
	}

	transaction := &domain.Transaction{
		Type:            input.Type,
		Concept:         concept,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Date:            input.Date,
		PaymentMethodID: input.PaymentMethodID,
		ClientName:      input.ClientName,
		OrderID:         input.OrderID,
		OrderNumber:     orderNumber,
		CreatedBy:       userID,
	}
	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.TransactionCreated(created))
	s.publishEvent(websocket.BalanceInvalidated("transaction.created"))

	return created, nil
}

// GetTransactionByID retrieves a transaction by ID
func (s *TransactionService) GetTransactionByID(id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// GetTransactions retrieves a filtered, paginated transaction list
func (s *TransactionService) GetTransactions(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters.Currency != nil && !filters.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	for _, t := range filters.Types {
		if !t.Valid() {
			return nil, domain.ErrInvalidTransactionType
		}
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
	return s.transactionRepo.List(filters)
}
