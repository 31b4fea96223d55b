package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/middleware"
	"github.com/tallerhq/taller-backend/internal/service"
)

// TransactionHandler handles ledger transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type            string  `json:"type"`
	Concept         string  `json:"concept"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Date            string  `json:"date"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`
	ClientName      *string `json:"clientName,omitempty"`
	OrderID         *string `json:"orderId,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Concept       string                 `json:"concept"`
	Amount        string                 `json:"amount"`
	Currency      string                 `json:"currency"`
	Date          string                 `json:"date"`
	PaymentMethod *PaymentMethodResponse `json:"paymentMethod,omitempty"`
	ClientName    *string                `json:"clientName,omitempty"`
	OrderID       *string                `json:"orderId,omitempty"`
	OrderNumber   *string                `json:"orderNumber,omitempty"`
	CreatedAt     string                 `json:"createdAt"`
}

// PaginatedTransactionsResponse represents a transaction page
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income, work payment, advance or expense movement
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date format", []ValidationError{
			{Field: "date", Message: "Must be an RFC 3339 timestamp"},
		})
	}

	input := service.CreateTransactionInput{
		Type:       domain.TransactionType(req.Type),
		Concept:    req.Concept,
		Amount:     amount,
		Currency:   domain.Currency(req.Currency),
		Date:       date,
		ClientName: req.ClientName,
	}

	if req.PaymentMethodID != nil {
		methodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			return NewValidationError(c, "Invalid payment method ID", []ValidationError{
				{Field: "paymentMethodId", Message: "Must be a valid UUID"},
			})
		}
		input.PaymentMethodID = &methodID
	}
	if req.OrderID != nil {
		orderID, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return NewValidationError(c, "Invalid order ID", []ValidationError{
				{Field: "orderId", Message: "Must be a valid UUID"},
			})
		}
		input.OrderID = &orderID
	}

	transaction, err := h.transactionService.CreateTransaction(user.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransactionType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Invalid transaction type"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "concept", Message: "Concept is required"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "concept", Message: "Concept must be 200 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidCurrency) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currency", Message: "Currency must be ARS or USD"},
			})
		}
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "paymentMethodId", Message: "Payment method not found"},
			})
		}
		if errors.Is(err, domain.ErrPaymentMethodInactive) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "paymentMethodId", Message: "Payment method is not active"},
			})
		}
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "orderId", Message: "Order not found"},
			})
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().
		Str("transaction_id", transaction.ID.String()).
		Str("type", string(transaction.Type)).
		Str("amount", transaction.Amount.String()).
		Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description Get paginated transactions with optional filters
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param types query string false "Comma-separated transaction types"
// @Param paymentMethodId query string false "Filter by payment method ID"
// @Param from query string false "Start date (RFC 3339)"
// @Param to query string false "End date (RFC 3339)"
// @Param currency query string false "Currency (ARS or USD)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} PaginatedTransactionsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{}

	if typesStr := c.QueryParam("types"); typesStr != "" {
		for _, t := range strings.Split(typesStr, ",") {
			filters.Types = append(filters.Types, domain.TransactionType(strings.TrimSpace(t)))
		}
	}
	if idStr := c.QueryParam("paymentMethodId"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return NewValidationError(c, "Invalid payment method ID", nil)
		}
		filters.PaymentMethodID = &id
	}
	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return NewValidationError(c, "Invalid 'from' date", nil)
		}
		filters.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return NewValidationError(c, "Invalid 'to' date", nil)
		}
		filters.To = &to
	}
	if currencyStr := c.QueryParam("currency"); currencyStr != "" {
		currency := domain.Currency(currencyStr)
		filters.Currency = &currency
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return NewValidationError(c, "Invalid page number", nil)
		}
		filters.Page = int32(page)
	}
	if sizeStr := c.QueryParam("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return NewValidationError(c, "Invalid page size", nil)
		}
		filters.PageSize = int32(size)
	}

	page, err := h.transactionService.GetTransactions(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCurrency) {
			return NewValidationError(c, "Invalid currency", nil)
		}
		if errors.Is(err, domain.ErrInvalidTransactionType) {
			return NewValidationError(c, "Invalid transaction type", nil)
		}
		log.Error().Err(err).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	data := make([]TransactionResponse, len(page.Data))
	for i, t := range page.Data {
		data[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		Type:        string(t.Type),
		Concept:     t.Concept,
		Amount:      t.Amount.StringFixed(2),
		Currency:    string(t.Currency),
		Date:        t.Date.Format(time.RFC3339),
		ClientName:  t.ClientName,
		OrderNumber: t.OrderNumber,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.PaymentMethod != nil {
		pm := toPaymentMethodResponse(t.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	if t.OrderID != nil {
		orderID := t.OrderID.String()
		resp.OrderID = &orderID
	}
	return resp
}
