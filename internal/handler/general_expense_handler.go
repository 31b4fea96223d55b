package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/middleware"
	"github.com/tallerhq/taller-backend/internal/service"
)

// GeneralExpenseHandler handles general expense HTTP requests
type GeneralExpenseHandler struct {
	expenseService *service.GeneralExpenseService
	receiptService *service.ReceiptService
}

// NewGeneralExpenseHandler creates a new GeneralExpenseHandler
func NewGeneralExpenseHandler(expenseService *service.GeneralExpenseService, receiptService *service.ReceiptService) *GeneralExpenseHandler {
	return &GeneralExpenseHandler{
		expenseService: expenseService,
		receiptService: receiptService,
	}
}

// CreateGeneralExpenseRequest represents the create general expense request body
type CreateGeneralExpenseRequest struct {
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Subcategory     *string `json:"subcategory,omitempty"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Date            string  `json:"date"`
	Period          *string `json:"period,omitempty"`
	InvoiceNumber   *string `json:"invoiceNumber,omitempty"`
	Supplier        *string `json:"supplier,omitempty"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// UpdateGeneralExpenseRequest represents the update general expense request body
type UpdateGeneralExpenseRequest struct {
	Description     *string `json:"description,omitempty"`
	Category        *string `json:"category,omitempty"`
	Subcategory     *string `json:"subcategory,omitempty"`
	Amount          *string `json:"amount,omitempty"`
	Date            *string `json:"date,omitempty"`
	Period          *string `json:"period,omitempty"`
	InvoiceNumber   *string `json:"invoiceNumber,omitempty"`
	Supplier        *string `json:"supplier,omitempty"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`
}

// GeneralExpenseResponse represents a general expense in API responses
type GeneralExpenseResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category"`
	Subcategory   *string                `json:"subcategory,omitempty"`
	Amount        string                 `json:"amount"`
	Currency      string                 `json:"currency"`
	Date          string                 `json:"date"`
	Period        *string                `json:"period,omitempty"`
	InvoiceNumber *string                `json:"invoiceNumber,omitempty"`
	Supplier      *string                `json:"supplier,omitempty"`
	PaymentMethod *PaymentMethodResponse `json:"paymentMethod,omitempty"`
	ReceiptURL    *string                `json:"receiptUrl,omitempty"`
	CreatedAt     string                 `json:"createdAt"`
	UpdatedAt     string                 `json:"updatedAt"`
}

// PaginatedGeneralExpensesResponse represents a general expense page
type PaginatedGeneralExpensesResponse struct {
	Data       []GeneralExpenseResponse `json:"data"`
	Page       int32                    `json:"page"`
	PageSize   int32                    `json:"pageSize"`
	TotalItems int64                    `json:"totalItems"`
	TotalPages int32                    `json:"totalPages"`
}

// CategoryStatResponse represents one category's aggregate
type CategoryStatResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Amount   string `json:"amount"`
}

// MethodStatResponse represents one payment method's aggregate
type MethodStatResponse struct {
	PaymentMethod PaymentMethodResponse `json:"paymentMethod"`
	Count         int64                 `json:"count"`
	Amount        string                `json:"amount"`
}

// GeneralExpenseStatsResponse represents the expense stats API response
type GeneralExpenseStatsResponse struct {
	TotalAmount string                 `json:"totalAmount"`
	TotalCount  int64                  `json:"totalCount"`
	ByCategory  []CategoryStatResponse `json:"byCategory"`
	ByMethod    []MethodStatResponse   `json:"byMethod"`
}

// CreateGeneralExpense handles POST /api/v1/general-expenses
func (h *GeneralExpenseHandler) CreateGeneralExpense(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateGeneralExpenseRequest
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
	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return NewValidationError(c, "Invalid payment method ID", []ValidationError{
			{Field: "paymentMethodId", Message: "Must be a valid UUID"},
		})
	}

	expense, err := h.expenseService.CreateGeneralExpense(user.ID, service.CreateGeneralExpenseInput{
		Description:     req.Description,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		Date:            date,
		Period:          req.Period,
		InvoiceNumber:   req.InvoiceNumber,
		Supplier:        req.Supplier,
		PaymentMethodID: methodID,
	})
	if err != nil {
		if resp := generalExpenseValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Msg("Failed to create general expense")
		return NewInternalError(c, "Failed to create general expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("number", expense.Number).Msg("General expense created")
	return c.JSON(http.StatusCreated, toGeneralExpenseResponse(expense))
}

// generalExpenseValidationError maps known service errors to responses,
// or returns nil for unexpected errors.
func generalExpenseValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 200 characters or less"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidCurrency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "currency", Message: "Currency must be ARS or USD"},
		})
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentMethodId", Message: "Payment method not found"},
		})
	case errors.Is(err, domain.ErrPaymentMethodInactive):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentMethodId", Message: "Payment method is not active"},
		})
	}
	return nil
}

// GetGeneralExpenses handles GET /api/v1/general-expenses
func (h *GeneralExpenseHandler) GetGeneralExpenses(c echo.Context) error {
	filters, vErr := parseExpenseFilters(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid query parameters", []ValidationError{*vErr})
	}

	page, err := h.expenseService.GetGeneralExpenses(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCurrency) {
			return NewValidationError(c, "Invalid currency", nil)
		}
		log.Error().Err(err).Msg("Failed to get general expenses")
		return NewInternalError(c, "Failed to get general expenses")
	}

	data := make([]GeneralExpenseResponse, len(page.Data))
	for i, e := range page.Data {
		data[i] = toGeneralExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, PaginatedGeneralExpensesResponse{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// GetGeneralExpense handles GET /api/v1/general-expenses/:id
func (h *GeneralExpenseHandler) GetGeneralExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetGeneralExpenseByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to get general expense")
		return NewInternalError(c, "Failed to get general expense")
	}
	return c.JSON(http.StatusOK, toGeneralExpenseResponse(expense))
}

// UpdateGeneralExpense handles PUT /api/v1/general-expenses/:id
func (h *GeneralExpenseHandler) UpdateGeneralExpense(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateGeneralExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateGeneralExpenseInput{
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Period:        req.Period,
		InvoiceNumber: req.InvoiceNumber,
		Supplier:      req.Supplier,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date format", []ValidationError{
				{Field: "date", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		input.Date = &date
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

	expense, err := h.expenseService.UpdateGeneralExpense(user.ID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Only the creator or an admin can modify this expense")
		}
		if resp := generalExpenseValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to update general expense")
		return NewInternalError(c, "Failed to update general expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Msg("General expense updated")
	return c.JSON(http.StatusOK, toGeneralExpenseResponse(expense))
}

// DeleteGeneralExpense handles DELETE /api/v1/general-expenses/:id
func (h *GeneralExpenseHandler) DeleteGeneralExpense(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteGeneralExpense(user.ID, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Only the creator or an admin can delete this expense")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete general expense")
		return NewInternalError(c, "Failed to delete general expense")
	}

	log.Info().Str("expense_id", id.String()).Msg("General expense deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetStats handles GET /api/v1/general-expenses/stats
func (h *GeneralExpenseHandler) GetStats(c echo.Context) error {
	filters, vErr := parseExpenseFilters(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid query parameters", []ValidationError{*vErr})
	}

	stats, err := h.expenseService.GetStats(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCurrency) {
			return NewValidationError(c, "Invalid currency", nil)
		}
		log.Error().Err(err).Msg("Failed to get expense stats")
		return NewInternalError(c, "Failed to get expense stats")
	}

	byCategory := make([]CategoryStatResponse, len(stats.ByCategory))
	for i, s := range stats.ByCategory {
		byCategory[i] = CategoryStatResponse{
			Category: s.Category,
			Count:    s.Count,
			Amount:   s.Amount.StringFixed(2),
		}
	}
	byMethod := make([]MethodStatResponse, len(stats.ByMethod))
	for i, s := range stats.ByMethod {
		byMethod[i] = MethodStatResponse{
			PaymentMethod: toPaymentMethodResponse(s.PaymentMethod),
			Count:         s.Count,
			Amount:        s.Amount.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, GeneralExpenseStatsResponse{
		TotalAmount: stats.TotalAmount.StringFixed(2),
		TotalCount:  stats.TotalCount,
		ByCategory:  byCategory,
		ByMethod:    byMethod,
	})
}

// UploadReceipt handles POST /api/v1/general-expenses/:id/receipt
func (h *GeneralExpenseHandler) UploadReceipt(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if _, err := h.expenseService.GetGeneralExpenseByID(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to get general expense")
		return NewInternalError(c, "Failed to get general expense")
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Receipt file is required", []ValidationError{
			{Field: "receipt", Message: "Attach the image as multipart field 'receipt'"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}

	variants, err := h.receiptService.ProcessAndUpload(c.Request().Context(), "general-expenses", id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptStorageNotEnabled):
			return NewConflictError(c, "Receipt storage is not configured")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	if err := h.expenseService.SetReceipt(id, variants.DisplayKey); err != nil {
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to store receipt reference")
		return NewInternalError(c, "Failed to store receipt reference")
	}

	url, err := h.receiptService.PresignURL(c.Request().Context(), variants.DisplayKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to presign receipt URL")
		return NewInternalError(c, "Failed to presign receipt URL")
	}

	log.Info().Str("expense_id", id.String()).Str("receipt_id", variants.ID).Msg("Receipt uploaded")
	return c.JSON(http.StatusCreated, map[string]string{
		"receiptId":  variants.ID,
		"receiptUrl": url,
	})
}

// GetReceipt handles GET /api/v1/general-expenses/:id/receipt
func (h *GeneralExpenseHandler) GetReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetGeneralExpenseByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to get general expense")
		return NewInternalError(c, "Failed to get general expense")
	}
	if expense.ReceiptURL == nil {
		return NewNotFoundError(c, "Expense has no receipt")
	}

	url, err := h.receiptService.PresignURL(c.Request().Context(), *expense.ReceiptURL)
	if err != nil {
		if errors.Is(err, service.ErrReceiptStorageNotEnabled) {
			return NewConflictError(c, "Receipt storage is not configured")
		}
		log.Error().Err(err).Msg("Failed to presign receipt URL")
		return NewInternalError(c, "Failed to presign receipt URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"receiptUrl": url})
}

func toGeneralExpenseResponse(e *domain.GeneralExpense) GeneralExpenseResponse {
	resp := GeneralExpenseResponse{
		ID:            e.ID.String(),
		Number:        e.Number,
		Description:   e.Description,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Amount:        e.Amount.StringFixed(2),
		Currency:      string(e.Currency),
		Date:          e.Date.Format(time.RFC3339),
		Period:        e.Period,
		InvoiceNumber: e.InvoiceNumber,
		Supplier:      e.Supplier,
		ReceiptURL:    e.ReceiptURL,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
	if e.PaymentMethod != nil {
		pm := toPaymentMethodResponse(e.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	return resp
}

// parseExpenseFilters parses the shared expense list query params.
// Returns the offending field on invalid input.
func parseExpenseFilters(c echo.Context) (*domain.ExpenseFilters, *ValidationError) {
	filters := &domain.ExpenseFilters{}

	if category := c.QueryParam("category"); category != "" {
		filters.Category = &category
	}
	if period := c.QueryParam("period"); period != "" {
		filters.Period = &period
	}
	if idStr := c.QueryParam("paymentMethodId"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, &ValidationError{Field: "paymentMethodId", Message: "Must be a valid UUID"}
		}
		filters.PaymentMethodID = &id
	}
	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return nil, &ValidationError{Field: "from", Message: "Must be an RFC 3339 timestamp"}
		}
		filters.From = &from
	}
	if toStr := c.QueryParam("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return nil, &ValidationError{Field: "to", Message: "Must be an RFC 3339 timestamp"}
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
			return nil, &ValidationError{Field: "page", Message: "Must be a valid integer"}
		}
		filters.Page = int32(page)
	}
	if sizeStr := c.QueryParam("pageSize"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, &ValidationError{Field: "pageSize", Message: "Must be a valid integer"}
		}
		filters.PageSize = int32(size)
	}

	return filters, nil
}
