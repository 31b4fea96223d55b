package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/middleware"
	"github.com/tallerhq/taller-backend/internal/service"
)

// BudgetExpenseHandler handles budget expense HTTP requests
type BudgetExpenseHandler struct {
	expenseService *service.BudgetExpenseService
	receiptService *service.ReceiptService
}

// NewBudgetExpenseHandler creates a new BudgetExpenseHandler
func NewBudgetExpenseHandler(expenseService *service.BudgetExpenseService, receiptService *service.ReceiptService) *BudgetExpenseHandler {
	return &BudgetExpenseHandler{
		expenseService: expenseService,
		receiptService: receiptService,
	}
}

// CreateBudgetExpenseRequest represents the create budget expense request body
type CreateBudgetExpenseRequest struct {
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Subcategory     *string `json:"subcategory,omitempty"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Date            string  `json:"date"`
	Voucher         *string `json:"voucher,omitempty"`
	Supplier        *string `json:"supplier,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// BudgetExpenseResponse represents a budget expense in API responses
type BudgetExpenseResponse struct {
	ID            string                 `json:"id"`
	BudgetID      string                 `json:"budgetId"`
	Number        string                 `json:"number"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category"`
	Subcategory   *string                `json:"subcategory,omitempty"`
	Amount        string                 `json:"amount"`
	Currency      string                 `json:"currency"`
	Date          string                 `json:"date"`
	Voucher       *string                `json:"voucher,omitempty"`
	Supplier      *string                `json:"supplier,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	PaymentMethod *PaymentMethodResponse `json:"paymentMethod,omitempty"`
	ReceiptURL    *string                `json:"receiptUrl,omitempty"`
	CreatedAt     string                 `json:"createdAt"`
}

// BudgetExpenseSummaryResponse represents a budget's expense summary
type BudgetExpenseSummaryResponse struct {
	BudgetID     string                  `json:"budgetId"`
	BudgetNumber string                  `json:"budgetNumber"`
	ClientName   string                  `json:"clientName"`
	BudgetTotal  string                  `json:"budgetTotal"`
	Currency     string                  `json:"currency"`
	TotalSpent   string                  `json:"totalSpent"`
	Remaining    string                  `json:"remaining"`
	ByCategory   []CategoryStatResponse  `json:"byCategory"`
	Expenses     []BudgetExpenseResponse `json:"expenses"`
}

// CreateBudgetExpense handles POST /api/v1/budgets/:budgetId/expenses
func (h *BudgetExpenseHandler) CreateBudgetExpense(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req CreateBudgetExpenseRequest
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

	expense, err := h.expenseService.CreateBudgetExpense(user.ID, budgetID, service.CreateBudgetExpenseInput{
		Description:     req.Description,
		Category:        domain.ExpenseCategory(req.Category),
		Subcategory:     req.Subcategory,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		Date:            date,
		Voucher:         req.Voucher,
		Supplier:        req.Supplier,
		Notes:           req.Notes,
		PaymentMethodID: methodID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Category must be one of: MATERIALS, LABOR, TRANSPORT, TOOLS, SERVICES, OTHER"},
			})
		}
		if resp := generalExpenseValidationError(c, err); resp != nil {
			return resp
		}
		log.Error().Err(err).Str("budget_id", budgetID.String()).Msg("Failed to create budget expense")
		return NewInternalError(c, "Failed to create budget expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("number", expense.Number).Msg("Budget expense created")
	return c.JSON(http.StatusCreated, toBudgetExpenseResponse(expense))
}

// GetBudgetExpenses handles GET /api/v1/budgets/:budgetId/expenses
func (h *BudgetExpenseHandler) GetBudgetExpenses(c echo.Context) error {
	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	summary, err := h.expenseService.GetByBudget(budgetID)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", budgetID.String()).Msg("Failed to get budget expenses")
		return NewInternalError(c, "Failed to get budget expenses")
	}

	expenses := make([]BudgetExpenseResponse, len(summary.Expenses))
	for i, e := range summary.Expenses {
		expenses[i] = toBudgetExpenseResponse(e)
	}

	byCategory := make([]CategoryStatResponse, len(summary.ByCategory))
	for i, s := range summary.ByCategory {
		byCategory[i] = CategoryStatResponse{
			Category: s.Category,
			Count:    s.Count,
			Amount:   s.Amount.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, BudgetExpenseSummaryResponse{
		BudgetID:     summary.Budget.ID.String(),
		BudgetNumber: summary.Budget.Number,
		ClientName:   summary.Budget.ClientName,
		BudgetTotal:  summary.Budget.Total.StringFixed(2),
		Currency:     string(summary.Budget.Currency),
		TotalSpent:   summary.TotalSpent.StringFixed(2),
		Remaining:    summary.Remaining.StringFixed(2),
		ByCategory:   byCategory,
		Expenses:     expenses,
	})
}

// UploadReceipt handles POST /api/v1/budget-expenses/:id/receipt
func (h *BudgetExpenseHandler) UploadReceipt(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if _, err := h.expenseService.GetBudgetExpenseByID(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to get budget expense")
		return NewInternalError(c, "Failed to get budget expense")
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

	variants, err := h.receiptService.ProcessAndUpload(c.Request().Context(), "budget-expenses", id, data, file.Filename)
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

func toBudgetExpenseResponse(e *domain.BudgetExpense) BudgetExpenseResponse {
	resp := BudgetExpenseResponse{
		ID:          e.ID.String(),
		BudgetID:    e.BudgetID.String(),
		Number:      e.Number,
		Description: e.Description,
		Category:    string(e.Category),
		Subcategory: e.Subcategory,
		Amount:      e.Amount.StringFixed(2),
		Currency:    string(e.Currency),
		Date:        e.Date.Format(time.RFC3339),
		Voucher:     e.Voucher,
		Supplier:    e.Supplier,
		Notes:       e.Notes,
		ReceiptURL:  e.ReceiptURL,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.PaymentMethod != nil {
		pm := toPaymentMethodResponse(e.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	return resp
}
