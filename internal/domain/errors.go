package domain

import "errors"

// Domain errors
var (
	ErrNotFound                 = errors.New("resource not found")
	ErrInvalidInput             = errors.New("invalid input")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrForbidden                = errors.New("forbidden")
	ErrInternalError            = errors.New("internal error")
	ErrUserNotFound             = errors.New("user not found")
	ErrPaymentMethodNotFound    = errors.New("payment method not found")
	ErrPaymentMethodInactive    = errors.New("payment method is not active")
	ErrBudgetNotFound           = errors.New("budget not found")
	ErrOrderNotFound            = errors.New("order not found")
	ErrExpenseNotFound          = errors.New("expense not found")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrNameRequired             = errors.New("name is required")
	ErrNameTooLong              = errors.New("name exceeds maximum length")
	ErrDescriptionRequired      = errors.New("description is required")
	ErrDescriptionTooLong       = errors.New("description exceeds maximum length")
	ErrCategoryRequired         = errors.New("category is required")
	ErrInvalidCategory          = errors.New("invalid category")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidCurrency          = errors.New("invalid currency")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidPaymentMethodKind = errors.New("invalid payment method kind")
)

// Validation constants
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 200
	MaxCategoryLength    = 100
	MaxNotesLength       = 500
)
