package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies a budget-scoped expense.
type ExpenseCategory string

const (
	ExpenseCategoryMaterials ExpenseCategory = "MATERIALS"
	ExpenseCategoryLabor     ExpenseCategory = "LABOR"
	ExpenseCategoryTransport ExpenseCategory = "TRANSPORT"
	ExpenseCategoryTools     ExpenseCategory = "TOOLS"
	ExpenseCategoryServices  ExpenseCategory = "SERVICES"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

// Valid reports whether the category is part of the enumeration.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryMaterials, ExpenseCategoryLabor, ExpenseCategoryTransport,
		ExpenseCategoryTools, ExpenseCategoryServices, ExpenseCategoryOther:
		return true
	}
	return false
}

// BudgetExpense is an expense charged against a specific budget.
type BudgetExpense struct {
	ID              uuid.UUID       `json:"id"`
	BudgetID        uuid.UUID       `json:"budgetId"`
	Number          string          `json:"number"`
	Description     string          `json:"description"`
	Category        ExpenseCategory `json:"category"`
	Subcategory     *string         `json:"subcategory,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Date            time.Time       `json:"date"`
	Voucher         *string         `json:"voucher,omitempty"`
	Supplier        *string         `json:"supplier,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	PaymentMethodID uuid.UUID       `json:"paymentMethodId"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	ReceiptURL      *string         `json:"receiptUrl,omitempty"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// GeneralExpense is an operating expense not tied to any budget.
type GeneralExpense struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Subcategory     *string         `json:"subcategory,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Date            time.Time       `json:"date"`
	Period          *string         `json:"period,omitempty"`
	InvoiceNumber   *string         `json:"invoiceNumber,omitempty"`
	Supplier        *string         `json:"supplier,omitempty"`
	PaymentMethodID uuid.UUID       `json:"paymentMethodId"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	ReceiptURL      *string         `json:"receiptUrl,omitempty"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ExpenseFilters narrows expense queries. Nil fields are unbounded;
// From and To are inclusive.
type ExpenseFilters struct {
	Category        *string
	Period          *string
	PaymentMethodID *uuid.UUID
	From            *time.Time
	To              *time.Time
	Currency        *Currency
	Page            int32
	PageSize        int32
}

// PaginatedGeneralExpenses is a page of general expenses plus metadata.
type PaginatedGeneralExpenses struct {
	Data       []*GeneralExpense `json:"data"`
	Page       int32             `json:"page"`
	PageSize   int32             `json:"pageSize"`
	TotalItems int64             `json:"totalItems"`
	TotalPages int32             `json:"totalPages"`
}

// CategoryStat aggregates expense count and amount per category.
type CategoryStat struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// MethodStat aggregates expense count and amount per payment method.
type MethodStat struct {
	PaymentMethod *PaymentMethod  `json:"paymentMethod"`
	Count         int64           `json:"count"`
	Amount        decimal.Decimal `json:"amount"`
}

// BudgetExpenseRepository defines budget expense persistence operations
type BudgetExpenseRepository interface {
	Create(expense *BudgetExpense) (*BudgetExpense, error)
	GetByID(id uuid.UUID) (*BudgetExpense, error)
	ListByBudget(budgetID uuid.UUID) ([]*BudgetExpense, error)
	// ListAll returns every budget expense matching the filters; used by
	// the balance pipeline.
	ListAll(filters *ExpenseFilters) ([]*BudgetExpense, error)
	CountByBudget(budgetID uuid.UUID) (int64, error)
	SetReceiptURL(id uuid.UUID, url *string) error
}

// GeneralExpenseRepository defines general expense persistence operations
type GeneralExpenseRepository interface {
	Create(expense *GeneralExpense) (*GeneralExpense, error)
	GetByID(id uuid.UUID) (*GeneralExpense, error)
	List(filters *ExpenseFilters) (*PaginatedGeneralExpenses, error)
	// ListAll returns every general expense matching the filters; used by
	// the balance pipeline.
	ListAll(filters *ExpenseFilters) ([]*GeneralExpense, error)
	Update(expense *GeneralExpense) (*GeneralExpense, error)
	Delete(id uuid.UUID) error
	CountByYear(year int) (int64, error)
	StatsByCategory(filters *ExpenseFilters) ([]*CategoryStat, error)
	StatsByMethod(filters *ExpenseFilters) ([]*MethodStat, error)
	SetReceiptURL(id uuid.UUID, url *string) error
}
