package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags a ledger transaction. The first three types are
// money coming in; the rest are money going out.
type TransactionType string

const (
	TransactionTypeIncome          TransactionType = "INCOME"
	TransactionTypeWorkPayment     TransactionType = "WORK_PAYMENT"
	TransactionTypeAdvance         TransactionType = "ADVANCE"
	TransactionTypeExpense         TransactionType = "EXPENSE"
	TransactionTypeSupplierPayment TransactionType = "SUPPLIER_PAYMENT"
	TransactionTypeGeneralExpense  TransactionType = "GENERAL_EXPENSE"
)

// IncomeTypes are the transaction types counted as income.
var IncomeTypes = []TransactionType{
	TransactionTypeIncome,
	TransactionTypeWorkPayment,
	TransactionTypeAdvance,
}

// ExpenseTypes are the transaction types counted as expense.
var ExpenseTypes = []TransactionType{
	TransactionTypeExpense,
	TransactionTypeSupplierPayment,
	TransactionTypeGeneralExpense,
}

// Valid reports whether the type is part of the enumeration.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeWorkPayment, TransactionTypeAdvance,
		TransactionTypeExpense, TransactionTypeSupplierPayment, TransactionTypeGeneralExpense:
		return true
	}
	return false
}

// IsIncome reports whether the type counts as money coming in.
func (t TransactionType) IsIncome() bool {
	return t == TransactionTypeIncome || t == TransactionTypeWorkPayment || t == TransactionTypeAdvance
}

// Transaction is a ledger entry. Amount is stored positive; the type
// decides the sign during normalization.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	Type            TransactionType `json:"type"`
	Concept         string          `json:"concept"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Date            time.Time       `json:"date"`
	PaymentMethodID *uuid.UUID      `json:"paymentMethodId,omitempty"`
	PaymentMethod   *PaymentMethod  `json:"paymentMethod,omitempty"`
	ClientName      *string         `json:"clientName,omitempty"`
	OrderID         *uuid.UUID      `json:"orderId,omitempty"`
	OrderNumber     *string         `json:"orderNumber,omitempty"`
	CreatedBy       uuid.UUID       `json:"createdBy"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows transaction queries. Nil fields are
// unbounded; From and To are inclusive.
type TransactionFilters struct {
	Types           []TransactionType
	PaymentMethodID *uuid.UUID
	From            *time.Time
	To              *time.Time
	Currency        *Currency
	Page            int32
	PageSize        int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginatedTransactions is a page of transactions plus paging metadata.
type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// MethodUsage summarizes how often a payment method was used in a window.
type MethodUsage struct {
	PaymentMethod *PaymentMethod  `json:"paymentMethod"`
	Count         int64           `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// TransactionRepository defines ledger persistence operations
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(id uuid.UUID) (*Transaction, error)
	List(filters *TransactionFilters) (*PaginatedTransactions, error)
	// ListAll returns every transaction matching the filters without
	// pagination; used by the balance pipeline.
	ListAll(filters *TransactionFilters) ([]*Transaction, error)
	ListByOrder(orderID uuid.UUID, transactionType TransactionType) ([]*Transaction, error)
	ListRecent(limit int32) ([]*Transaction, error)
	SumByTypes(types []TransactionType, from, to time.Time) (decimal.Decimal, error)
	CountByDateRange(from, to time.Time) (int64, error)
	TopMethodUsage(from, to time.Time, limit int32) ([]*MethodUsage, error)
}
