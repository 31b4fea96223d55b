package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a confirmed sale ("pedido") whose payments are tracked as
// WORK_PAYMENT transactions.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	ClientName     string          `json:"clientName"`
	Total          decimal.Decimal `json:"total"`
	Currency       Currency        `json:"currency"`
	OrderDate      time.Time       `json:"orderDate"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
}

// OrderRepository defines order lookup operations
type OrderRepository interface {
	GetByID(id uuid.UUID) (*Order, error)
	// SumPendingBalance returns the total outstanding balance across
	// non-cancelled orders.
	SumPendingBalance() (decimal.Decimal, error)
}
