package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a quote ("presupuesto") expenses can be charged against.
// Only the fields the expense and balance flows need are modeled here.
type Budget struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	ClientName string          `json:"clientName"`
	Total      decimal.Decimal `json:"total"`
	Currency   Currency        `json:"currency"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// BudgetRepository defines budget lookup operations
type BudgetRepository interface {
	GetByID(id uuid.UUID) (*Budget, error)
}
