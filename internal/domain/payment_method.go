package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Currency is the unit of account a monetary amount is recorded in.
// Amounts in different currencies are never summed together.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether the currency is one of the supported values.
func (c Currency) Valid() bool {
	return c == CurrencyARS || c == CurrencyUSD
}

// PaymentMethodKind classifies a payment method for liquidity analysis.
// The explicit kind replaces name matching; Unknown falls back to the
// legacy name heuristic (see IsCashEquivalent).
type PaymentMethodKind string

const (
	PaymentMethodCash    PaymentMethodKind = "cash"
	PaymentMethodBank    PaymentMethodKind = "bank"
	PaymentMethodOther   PaymentMethodKind = "other"
	PaymentMethodUnknown PaymentMethodKind = ""
)

// Valid reports whether the kind is a known classification.
func (k PaymentMethodKind) Valid() bool {
	switch k {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentMethod is a channel through which money moves (cash, bank
// transfer, check, card). Reference entity: looked up, never computed.
type PaymentMethod struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Kind        PaymentMethodKind `json:"kind,omitempty"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IsCashEquivalent reports whether balances held in this method count
// toward the cash liquidity pool. Methods with an explicit kind branch on
// it; rows created before the kind column existed fall back to the name
// substring the original data used.
func (m *PaymentMethod) IsCashEquivalent() bool {
	if m == nil {
		return false
	}
	if m.Kind != PaymentMethodUnknown {
		return m.Kind == PaymentMethodCash
	}
	name := strings.ToLower(m.Name)
	return strings.Contains(name, "efectivo") || strings.Contains(name, "cash")
}

// PaymentMethodRepository defines payment method persistence operations
type PaymentMethodRepository interface {
	GetAll(activeOnly bool) ([]*PaymentMethod, error)
	GetByID(id uuid.UUID) (*PaymentMethod, error)
	Create(method *PaymentMethod) (*PaymentMethod, error)
	Update(method *PaymentMethod) (*PaymentMethod, error)
}
