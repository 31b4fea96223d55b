package websocket

import (
	"encoding/json"
	"time"
)

// Event represents a WebSocket event to be broadcast to clients
type Event struct {
	Type      string      `json:"type"`
	Entity    string      `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event entity names
const (
	EntityPaymentMethod  = "payment_method"
	EntityTransaction    = "transaction"
	EntityGeneralExpense = "general_expense"
	EntityBudgetExpense  = "budget_expense"
	EntityBalance        = "balance"
)

// NewEvent creates a new event with the current timestamp
func NewEvent(entity, eventType string, payload interface{}) Event {
	return Event{
		Type:      entity + "." + eventType,
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PaymentMethodCreated creates a payment method created event
func PaymentMethodCreated(payload interface{}) Event {
	return NewEvent(EntityPaymentMethod, "created", payload)
}

// PaymentMethodUpdated creates a payment method updated event
func PaymentMethodUpdated(payload interface{}) Event {
	return NewEvent(EntityPaymentMethod, "updated", payload)
}

// TransactionCreated creates a transaction created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EntityTransaction, "created", payload)
}

// GeneralExpenseCreated creates a general expense created event
func GeneralExpenseCreated(payload interface{}) Event {
	return NewEvent(EntityGeneralExpense, "created", payload)
}

// GeneralExpenseUpdated creates a general expense updated event
func GeneralExpenseUpdated(payload interface{}) Event {
	return NewEvent(EntityGeneralExpense, "updated", payload)
}

// GeneralExpenseDeleted creates a general expense deleted event
func GeneralExpenseDeleted(payload interface{}) Event {
	return NewEvent(EntityGeneralExpense, "deleted", payload)
}

// BudgetExpenseCreated creates a budget expense created event
func BudgetExpenseCreated(payload interface{}) Event {
	return NewEvent(EntityBudgetExpense, "created", payload)
}

// BalanceInvalidated signals that cached balance reports should be refreshed
// after a money-moving write
func BalanceInvalidated(reason string) Event {
	return NewEvent(EntityBalance, "invalidated", map[string]string{"reason": reason})
}
