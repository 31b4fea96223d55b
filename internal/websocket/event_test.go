package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "pm-1",
		"name":   "Efectivo",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EntityTransaction, "created", payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := NewEvent(EntityGeneralExpense, "updated", map[string]interface{}{"id": "e-1"})

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "general_expense.updated", decoded["type"])
	assert.Equal(t, "general_expense", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": "x"}

	t.Run("PaymentMethodCreated", func(t *testing.T) {
		evt := PaymentMethodCreated(payload)
		assert.Equal(t, "payment_method.created", evt.Type)
		assert.Equal(t, EntityPaymentMethod, evt.Entity)
	})

	t.Run("PaymentMethodUpdated", func(t *testing.T) {
		evt := PaymentMethodUpdated(payload)
		assert.Equal(t, "payment_method.updated", evt.Type)
	})

	t.Run("TransactionCreated", func(t *testing.T) {
		evt := TransactionCreated(payload)
		assert.Equal(t, "transaction.created", evt.Type)
		assert.Equal(t, EntityTransaction, evt.Entity)
	})

	t.Run("GeneralExpenseDeleted", func(t *testing.T) {
		evt := GeneralExpenseDeleted(payload)
		assert.Equal(t, "general_expense.deleted", evt.Type)
	})

	t.Run("BudgetExpenseCreated", func(t *testing.T) {
		evt := BudgetExpenseCreated(payload)
		assert.Equal(t, "budget_expense.created", evt.Type)
		assert.Equal(t, EntityBudgetExpense, evt.Entity)
	})
}

func TestBalanceInvalidated(t *testing.T) {
	evt := BalanceInvalidated("transaction.created")

	assert.Equal(t, "balance.invalidated", evt.Type)
	assert.Equal(t, EntityBalance, evt.Entity)

	reason, ok := evt.Payload.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "transaction.created", reason["reason"])
}
