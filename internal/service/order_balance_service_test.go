package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/testutil"
)

func addWorkPayment(repo *testutil.MockTransactionRepository, orderID uuid.UUID, method *domain.PaymentMethod, amount int64, currency domain.Currency) {
	repo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeWorkPayment,
		Amount:          decimal.NewFromInt(amount),
		Currency:        currency,
		Date:            time.Now(),
		PaymentMethodID: &method.ID,
		PaymentMethod:   method,
		OrderID:         &orderID,
	})
}

func TestGetOrderBalance(t *testing.T) {
	orderRepo := testutil.NewMockOrderRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewOrderBalanceService(orderRepo, transactionRepo)

	order := &domain.Order{ID: uuid.New(), Number: "P-0012", ClientName: "Metalúrgica Oeste", Total: decimal.NewFromInt(10000), Currency: domain.CurrencyARS}
	orderRepo.AddOrder(order)

	cash := &domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Kind: domain.PaymentMethodCash, Active: true}
	bank := &domain.PaymentMethod{ID: uuid.New(), Name: "Banco", Kind: domain.PaymentMethodBank, Active: true}

	addWorkPayment(transactionRepo, order.ID, cash, 2000, domain.CurrencyARS)
	addWorkPayment(transactionRepo, order.ID, cash, 1000, domain.CurrencyARS)
	addWorkPayment(transactionRepo, order.ID, bank, 2000, domain.CurrencyARS)

	balance, err := svc.GetOrderBalance(order.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !balance.TotalPaid.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected total paid 5000, got %s", balance.TotalPaid.String())
	}
	if !balance.PendingBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected pending 5000, got %s", balance.PendingBalance.String())
	}
	if !balance.CollectedPct.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected 50%% collected, got %s", balance.CollectedPct.String())
	}
	if len(balance.ByMethod) != 2 {
		t.Fatalf("Expected 2 method entries, got %d", len(balance.ByMethod))
	}
	if balance.MostUsedMethod == nil || balance.MostUsedMethod.Name != "Efectivo" {
		t.Errorf("Expected Efectivo as most used, got %v", balance.MostUsedMethod)
	}
	if !balance.ByMethod[0].Pct.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected cash share 60%%, got %s", balance.ByMethod[0].Pct.String())
	}
	if !balance.ByMethod[0].Average.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected cash average 1500, got %s", balance.ByMethod[0].Average.String())
	}
	if balance.ByMethod[0].FirstPayment == nil || balance.ByMethod[0].LastPayment == nil {
		t.Error("Expected first and last payment dates")
	}
}

func TestGetOrderBalance_ForeignCurrencyExcludedFromTotal(t *testing.T) {
	orderRepo := testutil.NewMockOrderRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewOrderBalanceService(orderRepo, transactionRepo)

	order := &domain.Order{ID: uuid.New(), Number: "P-0013", Total: decimal.NewFromInt(1000), Currency: domain.CurrencyARS}
	orderRepo.AddOrder(order)

	cash := &domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Kind: domain.PaymentMethodCash, Active: true}
	addWorkPayment(transactionRepo, order.ID, cash, 400, domain.CurrencyARS)
	addWorkPayment(transactionRepo, order.ID, cash, 100, domain.CurrencyUSD)

	balance, err := svc.GetOrderBalance(order.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !balance.TotalPaid.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected USD payment excluded, got total %s", balance.TotalPaid.String())
	}
	// Listed regardless of currency
	if len(balance.Payments) != 2 {
		t.Errorf("Expected 2 payments listed, got %d", len(balance.Payments))
	}
}

func TestGetOrderBalance_NoPayments(t *testing.T) {
	orderRepo := testutil.NewMockOrderRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewOrderBalanceService(orderRepo, transactionRepo)

	order := &domain.Order{ID: uuid.New(), Number: "P-0014", Total: decimal.NewFromInt(800), Currency: domain.CurrencyARS}
	orderRepo.AddOrder(order)

	balance, err := svc.GetOrderBalance(order.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !balance.TotalPaid.IsZero() {
		t.Errorf("Expected zero paid, got %s", balance.TotalPaid.String())
	}
	if !balance.PendingBalance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected full pending, got %s", balance.PendingBalance.String())
	}
	if balance.MostUsedMethod != nil {
		t.Error("Expected no most used method")
	}
}

func TestGetOrderBalance_UnknownOrder(t *testing.T) {
	orderRepo := testutil.NewMockOrderRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewOrderBalanceService(orderRepo, transactionRepo)

	_, err := svc.GetOrderBalance(uuid.New())
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound, got %v", err)
	}
}
