package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/service"
	"github.com/tallerhq/taller-backend/internal/testutil"
)

func newBalanceHandlerFixture() (*BalanceHandler, *testutil.MockTransactionRepository, *testutil.MockGeneralExpenseRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetExpenseRepo := testutil.NewMockBudgetExpenseRepository()
	generalExpenseRepo := testutil.NewMockGeneralExpenseRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	balanceService := service.NewBalanceService(transactionRepo, budgetExpenseRepo, generalExpenseRepo, budgetRepo)
	return NewBalanceHandler(balanceService), transactionRepo, generalExpenseRepo
}

func TestGetBalanceHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, generalExpenseRepo := newBalanceHandlerFixture()

	cash := &domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Kind: domain.PaymentMethodCash, Active: true}
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Concept:         "Cobro",
		Amount:          decimal.NewFromInt(1000),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	generalExpenseRepo.AddExpense(&domain.GeneralExpense{
		ID:              uuid.New(),
		Number:          "GG-2026-0001",
		Category:        "Luz",
		Amount:          decimal.NewFromInt(400),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: cash.ID,
		PaymentMethod:   cash,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response BalanceReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response.Balance) != 1 {
		t.Fatalf("Expected 1 method, got %d", len(response.Balance))
	}
	if response.Balance[0].Balance != "600.00" {
		t.Errorf("Expected balance '600.00', got %s", response.Balance[0].Balance)
	}
	if response.Balance[0].State != "positive" {
		t.Errorf("Expected positive state, got %s", response.Balance[0].State)
	}
	if response.Balance[0].Income.Count != 1 || response.Balance[0].Expense.Count != 1 {
		t.Errorf("Expected 1 movement each way, got %d/%d", response.Balance[0].Income.Count, response.Balance[0].Expense.Count)
	}
	if response.Totals.TotalIncome != "1000.00" {
		t.Errorf("Expected total income '1000.00', got %s", response.Totals.TotalIncome)
	}
	if response.Totals.TransactionCount != 2 {
		t.Errorf("Expected 2 movements in totals, got %d", response.Totals.TransactionCount)
	}
	if response.Params.Currency != "ARS" {
		t.Errorf("Expected default currency ARS, got %s", response.Params.Currency)
	}
	if !response.Params.IncludeIncome || !response.Params.IncludeExpenses {
		t.Error("Expected both directions included by default")
	}
	if response.Health.Band == "" {
		t.Error("Expected a health band")
	}
	if response.CashFlow.Trend == "" {
		t.Error("Expected a cash flow trend")
	}
	if response.CashFlow.LiquidityDays != "45.0" {
		t.Errorf("Expected liquidity days '45.0', got %s", response.CashFlow.LiquidityDays)
	}
}

func TestGetBalanceHandler_InvalidDate(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBalanceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance?from=not-a-date", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBalanceHandler_InvertedRange(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBalanceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance?from=2026-06-30T00:00:00Z&to=2026-06-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBalanceHandler_InvalidCurrency(t *testing.T) {
	e := echo.New()
	handler, _, _ := newBalanceHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance?currency=EUR", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetBalance(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
