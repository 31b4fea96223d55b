package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/middleware"
	"github.com/tallerhq/taller-backend/internal/service"
	"github.com/tallerhq/taller-backend/internal/testutil"
)

// Helper to set up auth context with a resolved user
func setupAuthContext(c echo.Context, user *domain.User) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: user.Subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Email: user.Email,
		},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.UserKey, user)
	c.SetRequest(c.Request().WithContext(ctx))
}

func testUser() *domain.User {
	return &domain.User{
		ID:      uuid.New(),
		Subject: "auth0|test",
		Email:   "test@taller.app",
		Role:    domain.RoleUser,
	}
}

func newTransactionHandlerFixture() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockPaymentMethodRepository, *testutil.MockOrderRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	methodRepo := testutil.NewMockPaymentMethodRepository()
	orderRepo := testutil.NewMockOrderRepository()
	transactionService := service.NewTransactionService(transactionRepo, methodRepo, orderRepo)
	return NewTransactionHandler(transactionService), transactionRepo, methodRepo, orderRepo
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, methodRepo, _ := newTransactionHandlerFixture()

	method := &domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Kind: domain.PaymentMethodCash, Active: true}
	methodRepo.AddMethod(method)

	reqBody := `{"type": "INCOME", "concept": "Seña pedido", "amount": "1500", "currency": "ARS", "date": "2026-06-01T10:00:00Z", "paymentMethodId": "` + method.ID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Type != "INCOME" {
		t.Errorf("Expected type INCOME, got %s", response.Type)
	}
	if response.Amount != "1500.00" {
		t.Errorf("Expected amount '1500.00', got %s", response.Amount)
	}
	if response.Concept != "Seña pedido" {
		t.Errorf("Expected concept preserved, got %s", response.Concept)
	}
}

func TestCreateTransactionHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newTransactionHandlerFixture()

	reqBody := `{"type": "INCOME", "concept": "Seña", "amount": "100", "currency": "ARS", "date": "2026-06-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No auth context
	err := handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newTransactionHandlerFixture()

	reqBody := `{"type": "INCOME", "concept": "Seña", "amount": "abc", "currency": "ARS", "date": "2026-06-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problem.Errors) == 0 || problem.Errors[0].Field != "amount" {
		t.Errorf("Expected amount field error, got %+v", problem.Errors)
	}
}

func TestCreateTransactionHandler_InactiveMethod(t *testing.T) {
	e := echo.New()
	handler, _, methodRepo, _ := newTransactionHandlerFixture()

	method := &domain.PaymentMethod{ID: uuid.New(), Name: "Cuenta cerrada", Active: false}
	methodRepo.AddMethod(method)

	reqBody := `{"type": "INCOME", "concept": "Seña", "amount": "100", "currency": "ARS", "date": "2026-06-01T10:00:00Z", "paymentMethodId": "` + method.ID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_FiltersAndPaging(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _, _ := newTransactionHandlerFixture()

	method := &domain.PaymentMethod{ID: uuid.New(), Name: "Efectivo", Kind: domain.PaymentMethodCash, Active: true}
	for i := 0; i < 3; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:              uuid.New(),
			Type:            domain.TransactionTypeIncome,
			Concept:         "Cobro",
			Amount:          decimal.NewFromInt(int64(100 * (i + 1))),
			Currency:        domain.CurrencyARS,
			Date:            time.Date(2026, 6, i+1, 0, 0, 0, 0, time.UTC),
			PaymentMethodID: &method.ID,
			PaymentMethod:   method,
		})
	}
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		Type:     domain.TransactionTypeExpense,
		Concept:  "Compra insumos",
		Amount:   decimal.NewFromInt(50),
		Currency: domain.CurrencyARS,
		Date:     time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?types=INCOME&page=1&pageSize=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetTransactions(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalItems != 3 {
		t.Errorf("Expected 3 income transactions, got %d", response.TotalItems)
	}
	if len(response.Data) != 2 {
		t.Errorf("Expected 2 per page, got %d", len(response.Data))
	}
	if response.TotalPages != 2 {
		t.Errorf("Expected 2 pages, got %d", response.TotalPages)
	}
}

func TestGetTransactionsHandler_InvalidType(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?types=LOAN", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, testUser())

	err := handler.GetTransactions(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _, _ := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	setupAuthContext(c, testUser())

	err := handler.GetTransaction(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
