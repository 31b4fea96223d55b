package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testMethod(name string) *PaymentMethod {
	return &PaymentMethod{
		ID:     uuid.New(),
		Name:   name,
		Active: true,
	}
}

func TestNormalizeTransactions_IncomeKeepsSign(t *testing.T) {
	method := testMethod("Efectivo")
	transactions := []*Transaction{
		{
			Type:          TransactionTypeIncome,
			Amount:        decimal.NewFromInt(1000),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			Type:          TransactionTypeWorkPayment,
			Amount:        decimal.NewFromInt(500),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			Type:          TransactionTypeAdvance,
			Amount:        decimal.NewFromInt(250),
			PaymentMethod: method,
			Date:          time.Now(),
		},
	}

	records := NormalizeTransactions(transactions)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	for i, r := range records {
		if r.SignedAmount.Sign() != 1 {
			t.Errorf("Record %d: expected positive signed amount, got %s", i, r.SignedAmount.String())
		}
	}
}

func TestNormalizeTransactions_ExpenseTypesNegated(t *testing.T) {
	method := testMethod("Banco")
	transactions := []*Transaction{
		{
			Type:          TransactionTypeExpense,
			Amount:        decimal.NewFromInt(300),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			Type:          TransactionTypeSupplierPayment,
			Amount:        decimal.NewFromInt(200),
			PaymentMethod: method,
			Date:          time.Now(),
		},
	}

	records := NormalizeTransactions(transactions)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if !records[0].SignedAmount.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("Expected signed amount -300, got %s", records[0].SignedAmount.String())
	}
	if !records[1].SignedAmount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected signed amount -200, got %s", records[1].SignedAmount.String())
	}
}

func TestNormalizeTransactions_DropsMethodlessRecords(t *testing.T) {
	method := testMethod("Efectivo")
	transactions := []*Transaction{
		{
			Type:          TransactionTypeIncome,
			Amount:        decimal.NewFromInt(1000),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			Type:   TransactionTypeIncome,
			Amount: decimal.NewFromInt(999),
			Date:   time.Now(),
		},
	}

	records := NormalizeTransactions(transactions)
	if len(records) != 1 {
		t.Fatalf("Expected methodless transaction to be dropped, got %d records", len(records))
	}
	if !records[0].SignedAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected surviving record amount 1000, got %s", records[0].SignedAmount.String())
	}
}

func TestNormalizeTransactions_Origin(t *testing.T) {
	method := testMethod("Efectivo")
	client := "Carpinteria Lopez"
	transactions := []*Transaction{
		{
			Type:          TransactionTypeIncome,
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: method,
			ClientName:    &client,
			Date:          time.Now(),
		},
		{
			Type:          TransactionTypeIncome,
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: method,
			Date:          time.Now(),
		},
	}

	records := NormalizeTransactions(transactions)
	if records[0].Origin != "Carpinteria Lopez" {
		t.Errorf("Expected origin 'Carpinteria Lopez', got %s", records[0].Origin)
	}
	if records[1].Origin != "N/A" {
		t.Errorf("Expected origin 'N/A', got %s", records[1].Origin)
	}
}

func TestNormalizeBudgetExpenses_AlwaysNegative(t *testing.T) {
	method := testMethod("Banco")
	expenses := []*BudgetExpense{
		{
			Number:        "BE-P-2026-0001-001",
			Category:      ExpenseCategoryMaterials,
			Amount:        decimal.NewFromInt(400),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			// Stored negative by a buggy writer; normalization still negates
			// the absolute value.
			Number:        "BE-P-2026-0001-002",
			Category:      ExpenseCategoryLabor,
			Amount:        decimal.NewFromInt(-150),
			PaymentMethod: method,
			Date:          time.Now(),
		},
	}

	records := NormalizeBudgetExpenses(expenses, nil)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if !records[0].SignedAmount.Equal(decimal.NewFromInt(-400)) {
		t.Errorf("Expected -400, got %s", records[0].SignedAmount.String())
	}
	if !records[1].SignedAmount.Equal(decimal.NewFromInt(-150)) {
		t.Errorf("Expected -150, got %s", records[1].SignedAmount.String())
	}
	if records[0].Category == nil || *records[0].Category != "MATERIALS" {
		t.Error("Expected category MATERIALS to be carried through")
	}
}

func TestNormalizeBudgetExpenses_LabelFallback(t *testing.T) {
	method := testMethod("Banco")
	expenses := []*BudgetExpense{
		{
			Number:        "BE-P-2026-0001-001",
			Category:      ExpenseCategoryMaterials,
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: method,
			Date:          time.Now(),
		},
	}

	records := NormalizeBudgetExpenses(expenses, nil)
	if records[0].Origin != "Budget expense BE-P-2026-0001-001" {
		t.Errorf("Expected fallback origin, got %s", records[0].Origin)
	}

	records = NormalizeBudgetExpenses(expenses, func(e *BudgetExpense) string {
		return "Budget P-2026-0001 - Cliente"
	})
	if records[0].Origin != "Budget P-2026-0001 - Cliente" {
		t.Errorf("Expected label from callback, got %s", records[0].Origin)
	}
}

func TestNormalizeGeneralExpenses(t *testing.T) {
	method := testMethod("Efectivo")
	expenses := []*GeneralExpense{
		{
			Number:        "GG-2026-0001",
			Category:      "Alquiler",
			Amount:        decimal.NewFromInt(800),
			PaymentMethod: method,
			Date:          time.Now(),
		},
		{
			Number:   "GG-2026-0002",
			Category: "Luz",
			Amount:   decimal.NewFromInt(120),
			Date:     time.Now(),
		},
	}

	records := NormalizeGeneralExpenses(expenses)
	if len(records) != 1 {
		t.Fatalf("Expected methodless expense to be dropped, got %d records", len(records))
	}
	if !records[0].SignedAmount.Equal(decimal.NewFromInt(-800)) {
		t.Errorf("Expected -800, got %s", records[0].SignedAmount.String())
	}
	if records[0].Origin != "General expense" {
		t.Errorf("Expected origin 'General expense', got %s", records[0].Origin)
	}
}

func TestBalanceStateOf(t *testing.T) {
	if BalanceStateOf(decimal.NewFromInt(10)) != BalanceStatePositive {
		t.Error("Expected positive state")
	}
	if BalanceStateOf(decimal.NewFromInt(-10)) != BalanceStateNegative {
		t.Error("Expected negative state")
	}
	if BalanceStateOf(decimal.Zero) != BalanceStateNeutral {
		t.Error("Expected neutral state")
	}
}
