package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
	"github.com/tallerhq/taller-backend/internal/testutil"
)

func newBalanceFixture() (*BalanceService, *testutil.MockTransactionRepository, *testutil.MockBudgetExpenseRepository, *testutil.MockGeneralExpenseRepository, *testutil.MockBudgetRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetExpenseRepo := testutil.NewMockBudgetExpenseRepository()
	generalExpenseRepo := testutil.NewMockGeneralExpenseRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	svc := NewBalanceService(transactionRepo, budgetExpenseRepo, generalExpenseRepo, budgetRepo)
	return svc, transactionRepo, budgetExpenseRepo, generalExpenseRepo, budgetRepo
}

func arsBalanceInput() BalanceInput {
	return BalanceInput{
		IncludeIncome:   true,
		IncludeExpenses: true,
		Currency:        domain.CurrencyARS,
	}
}

func activeMethod(name string, kind domain.PaymentMethodKind) *domain.PaymentMethod {
	return &domain.PaymentMethod{ID: uuid.New(), Name: name, Kind: kind, Active: true}
}

func TestGetBalance_ConsolidatesAllSources(t *testing.T) {
	svc, transactionRepo, budgetExpenseRepo, generalExpenseRepo, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)
	bank := activeMethod("Banco", domain.PaymentMethodBank)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(1000),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeWorkPayment,
		Amount:          decimal.NewFromInt(600),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &bank.ID,
		PaymentMethod:   bank,
	})
	budgetExpenseRepo.AddExpense(&domain.BudgetExpense{
		ID:              uuid.New(),
		Number:          "BE-P-0001-001",
		Category:        domain.ExpenseCategoryMaterials,
		Amount:          decimal.NewFromInt(300),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: bank.ID,
		PaymentMethod:   bank,
	})
	generalExpenseRepo.AddExpense(&domain.GeneralExpense{
		ID:              uuid.New(),
		Number:          "GG-2026-0001",
		Category:        "Alquiler",
		Amount:          decimal.NewFromInt(200),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: cash.ID,
		PaymentMethod:   cash,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.Methods) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(report.Methods))
	}

	// Cash: 1000 income, 200 expense, balance 800. Bank: 600 income, 300
	// expense, balance 300. Sorted by balance descending.
	if report.Methods[0].PaymentMethod.Name != "Efectivo" {
		t.Errorf("Expected Efectivo first, got %s", report.Methods[0].PaymentMethod.Name)
	}
	if !report.Methods[0].Balance.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected cash balance 800, got %s", report.Methods[0].Balance.String())
	}
	if !report.Methods[1].Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected bank balance 300, got %s", report.Methods[1].Balance.String())
	}

	if !report.Totals.TotalIncome.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("Expected total income 1600, got %s", report.Totals.TotalIncome.String())
	}
	if !report.Totals.TotalExpense.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected total expense 500, got %s", report.Totals.TotalExpense.String())
	}
	if !report.Totals.TotalBalance.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Expected total balance 1100, got %s", report.Totals.TotalBalance.String())
	}
	if report.Totals.TransactionCount != 4 {
		t.Errorf("Expected 4 movements, got %d", report.Totals.TransactionCount)
	}

	// Sum of method balances must equal the total balance
	sum := decimal.Zero
	for _, m := range report.Methods {
		sum = sum.Add(m.Balance)
	}
	if !sum.Equal(report.Totals.TotalBalance) {
		t.Errorf("Expected method balances to sum to total, got %s vs %s", sum.String(), report.Totals.TotalBalance.String())
	}

	if report.Health == nil {
		t.Fatal("Expected health score to be present")
	}
	if report.CashFlow == nil {
		t.Fatal("Expected cash flow projection to be present")
	}
}

func TestGetBalance_TieKeepsFirstSeenOrder(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	first := activeMethod("Mercado Pago", domain.PaymentMethodOther)
	second := activeMethod("Banco", domain.PaymentMethodBank)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &first.ID,
		PaymentMethod:   first,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &second.ID,
		PaymentMethod:   second,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Methods[0].PaymentMethod.Name != "Mercado Pago" {
		t.Errorf("Expected first-seen method to win the tie, got %s", report.Methods[0].PaymentMethod.Name)
	}
	if report.Methods[1].PaymentMethod.Name != "Banco" {
		t.Errorf("Expected Banco second, got %s", report.Methods[1].PaymentMethod.Name)
	}
}

func TestGetBalance_RatioNilWithoutExpenses(t *testing.T) {
	svc, transactionRepo, _, generalExpenseRepo, _ := newBalanceFixture()

	incomeOnly := activeMethod("Efectivo", domain.PaymentMethodCash)
	mixed := activeMethod("Banco", domain.PaymentMethodBank)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(400),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &incomeOnly.ID,
		PaymentMethod:   incomeOnly,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(300),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &mixed.ID,
		PaymentMethod:   mixed,
	})
	generalExpenseRepo.AddExpense(&domain.GeneralExpense{
		ID:              uuid.New(),
		Number:          "GG-2026-0001",
		Category:        "Luz",
		Amount:          decimal.NewFromInt(150),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: mixed.ID,
		PaymentMethod:   mixed,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, m := range report.Methods {
		switch m.PaymentMethod.Name {
		case "Efectivo":
			if m.IncomeExpenseRatio != nil {
				t.Errorf("Expected nil ratio without expenses, got %s", m.IncomeExpenseRatio.String())
			}
		case "Banco":
			if m.IncomeExpenseRatio == nil {
				t.Fatal("Expected ratio to be present")
			}
			if !m.IncomeExpenseRatio.Equal(decimal.NewFromInt(2)) {
				t.Errorf("Expected ratio 2, got %s", m.IncomeExpenseRatio.String())
			}
		}
	}
}

func TestGetBalance_DropsMethodlessTransactions(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	// No payment method: must not appear anywhere in the report
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:       uuid.New(),
		Type:     domain.TransactionTypeIncome,
		Amount:   decimal.NewFromInt(9999),
		Currency: domain.CurrencyARS,
		Date:     time.Now(),
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.Methods) != 1 {
		t.Fatalf("Expected 1 method, got %d", len(report.Methods))
	}
	if !report.Totals.TotalIncome.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected methodless income excluded, got total %s", report.Totals.TotalIncome.String())
	}
}

func TestGetBalance_ConcentrationStrictlyAbove80(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	big := activeMethod("Banco", domain.PaymentMethodBank)
	small := activeMethod("Efectivo", domain.PaymentMethodCash)

	// Exactly 80/20: not concentrated
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(800),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &big.ID,
		PaymentMethod:   big,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(200),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &small.ID,
		PaymentMethod:   small,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.Analysis.Alerts.ExcessiveConcentration {
		t.Error("Expected exactly 80% not to trigger concentration")
	}

	// Nudge past the boundary
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &big.ID,
		PaymentMethod:   big,
	})

	report, err = svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !report.Analysis.Alerts.ExcessiveConcentration {
		t.Error("Expected above 80% to trigger concentration")
	}
}

func TestGetBalance_InTheRedCount(t *testing.T) {
	svc, transactionRepo, _, generalExpenseRepo, _ := newBalanceFixture()

	red := activeMethod("Banco", domain.PaymentMethodBank)
	black := activeMethod("Efectivo", domain.PaymentMethodCash)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &black.ID,
		PaymentMethod:   black,
	})
	generalExpenseRepo.AddExpense(&domain.GeneralExpense{
		ID:              uuid.New(),
		Number:          "GG-2026-0001",
		Category:        "Impuestos",
		Amount:          decimal.NewFromInt(300),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: red.ID,
		PaymentMethod:   red,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Analysis.Alerts.InTheRed != 1 {
		t.Errorf("Expected 1 method in the red, got %d", report.Analysis.Alerts.InTheRed)
	}
	if report.Analysis.TopMethod.PaymentMethod.Name != "Efectivo" {
		t.Errorf("Expected Efectivo on top, got %s", report.Analysis.TopMethod.PaymentMethod.Name)
	}
	if report.Analysis.BottomMethod.PaymentMethod.Name != "Banco" {
		t.Errorf("Expected Banco at the bottom, got %s", report.Analysis.BottomMethod.PaymentMethod.Name)
	}
}

func TestGetBalance_ParticipationSharesMovement(t *testing.T) {
	svc, transactionRepo, _, generalExpenseRepo, _ := newBalanceFixture()

	a := activeMethod("Efectivo", domain.PaymentMethodCash)
	b := activeMethod("Banco", domain.PaymentMethodBank)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(750),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &a.ID,
		PaymentMethod:   a,
	})
	generalExpenseRepo.AddExpense(&domain.GeneralExpense{
		ID:              uuid.New(),
		Number:          "GG-2026-0001",
		Category:        "Impuestos",
		Amount:          decimal.NewFromInt(250),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: b.ID,
		PaymentMethod:   b,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Movement: 750 + 250 = 1000. Shares: 75% and 25%.
	if !report.Methods[0].ParticipationPct.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected 75%% participation, got %s", report.Methods[0].ParticipationPct.String())
	}
	if !report.Methods[1].ParticipationPct.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected 25%% participation, got %s", report.Methods[1].ParticipationPct.String())
	}
}

func TestGetBalance_LedgerContributesIncomeOnly(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	// Expense-typed ledger entries never feed the report; the expense leg
	// comes from the expense tables alone.
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(300),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.Methods) != 1 {
		t.Fatalf("Expected 1 method, got %d", len(report.Methods))
	}
	if report.Methods[0].Expense.Count != 0 {
		t.Errorf("Expected no expense movements, got %d", report.Methods[0].Expense.Count)
	}
	if !report.Methods[0].Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance 500, got %s", report.Methods[0].Balance.String())
	}
}

func TestGetBalance_ExcludesIncomeWhenDisabled(t *testing.T) {
	svc, transactionRepo, _, generalExpenseRepo, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
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
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: cash.ID,
		PaymentMethod:   cash,
	})

	input := arsBalanceInput()
	input.IncludeIncome = false

	report, err := svc.GetBalance(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Totals.TotalIncome.IsZero() {
		t.Errorf("Expected no income, got %s", report.Totals.TotalIncome.String())
	}
	if !report.Totals.TotalExpense.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected expense 100, got %s", report.Totals.TotalExpense.String())
	}
}

func TestGetBalance_CurrencyScoped(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyARS,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(50),
		Currency:        domain.CurrencyUSD,
		Date:            time.Now(),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Totals.TotalIncome.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected USD record excluded, got total %s", report.Totals.TotalIncome.String())
	}
}

func TestGetBalance_EmptyReport(t *testing.T) {
	svc, _, _, _, _ := newBalanceFixture()

	report, err := svc.GetBalance(arsBalanceInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.Methods) != 0 {
		t.Errorf("Expected no methods, got %d", len(report.Methods))
	}
	if report.Analysis.TopMethod != nil {
		t.Error("Expected nil top method on empty report")
	}
	if !report.Totals.TotalBalance.IsZero() {
		t.Errorf("Expected zero total balance, got %s", report.Totals.TotalBalance.String())
	}
	if report.Health == nil || report.CashFlow == nil {
		t.Fatal("Expected health and cash flow blocks even on an empty report")
	}
	if report.Health.Score != 50 || report.Health.Band != domain.HealthBandFair {
		t.Errorf("Expected 50/fair on empty report, got %d/%s", report.Health.Score, report.Health.Band)
	}
}

func TestGetBalance_DateWindowInclusive(t *testing.T) {
	svc, transactionRepo, _, _, _ := newBalanceFixture()

	cash := activeMethod("Efectivo", domain.PaymentMethodCash)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyARS,
		Date:            from,
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeIncome,
		Amount:          decimal.NewFromInt(50),
		Currency:        domain.CurrencyARS,
		Date:            time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethodID: &cash.ID,
		PaymentMethod:   cash,
	})

	input := arsBalanceInput()
	input.From = &from
	input.To = &to

	report, err := svc.GetBalance(input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Totals.TotalIncome.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected only the boundary record, got total %s", report.Totals.TotalIncome.String())
	}
}
