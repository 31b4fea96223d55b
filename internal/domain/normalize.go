package domain

import "fmt"

// NormalizeTransactions maps ledger transactions into normalized records.
// Income-typed transactions keep their stored amount; every other type is
// negated. Transactions without a resolvable payment method are dropped:
// they cannot be grouped, and the drop is silent by contract.
func NormalizeTransactions(transactions []*Transaction) []NormalizedRecord {
	records := make([]NormalizedRecord, 0, len(transactions))
	for _, tx := range transactions {
		if tx.PaymentMethod == nil {
			continue
		}
		amount := tx.Amount
		if !tx.Type.IsIncome() {
			amount = amount.Neg()
		}
		origin := "N/A"
		if tx.ClientName != nil {
			origin = *tx.ClientName
		}
		records = append(records, NormalizedRecord{
			PaymentMethod: tx.PaymentMethod,
			Date:          tx.Date,
			SignedAmount:  amount,
			Origin:        origin,
		})
	}
	return records
}

// NormalizeBudgetExpenses maps budget expenses into normalized records.
// Always expenses: the signed amount is the negated absolute value
// regardless of the stored sign.
func NormalizeBudgetExpenses(expenses []*BudgetExpense, budgetLabel func(*BudgetExpense) string) []NormalizedRecord {
	records := make([]NormalizedRecord, 0, len(expenses))
	for _, exp := range expenses {
		if exp.PaymentMethod == nil {
			continue
		}
		category := string(exp.Category)
		origin := fmt.Sprintf("Budget expense %s", exp.Number)
		if budgetLabel != nil {
			origin = budgetLabel(exp)
		}
		records = append(records, NormalizedRecord{
			PaymentMethod: exp.PaymentMethod,
			Date:          exp.Date,
			SignedAmount:  exp.Amount.Abs().Neg(),
			Origin:        origin,
			Category:      &category,
		})
	}
	return records
}

// NormalizeGeneralExpenses maps general expenses into normalized records.
// Same signing rule as budget expenses.
func NormalizeGeneralExpenses(expenses []*GeneralExpense) []NormalizedRecord {
	records := make([]NormalizedRecord, 0, len(expenses))
	for _, exp := range expenses {
		if exp.PaymentMethod == nil {
			continue
		}
		category := exp.Category
		records = append(records, NormalizedRecord{
			PaymentMethod: exp.PaymentMethod,
			Date:          exp.Date,
			SignedAmount:  exp.Amount.Abs().Neg(),
			Origin:        "General expense",
			Category:      &category,
		})
	}
	return records
}
