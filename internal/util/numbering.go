package util

import "fmt"

// GeneralExpenseNumber formats the sequential number for a general
// expense, e.g. GG-2026-0042. seq is 1-based.
func GeneralExpenseNumber(year int, seq int64) string {
	return fmt.Sprintf("GG-%d-%04d", year, seq)
}

// BudgetExpenseNumber formats the sequential number for an expense
// within a budget, e.g. BE-PRE-2026-001-003. seq is 1-based.
func BudgetExpenseNumber(budgetNumber string, seq int64) string {
	return fmt.Sprintf("BE-%s-%03d", budgetNumber, seq)
}
