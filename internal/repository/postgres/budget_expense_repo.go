package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// BudgetExpenseRepository implements domain.BudgetExpenseRepository using PostgreSQL
type BudgetExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetExpenseRepository creates a new BudgetExpenseRepository
func NewBudgetExpenseRepository(pool *pgxpool.Pool) *BudgetExpenseRepository {
	return &BudgetExpenseRepository{pool: pool}
}

const budgetExpenseSelect = `
	SELECT e.id, e.budget_id, e.number, e.description, e.category, e.subcategory,
	       e.amount, e.currency, e.date, e.voucher, e.supplier, e.notes,
	       e.payment_method_id, e.receipt_url, e.created_by, e.created_at, e.updated_at,
	       pm.id, pm.name, pm.kind, pm.active
	FROM budget_expenses e
	LEFT JOIN payment_methods pm ON pm.id = e.payment_method_id`

func (r *BudgetExpenseRepository) scanExpense(row pgx.Row) (*domain.BudgetExpense, error) {
	var e domain.BudgetExpense
	var category string
	var amount pgtype.Numeric
	var pmID *uuid.UUID
	var pmName, pmKind *string
	var pmActive *bool

	err := row.Scan(&e.ID, &e.BudgetID, &e.Number, &e.Description, &category, &e.Subcategory,
		&amount, &e.Currency, &e.Date, &e.Voucher, &e.Supplier, &e.Notes,
		&e.PaymentMethodID, &e.ReceiptURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&pmID, &pmName, &pmKind, &pmActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	e.Category = domain.ExpenseCategory(category)
	e.Amount = pgNumericToDecimal(amount)
	e.PaymentMethod = joinedPaymentMethod(pmID, pmName, pmKind, pmActive)
	return &e, nil
}

// budgetExpenseWhere builds the WHERE clause and args for the filters
func budgetExpenseWhere(filters *domain.ExpenseFilters) (string, []any) {
	clause := ""
	var args []any
	and := func(cond string, arg any) {
		args = append(args, arg)
		cond = fmt.Sprintf(cond, len(args))
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
	}

	if filters.Category != nil {
		and("e.category = $%d", *filters.Category)
	}
	if filters.PaymentMethodID != nil {
		and("e.payment_method_id = $%d", *filters.PaymentMethodID)
	}
	if filters.From != nil {
		and("e.date >= $%d", *filters.From)
	}
	if filters.To != nil {
		and("e.date <= $%d", *filters.To)
	}
	if filters.Currency != nil {
		and("e.currency = $%d", string(*filters.Currency))
	}

	return clause, args
}

// Create creates a new budget expense
func (r *BudgetExpenseRepository) Create(expense *domain.BudgetExpense) (*domain.BudgetExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO budget_expenses
		   (budget_id, number, description, category, subcategory, amount, currency,
		    date, voucher, supplier, notes, payment_method_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		expense.BudgetID, expense.Number, expense.Description, string(expense.Category),
		expense.Subcategory, amount, string(expense.Currency), expense.Date,
		expense.Voucher, expense.Supplier, expense.Notes, expense.PaymentMethodID,
		expense.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a budget expense by ID
func (r *BudgetExpenseRepository) GetByID(id uuid.UUID) (*domain.BudgetExpense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, budgetExpenseSelect+` WHERE e.id = $1`, id)
	return r.scanExpense(row)
}

// ListByBudget retrieves a budget's expenses, oldest first
func (r *BudgetExpenseRepository) ListByBudget(budgetID uuid.UUID) ([]*domain.BudgetExpense, error) {
	ctx := context.Background()
	return r.queryExpenses(ctx, budgetExpenseSelect+` WHERE e.budget_id = $1 ORDER BY e.date`, budgetID)
}

// ListAll retrieves every budget expense matching the filters
func (r *BudgetExpenseRepository) ListAll(filters *domain.ExpenseFilters) ([]*domain.BudgetExpense, error) {
	ctx := context.Background()
	where, args := budgetExpenseWhere(filters)
	return r.queryExpenses(ctx, budgetExpenseSelect+where+` ORDER BY e.date DESC`, args...)
}

// CountByBudget counts the expenses recorded against a budget
func (r *BudgetExpenseRepository) CountByBudget(budgetID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM budget_expenses WHERE budget_id = $1`, budgetID).Scan(&count)
	return count, err
}

// SetReceiptURL stores or clears the receipt object key for an expense
func (r *BudgetExpenseRepository) SetReceiptURL(id uuid.UUID, url *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE budget_expenses SET receipt_url = $2, updated_at = now() WHERE id = $1`,
		id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *BudgetExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*domain.BudgetExpense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.BudgetExpense
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
