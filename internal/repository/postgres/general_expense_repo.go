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

// GeneralExpenseRepository implements domain.GeneralExpenseRepository using PostgreSQL
type GeneralExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewGeneralExpenseRepository creates a new GeneralExpenseRepository
func NewGeneralExpenseRepository(pool *pgxpool.Pool) *GeneralExpenseRepository {
	return &GeneralExpenseRepository{pool: pool}
}

const generalExpenseSelect = `
	SELECT e.id, e.number, e.description, e.category, e.subcategory,
	       e.amount, e.currency, e.date, e.period, e.invoice_number, e.supplier,
	       e.payment_method_id, e.receipt_url, e.created_by, e.created_at, e.updated_at,
	       pm.id, pm.name, pm.kind, pm.active
	FROM general_expenses e
	LEFT JOIN payment_methods pm ON pm.id = e.payment_method_id`

func (r *GeneralExpenseRepository) scanExpense(row pgx.Row) (*domain.GeneralExpense, error) {
	var e domain.GeneralExpense
	var amount pgtype.Numeric
	var pmID *uuid.UUID
	var pmName, pmKind *string
	var pmActive *bool

	err := row.Scan(&e.ID, &e.Number, &e.Description, &e.Category, &e.Subcategory,
		&amount, &e.Currency, &e.Date, &e.Period, &e.InvoiceNumber, &e.Supplier,
		&e.PaymentMethodID, &e.ReceiptURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&pmID, &pmName, &pmKind, &pmActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	e.Amount = pgNumericToDecimal(amount)
	e.PaymentMethod = joinedPaymentMethod(pmID, pmName, pmKind, pmActive)
	return &e, nil
}

// generalExpenseWhere builds the WHERE clause and args for the filters
func generalExpenseWhere(filters *domain.ExpenseFilters) (string, []any) {
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
	if filters.Period != nil {
		and("e.period = $%d", *filters.Period)
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

// Create creates a new general expense
func (r *GeneralExpenseRepository) Create(expense *domain.GeneralExpense) (*domain.GeneralExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO general_expenses
		   (number, description, category, subcategory, amount, currency, date,
		    period, invoice_number, supplier, payment_method_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		expense.Number, expense.Description, expense.Category, expense.Subcategory,
		amount, string(expense.Currency), expense.Date, expense.Period,
		expense.InvoiceNumber, expense.Supplier, expense.PaymentMethodID, expense.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a general expense by ID
func (r *GeneralExpenseRepository) GetByID(id uuid.UUID) (*domain.GeneralExpense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, generalExpenseSelect+` WHERE e.id = $1`, id)
	return r.scanExpense(row)
}

// List retrieves a filtered page of general expenses, newest first
func (r *GeneralExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedGeneralExpenses, error) {
	ctx := context.Background()
	where, args := generalExpenseWhere(filters)

	var totalItems int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM general_expenses e`+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%s%s ORDER BY e.date DESC, e.created_at DESC LIMIT $%d OFFSET $%d",
		generalExpenseSelect, where, len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	expenses, err := r.queryExpenses(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.PaginatedGeneralExpenses{
		Data:       expenses,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every general expense matching the filters
func (r *GeneralExpenseRepository) ListAll(filters *domain.ExpenseFilters) ([]*domain.GeneralExpense, error) {
	ctx := context.Background()
	where, args := generalExpenseWhere(filters)
	return r.queryExpenses(ctx, generalExpenseSelect+where+` ORDER BY e.date DESC`, args...)
}

// Update updates a general expense's editable fields
func (r *GeneralExpenseRepository) Update(expense *domain.GeneralExpense) (*domain.GeneralExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE general_expenses
		 SET description = $2, category = $3, subcategory = $4, amount = $5,
		     date = $6, period = $7, invoice_number = $8, supplier = $9,
		     payment_method_id = $10, updated_at = now()
		 WHERE id = $1`,
		expense.ID, expense.Description, expense.Category, expense.Subcategory,
		amount, expense.Date, expense.Period, expense.InvoiceNumber,
		expense.Supplier, expense.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrExpenseNotFound
	}
	return r.GetByID(expense.ID)
}

// Delete removes a general expense
func (r *GeneralExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM general_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// CountByYear counts general expenses dated within a calendar year
func (r *GeneralExpenseRepository) CountByYear(year int) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM general_expenses WHERE date_part('year', date) = $1`,
		year).Scan(&count)
	return count, err
}

// StatsByCategory aggregates filtered expenses per category
func (r *GeneralExpenseRepository) StatsByCategory(filters *domain.ExpenseFilters) ([]*domain.CategoryStat, error) {
	ctx := context.Background()
	where, args := generalExpenseWhere(filters)
	rows, err := r.pool.Query(ctx,
		`SELECT e.category, count(*), COALESCE(sum(e.amount), 0)
		 FROM general_expenses e`+where+`
		 GROUP BY e.category
		 ORDER BY sum(e.amount) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.CategoryStat
	for rows.Next() {
		var stat domain.CategoryStat
		var amount pgtype.Numeric
		if err := rows.Scan(&stat.Category, &stat.Count, &amount); err != nil {
			return nil, err
		}
		stat.Amount = pgNumericToDecimal(amount)
		stats = append(stats, &stat)
	}
	return stats, rows.Err()
}

// StatsByMethod aggregates filtered expenses per payment method
func (r *GeneralExpenseRepository) StatsByMethod(filters *domain.ExpenseFilters) ([]*domain.MethodStat, error) {
	ctx := context.Background()
	where, args := generalExpenseWhere(filters)
	rows, err := r.pool.Query(ctx,
		`SELECT pm.id, pm.name, pm.kind, pm.active, count(*), COALESCE(sum(e.amount), 0)
		 FROM general_expenses e
		 JOIN payment_methods pm ON pm.id = e.payment_method_id`+where+`
		 GROUP BY pm.id, pm.name, pm.kind, pm.active
		 ORDER BY sum(e.amount) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*domain.MethodStat
	for rows.Next() {
		var method domain.PaymentMethod
		var kind string
		var stat domain.MethodStat
		var amount pgtype.Numeric
		if err := rows.Scan(&method.ID, &method.Name, &kind, &method.Active, &stat.Count, &amount); err != nil {
			return nil, err
		}
		method.Kind = domain.PaymentMethodKind(kind)
		stat.PaymentMethod = &method
		stat.Amount = pgNumericToDecimal(amount)
		stats = append(stats, &stat)
	}
	return stats, rows.Err()
}

// SetReceiptURL stores or clears the receipt object key for an expense
func (r *GeneralExpenseRepository) SetReceiptURL(id uuid.UUID, url *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE general_expenses SET receipt_url = $2, updated_at = now() WHERE id = $1`,
		id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *GeneralExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*domain.GeneralExpense, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.GeneralExpense
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
