package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionSelect = `
	SELECT t.id, t.type, t.concept, t.amount, t.currency, t.date,
	       t.payment_method_id, t.client_name, t.order_id, t.order_number,
	       t.created_by, t.created_at, t.updated_at,
	       pm.id, pm.name, pm.kind, pm.active
	FROM transactions t
	LEFT JOIN payment_methods pm ON pm.id = t.payment_method_id`

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var txType string
	var amount pgtype.Numeric
	var pmID *uuid.UUID
	var pmName, pmKind *string
	var pmActive *bool

	err := row.Scan(&t.ID, &txType, &t.Concept, &amount, &t.Currency, &t.Date,
		&t.PaymentMethodID, &t.ClientName, &t.OrderID, &t.OrderNumber,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		&pmID, &pmName, &pmKind, &pmActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	t.Type = domain.TransactionType(txType)
	t.Amount = pgNumericToDecimal(amount)
	t.PaymentMethod = joinedPaymentMethod(pmID, pmName, pmKind, pmActive)
	return &t, nil
}

// transactionWhere builds the WHERE clause and args for the filters.
// argOffset is the next $n placeholder index to use.
func transactionWhere(filters *domain.TransactionFilters, argOffset int) (string, []any) {
	clause := ""
	var args []any
	next := func() int { return argOffset + len(args) }
	and := func(cond string) {
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
	}

	if len(filters.Types) > 0 {
		types := make([]string, len(filters.Types))
		for i, t := range filters.Types {
			types[i] = string(t)
		}
		and(fmt.Sprintf("t.type = ANY($%d)", next()))
		args = append(args, types)
	}
	if filters.PaymentMethodID != nil {
		and(fmt.Sprintf("t.payment_method_id = $%d", next()))
		args = append(args, *filters.PaymentMethodID)
	}
	if filters.From != nil {
		and(fmt.Sprintf("t.date >= $%d", next()))
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		and(fmt.Sprintf("t.date <= $%d", next()))
		args = append(args, *filters.To)
	}
	if filters.Currency != nil {
		and(fmt.Sprintf("t.currency = $%d", next()))
		args = append(args, string(*filters.Currency))
	}

	return clause, args
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO transactions
		   (type, concept, amount, currency, date, payment_method_id,
		    client_name, order_id, order_number, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		string(transaction.Type), transaction.Concept, amount, string(transaction.Currency),
		transaction.Date, transaction.PaymentMethodID, transaction.ClientName,
		transaction.OrderID, transaction.OrderNumber, transaction.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a transaction by ID with its payment method joined
func (r *TransactionRepository) GetByID(id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id)
	return r.scanTransaction(row)
}

// List retrieves a filtered page of transactions, newest first
func (r *TransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()
	where, args := transactionWhere(filters, 1)

	var totalItems int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM transactions t`+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	limit := filters.PageSize
	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf("%s%s ORDER BY t.date DESC, t.created_at DESC LIMIT $%d OFFSET $%d",
		transactionSelect, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	transactions, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListAll retrieves every transaction matching the filters, newest first
func (r *TransactionRepository) ListAll(filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()
	where, args := transactionWhere(filters, 1)
	return r.queryTransactions(ctx, transactionSelect+where+` ORDER BY t.date DESC`, args...)
}

// ListByOrder retrieves an order's transactions of one type, oldest first
func (r *TransactionRepository) ListByOrder(orderID uuid.UUID, transactionType domain.TransactionType) ([]*domain.Transaction, error) {
	ctx := context.Background()
	return r.queryTransactions(ctx,
		transactionSelect+` WHERE t.order_id = $1 AND t.type = $2 ORDER BY t.date`,
		orderID, string(transactionType))
}

// ListRecent retrieves the most recently recorded transactions
func (r *TransactionRepository) ListRecent(limit int32) ([]*domain.Transaction, error) {
	ctx := context.Background()
	return r.queryTransactions(ctx,
		transactionSelect+` ORDER BY t.created_at DESC LIMIT $1`, limit)
}

// SumByTypes sums amounts for the given types within the date range
func (r *TransactionRepository) SumByTypes(types []domain.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	typeStrs := make([]string, len(types))
	for i, t := range types {
		typeStrs[i] = string(t)
	}

	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(amount), 0) FROM transactions
		 WHERE type = ANY($1) AND date >= $2 AND date <= $3`,
		typeStrs, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(sum), nil
}

// CountByDateRange counts transactions within the date range
func (r *TransactionRepository) CountByDateRange(from, to time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM transactions WHERE date >= $1 AND date <= $2`,
		from, to).Scan(&count)
	return count, err
}

// TopMethodUsage returns the most used payment methods in the date range
func (r *TransactionRepository) TopMethodUsage(from, to time.Time, limit int32) ([]*domain.MethodUsage, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT pm.id, pm.name, pm.kind, pm.active, count(*), COALESCE(sum(t.amount), 0)
		 FROM transactions t
		 JOIN payment_methods pm ON pm.id = t.payment_method_id
		 WHERE t.date >= $1 AND t.date <= $2
		 GROUP BY pm.id, pm.name, pm.kind, pm.active
		 ORDER BY count(*) DESC
		 LIMIT $3`,
		from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*domain.MethodUsage
	for rows.Next() {
		var method domain.PaymentMethod
		var kind string
		var usage domain.MethodUsage
		var total pgtype.Numeric
		if err := rows.Scan(&method.ID, &method.Name, &kind, &method.Active, &usage.Count, &total); err != nil {
			return nil, err
		}
		method.Kind = domain.PaymentMethodKind(kind)
		usage.PaymentMethod = &method
		usage.Total = pgNumericToDecimal(total)
		usages = append(usages, &usage)
	}
	return usages, rows.Err()
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
