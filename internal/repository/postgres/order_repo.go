package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// OrderRepository implements domain.OrderRepository using PostgreSQL
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID retrieves an order by ID. The pending balance is the order
// total minus its recorded work payments.
func (r *OrderRepository) GetByID(id uuid.UUID) (*domain.Order, error) {
	ctx := context.Background()
	var o domain.Order
	var total, paid pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT o.id, o.number, o.client_name, o.total, o.currency, o.order_date,
		        COALESCE((SELECT sum(t.amount) FROM transactions t
		                  WHERE t.order_id = o.id AND t.type = 'WORK_PAYMENT'
		                    AND t.currency = o.currency), 0)
		 FROM orders o WHERE o.id = $1`, id,
	).Scan(&o.ID, &o.Number, &o.ClientName, &total, &o.Currency, &o.OrderDate, &paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	o.Total = pgNumericToDecimal(total)
	o.PendingBalance = o.Total.Sub(pgNumericToDecimal(paid))
	return &o, nil
}

// SumPendingBalance sums the outstanding balance across all orders
func (r *OrderRepository) SumPendingBalance() (decimal.Decimal, error) {
	ctx := context.Background()
	var pending pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(o.total - COALESCE(p.paid, 0)), 0)
		 FROM orders o
		 LEFT JOIN (
		   SELECT order_id, sum(amount) AS paid
		   FROM transactions
		   WHERE type = 'WORK_PAYMENT'
		   GROUP BY order_id
		 ) p ON p.order_id = o.id`,
	).Scan(&pending)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(pending), nil
}
