package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// PaymentMethodRepository implements domain.PaymentMethodRepository using PostgreSQL
type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository
func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

const paymentMethodColumns = `id, name, description, kind, active, created_at, updated_at`

func (r *PaymentMethodRepository) scanMethod(row pgx.Row) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	var kind string
	err := row.Scan(&m.ID, &m.Name, &m.Description, &kind, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	m.Kind = domain.PaymentMethodKind(kind)
	return &m, nil
}

// GetAll retrieves payment methods ordered by name, optionally active only
func (r *PaymentMethodRepository) GetAll(activeOnly bool) ([]*domain.PaymentMethod, error) {
	ctx := context.Background()
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*domain.PaymentMethod
	for rows.Next() {
		m, err := r.scanMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// GetByID retrieves a payment method by ID
func (r *PaymentMethodRepository) GetByID(id uuid.UUID) (*domain.PaymentMethod, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1`, id)
	return r.scanMethod(row)
}

// Create creates a new payment method
func (r *PaymentMethodRepository) Create(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO payment_methods (name, description, kind, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+paymentMethodColumns,
		method.Name, method.Description, string(method.Kind), method.Active)
	return r.scanMethod(row)
}

// Update updates a payment method's editable fields
func (r *PaymentMethodRepository) Update(method *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE payment_methods
		 SET name = $2, description = $3, kind = $4, active = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+paymentMethodColumns,
		method.ID, method.Name, method.Description, string(method.Kind), method.Active)
	return r.scanMethod(row)
}
