package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// GetByID retrieves a budget by ID
func (r *BudgetRepository) GetByID(id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()
	var b domain.Budget
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT id, number, client_name, total, currency, created_at
		 FROM budgets WHERE id = $1`, id,
	).Scan(&b.ID, &b.Number, &b.ClientName, &total, &b.Currency, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	b.Total = pgNumericToDecimal(total)
	return &b, nil
}
