package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallerhq/taller-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, subject, email, name, role, created_at, updated_at`

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

// GetBySubject retrieves a user by JWT subject
func (r *UserRepository) GetBySubject(subject string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
	return r.scanUser(row)
}

// CreateOrGetBySubject upserts a user on first login. Existing rows keep
// their role; email and name refresh from the token.
func (r *UserRepository) CreateOrGetBySubject(subject, email string, name *string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (subject, email, name, role)
		 VALUES ($1, $2, $3, 'USER')
		 ON CONFLICT (subject) DO UPDATE
		   SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = now()
		 RETURNING `+userColumns,
		subject, email, name)
	return r.scanUser(row)
}
