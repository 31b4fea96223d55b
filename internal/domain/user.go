package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole controls what a user may edit or delete.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User is an authenticated operator. Subject is the JWT sub claim.
type User struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanModify reports whether the user may edit or delete a record created
// by ownerID. Owners and admins can.
func (u *User) CanModify(ownerID uuid.UUID) bool {
	if u == nil {
		return false
	}
	return u.Role == RoleAdmin || u.ID == ownerID
}

// UserRepository defines user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetBySubject(subject string) (*User, error)
	CreateOrGetBySubject(subject, email string, name *string) (*User, error)
}
