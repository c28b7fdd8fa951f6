package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create hashes the user's plaintext password, saves the user and sets user.ID.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns every user ordered by id.
	List(ctx context.Context) ([]*domain.User, error)

	// ListByDepartment returns the users of one department ordered by id.
	ListByDepartment(ctx context.Context, department domain.Department) ([]*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
