package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "password_hash", "designation", "department", "created_at"}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	builder    sq.StatementBuilderType
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// Passwords are hashed with bcryptCost; out-of-range costs fall back to bcrypt.DefaultCost.
func NewPostgresUserStore(db store.DBTX, bcryptCost int) *PostgresUserStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		builder:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during creation",
			slog.String("username", user.Username),
			slog.String("error", err.Error()))
		return err
	}
	if user.Password == "" {
		return domain.NewValidationError("password", "cannot be empty", domain.ErrEmptyPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query, args, err := s.builder.
		Insert("users").
		Columns("username", "password_hash", "designation", "department", "created_at").
		Values(user.Username, string(hashed), string(user.Designation), int(user.Department), user.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert user query: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempted to create user with existing username",
				slog.String("username", user.Username))
			return store.ErrUsernameExists
		}
		log.Error("failed to insert user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	user.HashedPassword = string(hashed)
	// The plaintext must not outlive the insert.
	user.Password = ""

	log.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"id": id})
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"username": username})
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	return s.list(ctx, nil)
}

// ListByDepartment implements store.UserStore.ListByDepartment
func (s *PostgresUserStore) ListByDepartment(
	ctx context.Context,
	department domain.Department,
) ([]*domain.User, error) {
	return s.list(ctx, sq.Eq{"department": int(department)})
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, bcryptCost: s.bcryptCost, builder: s.builder}
}

func (s *PostgresUserStore) getOne(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	query, args, err := s.builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select user query: %w", err)
	}

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to query user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}
	return user, nil
}

func (s *PostgresUserStore) list(ctx context.Context, where sq.Sqlizer) ([]*domain.User, error) {
	qb := s.builder.Select(userColumns...).From("users").OrderBy("id")
	if where != nil {
		qb = qb.Where(where)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", "scan failed", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "iteration failed", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user        domain.User
		designation string
		department  int
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&designation,
		&department,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	d, err := domain.ParseDesignation(designation)
	if err != nil {
		return nil, fmt.Errorf("stored user %d has designation %q: %w", user.ID, designation, err)
	}
	user.Designation = d
	user.Department = domain.Department(department)
	return &user, nil
}
