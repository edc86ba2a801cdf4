package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type db interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or any
// compatible querier).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("accounts: db required")
	}
	return &PostgresRepository{db: db}
}

const selectColumns = `
	SELECT id, email, full_name, COALESCE(phone, ''), password_hash, created_at, updated_at
	FROM users`

// Insert creates a new user row. Email collisions surface as ErrEmailTaken.
func (r *PostgresRepository) Insert(ctx context.Context, user *User) (*User, error) {
	id := user.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, full_name, phone, password_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING created_at, updated_at
	`
	stored := *user
	stored.ID = id
	stored.Email = NormalizeEmail(user.Email)
	if err := r.db.QueryRow(ctx, query,
		id, stored.Email, user.FullName, user.Phone, user.PasswordHash,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("accounts: insert: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("accounts: insert: %w: %w", ErrStoreUnavailable, err)
	}
	return &stored, nil
}

// GetByID fetches a single user.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("accounts: select by id: %w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

// GetByEmail fetches a single user by normalized email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, selectColumns+` WHERE email = $1`, NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("accounts: select by email: %w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

// UpdateProfile replaces a user's display fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) (*User, error) {
	query := `
		UPDATE users SET full_name = $2, phone = NULLIF($3, ''), updated_at = now()
		WHERE id = $1
		RETURNING id, email, full_name, COALESCE(phone, ''), password_hash, created_at, updated_at`
	user, err := scanUser(r.db.QueryRow(ctx, query, id, fullName, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("accounts: update profile: %w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

// UpdatePasswordHash replaces a user's password hash.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, hash)
	if err != nil {
		return fmt.Errorf("accounts: update password: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Phone,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
