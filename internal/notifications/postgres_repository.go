package notifications

import (
	"context"
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

// PostgresRepository stores notifications and announcements in the
// relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or any
// compatible querier).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("notifications: db required")
	}
	return &PostgresRepository{db: db}
}

// Insert creates a new notification row.
func (r *PostgresRepository) Insert(ctx context.Context, n *Notification) (*Notification, error) {
	id := n.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, is_read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING created_at
	`
	stored := *n
	stored.ID = id
	stored.IsRead = false
	if err := r.db.QueryRow(ctx, query,
		id, n.UserID, n.Title, n.Message, n.Type,
	).Scan(&stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("notifications: insert: %w: %w", ErrStoreUnavailable, err)
	}
	return &stored, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("notifications: list by user: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan row: %w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notifications: iterate rows: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// MarkRead marks a notification as read. The user_id predicate keeps users
// from flipping each other's notifications.
func (r *PostgresRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("notifications: mark read: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnnouncements returns active announcements, highest priority first.
func (r *PostgresRepository) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	query := `
		SELECT id, title, description, priority, created_at
		FROM announcements
		WHERE is_active
		ORDER BY priority DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("notifications: list announcements: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Priority, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("notifications: scan row: %w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notifications: iterate rows: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}
