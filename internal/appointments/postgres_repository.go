package appointments

import (
	"context"
	"encoding/json"
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

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or any
// compatible querier).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db}
}

// Insert creates a new row. Order-number collisions surface as
// ErrDuplicateOrderNumber; any other failure is a store outage.
func (r *PostgresRepository) Insert(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := appt.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	servicesJSON, err := json.Marshal(appt.Services)
	if err != nil {
		return nil, fmt.Errorf("appointments: marshal services: %w", err)
	}

	query := `
		INSERT INTO appointments
			(id, order_number, user_id, category_slug, services,
			 appointment_date, appointment_time, status, total_cents,
			 payment_method, notes)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	stored := *appt
	stored.ID = id
	if err := r.db.QueryRow(ctx, query,
		id,
		appt.OrderNumber,
		appt.UserID,
		appt.CategorySlug,
		servicesJSON,
		appt.AppointmentDate,
		appt.AppointmentTime,
		appt.Status,
		appt.TotalCents,
		appt.PaymentMethod,
		appt.Notes,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("appointments: insert: %w", ErrDuplicateOrderNumber)
		}
		return nil, fmt.Errorf("appointments: insert: %w: %w", ErrStoreUnavailable, err)
	}
	return &stored, nil
}

// GetByID fetches a single appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := selectColumns + ` WHERE id = $1`
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select by id: %w: %w", ErrStoreUnavailable, err)
	}
	return appt, nil
}

// FindByDateAndStatus returns every appointment on a calendar date in the
// given state. No category filter here: legacy rows without a slug must be
// matched client-side by service name.
func (r *PostgresRepository) FindByDateAndStatus(ctx context.Context, date string, status Status) ([]Appointment, error) {
	query := selectColumns + `
		WHERE appointment_date = $1 AND status = $2
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, date, status)
	if err != nil {
		return nil, fmt.Errorf("appointments: find by date: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// ListByUser returns a user's appointments, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	query := selectColumns + `
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by user: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// UpdateStatus transitions an appointment to a new lifecycle state.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT id, order_number, user_id, COALESCE(category_slug, ''), services,
	       to_char(appointment_date, 'YYYY-MM-DD'), appointment_time, status,
	       total_cents, payment_method, COALESCE(notes, ''), created_at, updated_at
	FROM appointments`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var servicesJSON []byte
	if err := row.Scan(
		&appt.ID,
		&appt.OrderNumber,
		&appt.UserID,
		&appt.CategorySlug,
		&servicesJSON,
		&appt.AppointmentDate,
		&appt.AppointmentTime,
		&appt.Status,
		&appt.TotalCents,
		&appt.PaymentMethod,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(servicesJSON) > 0 {
		if err := json.Unmarshal(servicesJSON, &appt.Services); err != nil {
			return nil, fmt.Errorf("unmarshal services: %w", err)
		}
	}
	return &appt, nil
}
