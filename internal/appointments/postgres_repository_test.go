package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresInsertReturnsTimestamps(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "ORD-12345678", pgxmock.AnyArg(), "hair",
			pgxmock.AnyArg(), "2024-01-01", "02:00 PM", StatusPending,
			int64(4500), "Cash", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	appt, err := repo.Insert(context.Background(), &Appointment{
		OrderNumber:     "ORD-12345678",
		UserID:          uuid.New(),
		CategorySlug:    "hair",
		Services:        []ServiceLine{{Name: "Classic Cut", PriceCents: 4500}},
		AppointmentDate: "2024-01-01",
		AppointmentTime: "02:00 PM",
		Status:          StatusPending,
		TotalCents:      4500,
		PaymentMethod:   "Cash",
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if appt.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if !appt.CreatedAt.Equal(now) {
		t.Fatalf("created_at mismatch, got %s want %s", appt.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresInsertDuplicateOrderNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_order_number_key"})

	_, err = repo.Insert(context.Background(), &Appointment{
		OrderNumber:     "ORD-12345678",
		UserID:          uuid.New(),
		AppointmentDate: "2024-01-01",
		AppointmentTime: "02:00 PM",
		Status:          StatusPending,
		PaymentMethod:   "Cash",
	})
	if !errors.Is(err, ErrDuplicateOrderNumber) {
		t.Fatalf("expected ErrDuplicateOrderNumber, got %v", err)
	}
}

func TestPostgresFindByDateAndStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()
	id := uuid.New()
	userID := uuid.New()
	services, _ := json.Marshal([]ServiceLine{{Name: "Gel Polish", PriceCents: 2000}})

	cols := []string{
		"id", "order_number", "user_id", "category_slug", "services",
		"appointment_date", "appointment_time", "status", "total_cents",
		"payment_method", "notes", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("2024-01-01", StatusConfirmed).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			id, "ORD-00000001", userID, "nails", services,
			"2024-01-01", "02:00 PM", StatusConfirmed, int64(2000),
			"Cash", "", now, now,
		))

	appts, err := repo.FindByDateAndStatus(context.Background(), "2024-01-01", StatusConfirmed)
	if err != nil {
		t.Fatalf("FindByDateAndStatus returned error: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}
	if appts[0].Services[0].Name != "Gel Polish" {
		t.Fatalf("services not unmarshalled, got %+v", appts[0].Services)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresQueryFailureIsStoreUnavailable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WillReturnError(errors.New("connection refused"))

	_, err = repo.FindByDateAndStatus(context.Background(), "2024-01-01", StatusConfirmed)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestPostgresUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	mock.ExpectExec("UPDATE appointments").
		WithArgs(pgxmock.AnyArg(), StatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), uuid.New(), StatusCancelled)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
