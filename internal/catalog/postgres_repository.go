package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type db interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository reads the service catalog from the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("catalog: db required")
	}
	return &PostgresRepository{db: db}
}

// ListCategories returns active categories in display order.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), display_order, is_active, created_at
		FROM service_categories
		WHERE is_active
		ORDER BY display_order`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w: %w", ErrStoreUnavailable, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate categories: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

// GetCategoryDetail returns a category with its active services and add-ons.
func (r *PostgresRepository) GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error) {
	var detail CategoryDetail
	c := &detail.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(description, ''), display_order, is_active, created_at
		FROM service_categories
		WHERE slug = $1 AND is_active`, slug).
		Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("catalog: select category: %w: %w", ErrStoreUnavailable, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, COALESCE(subtitle, ''), price_cents, display_order, is_active
		FROM services
		WHERE category_id = $1 AND is_active
		ORDER BY display_order`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Subtitle, &s.PriceCents, &s.DisplayOrder, &s.IsActive); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w: %w", ErrStoreUnavailable, err)
		}
		detail.Services = append(detail.Services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate services: %w: %w", ErrStoreUnavailable, err)
	}

	addonRows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, price_cents, display_order, is_active
		FROM service_addons
		WHERE category_id = $1 AND is_active
		ORDER BY display_order`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list addons: %w: %w", ErrStoreUnavailable, err)
	}
	defer addonRows.Close()
	for addonRows.Next() {
		var a Addon
		if err := addonRows.Scan(&a.ID, &a.CategoryID, &a.Name, &a.PriceCents, &a.DisplayOrder, &a.IsActive); err != nil {
			return nil, fmt.Errorf("catalog: scan addon: %w: %w", ErrStoreUnavailable, err)
		}
		detail.Addons = append(detail.Addons, a)
	}
	if err := addonRows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate addons: %w: %w", ErrStoreUnavailable, err)
	}

	return &detail, nil
}
