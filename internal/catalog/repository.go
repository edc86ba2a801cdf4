package catalog

import (
	"context"
	"sort"
	"sync"
)

// Repository defines read access to the service catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error)
}

// InMemoryRepository serves a fixed catalog from memory, used in tests and
// local development.
type InMemoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*CategoryDetail
}

// NewInMemoryRepository creates an empty in-memory catalog.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{categories: make(map[string]*CategoryDetail)}
}

// Put registers a category with its services and add-ons.
func (r *InMemoryRepository) Put(detail CategoryDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[detail.Category.Slug] = &detail
}

// ListCategories returns active categories in display order.
func (r *InMemoryRepository) ListCategories(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Category
	for _, d := range r.categories {
		if d.Category.IsActive {
			out = append(out, d.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

// GetCategoryDetail returns a category with its price list.
func (r *InMemoryRepository) GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.categories[slug]
	if !ok || !d.Category.IsActive {
		return nil, ErrCategoryNotFound
	}
	out := *d
	return &out, nil
}
