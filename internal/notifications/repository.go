package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for notification storage
type Repository interface {
	Insert(ctx context.Context, n *Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	ListAnnouncements(ctx context.Context) ([]Announcement, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local
// development.
type InMemoryRepository struct {
	mu            sync.RWMutex
	notifs        map[uuid.UUID]*Notification
	announcements []Announcement
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		notifs: make(map[uuid.UUID]*Notification),
	}
}

// Insert stores a new notification in memory
func (r *InMemoryRepository) Insert(ctx context.Context, n *Notification) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *n
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = time.Now().UTC()
	r.notifs[stored.ID] = &stored

	out := stored
	return &out, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Notification
	for _, n := range r.notifs {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MarkRead marks a notification as read. Scoped to the owning user so one
// user cannot touch another's notifications.
func (r *InMemoryRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifs[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

// ListAnnouncements returns salon-wide announcements, highest priority first.
func (r *InMemoryRepository) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]Announcement(nil), r.announcements...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// PutAnnouncement seeds an announcement. Test helper.
func (r *InMemoryRepository) PutAnnouncement(a Announcement) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.announcements = append(r.announcements, a)
}
