package booking

import (
	"context"
	"time"

	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/google/uuid"
)

// RouteDraft is a route being picked on the map before it is confirmed as a booking.
type RouteDraft struct {
	ID        uuid.UUID    `json:"id"`
	Builder   RouteBuilder `json:"route"`
	Tier      *Tier        `json:"tier,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewRouteDraft creates an empty draft.
func NewRouteDraft() *RouteDraft {
	now := time.Now().UTC()
	return &RouteDraft{
		ID:        uuid.New(),
		Builder:   RouteBuilder{Stops: []geo.Coordinate{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a modification.
func (d *RouteDraft) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// DraftRepository stores drafts between map selections.
type DraftRepository interface {
	// Create stores a new draft.
	Create(ctx context.Context, draft *RouteDraft) error

	// Get loads a draft, returning a NotFoundError once it has expired.
	Get(ctx context.Context, id uuid.UUID) (*RouteDraft, error)

	// Update applies fn to the stored draft atomically and refreshes its expiry.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(*RouteDraft) error) (*RouteDraft, error)

	// Delete removes a draft.
	Delete(ctx context.Context, id uuid.UUID) error
}
