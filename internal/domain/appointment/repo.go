package appointment

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions controls ordering and snapshot embedding. Zero value means
// appointment_date descending with created_at descending as tie-break, no
// snapshots.
type ListOptions struct {
	OrderBy   string
	Ascending bool
	// Embed attaches patient and doctor snapshots in the same round trip.
	Embed bool
}

type Repository interface {
	List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Appointment, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
