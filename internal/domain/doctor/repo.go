package doctor

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions controls result ordering. Zero value means the repository
// default of created_at descending.
type ListOptions struct {
	OrderBy   string
	Ascending bool
}

type Repository interface {
	List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Doctor, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Create(ctx context.Context, d *Doctor) error
	Update(ctx context.Context, id uuid.UUID, p Patch) (*Doctor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
