package patient

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
	List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Patient, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
