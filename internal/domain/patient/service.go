package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careboard/careboard/pkg/apperr"
)

// dateLayout is the wire format for date_of_birth.
const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FullName) == "" {
		return apperr.Validation("full_name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return apperr.Validation("email is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return apperr.Validation("phone is required")
	}
	if strings.TrimSpace(p.Gender) == "" {
		return apperr.Validation("gender is required")
	}
	if err := validDate(p.DateOfBirth); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, opts, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	if patch.FullName != nil && strings.TrimSpace(*patch.FullName) == "" {
		return nil, apperr.Validation("full_name cannot be empty")
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return nil, apperr.Validation("email cannot be empty")
	}
	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) == "" {
		return nil, apperr.Validation("phone cannot be empty")
	}
	if patch.Gender != nil && strings.TrimSpace(*patch.Gender) == "" {
		return nil, apperr.Validation("gender cannot be empty")
	}
	if patch.DateOfBirth != nil {
		if err := validDate(*patch.DateOfBirth); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validDate(v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.Validation("date_of_birth is required")
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return apperr.Validationf("date_of_birth must be YYYY-MM-DD, got %q", v)
	}
	return nil
}
