package doctor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/careboard/careboard/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if strings.TrimSpace(d.FullName) == "" {
		return apperr.Validation("full_name is required")
	}
	if strings.TrimSpace(d.Specialization) == "" {
		return apperr.Validation("specialization is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		return apperr.Validation("email is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return apperr.Validation("phone is required")
	}
	if strings.TrimSpace(d.Qualification) == "" {
		return apperr.Validation("qualification is required")
	}
	if d.ExperienceYears < 0 {
		return apperr.Validation("experience_years must be non-negative")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, opts, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Doctor, error) {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) == "" {
		return nil, apperr.Validation("full_name cannot be empty")
	}
	if p.Specialization != nil && strings.TrimSpace(*p.Specialization) == "" {
		return nil, apperr.Validation("specialization cannot be empty")
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return nil, apperr.Validation("email cannot be empty")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		return nil, apperr.Validation("phone cannot be empty")
	}
	if p.Qualification != nil && strings.TrimSpace(*p.Qualification) == "" {
		return nil, apperr.Validation("qualification cannot be empty")
	}
	if p.ExperienceYears != nil && *p.ExperienceYears < 0 {
		return nil, apperr.Validation("experience_years must be non-negative")
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
