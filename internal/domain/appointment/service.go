package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careboard/careboard/pkg/apperr"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return apperr.Validation("doctor_id is required")
	}
	if err := validDate(a.AppointmentDate); err != nil {
		return err
	}
	if err := validTime(a.AppointmentTime); err != nil {
		return err
	}
	if strings.TrimSpace(a.Reason) == "" {
		return apperr.Validation("reason is required")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !a.Status.Valid() {
		return apperr.Validationf("invalid appointment status: %s", a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns appointments with embedded patient and doctor snapshots in a
// single round trip.
func (s *Service) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Appointment, int, error) {
	opts.Embed = true
	return s.repo.List(ctx, opts, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error) {
	if p.PatientID != nil && *p.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id cannot be empty")
	}
	if p.DoctorID != nil && *p.DoctorID == uuid.Nil {
		return nil, apperr.Validation("doctor_id cannot be empty")
	}
	if p.AppointmentDate != nil {
		if err := validDate(*p.AppointmentDate); err != nil {
			return nil, err
		}
	}
	if p.AppointmentTime != nil {
		if err := validTime(*p.AppointmentTime); err != nil {
			return nil, err
		}
	}
	if p.Reason != nil && strings.TrimSpace(*p.Reason) == "" {
		return nil, apperr.Validation("reason cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, apperr.Validationf("invalid appointment status: %s", *p.Status)
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validDate(v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.Validation("appointment_date is required")
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return apperr.Validationf("appointment_date must be YYYY-MM-DD, got %q", v)
	}
	return nil
}

func validTime(v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.Validation("appointment_time is required")
	}
	if _, err := time.Parse(timeLayout, v); err != nil {
		return apperr.Validationf("appointment_time must be HH:MM, got %q", v)
	}
	return nil
}
