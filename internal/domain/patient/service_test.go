package patient

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careboard/careboard/pkg/apperr"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	for _, p := range m.patients {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, len(items), nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = *patch.DateOfBirth
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.BloodGroup != nil {
		p.BloodGroup = patch.BloodGroup
	}
	if patch.Address != nil {
		p.Address = patch.Address
	}
	if patch.EmergencyContact != nil {
		p.EmergencyContact = patch.EmergencyContact
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return apperr.NotFound("patient not found")
	}
	delete(m.patients, id)
	return nil
}

func validPatient() *Patient {
	return &Patient{
		FullName:    "P1",
		Email:       "p1@x.com",
		Phone:       "555-0200",
		DateOfBirth: "1990-01-01",
		Gender:      "Female",
	}
}

func TestCreatePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected store-assigned id")
	}
	if p.BloodGroup != nil {
		t.Error("blood_group should stay unset when omitted")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing full_name", func(p *Patient) { p.FullName = "" }},
		{"missing email", func(p *Patient) { p.Email = "" }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
		{"missing gender", func(p *Patient) { p.Gender = "" }},
		{"missing date_of_birth", func(p *Patient) { p.DateOfBirth = "" }},
		{"malformed date_of_birth", func(p *Patient) { p.DateOfBirth = "01/01/1990" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPatient()
			tt.mutate(p)
			if err := svc.Create(context.Background(), p); !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreatePatient_OptionalFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	bg := "O+"
	p := validPatient()
	p.BloodGroup = &bg
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored := repo.patients[p.ID]
	if stored.BloodGroup == nil || *stored.BloodGroup != "O+" {
		t.Errorf("blood_group = %v, want O+", stored.BloodGroup)
	}
}

func TestUpdatePatient_PartialPatch(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	addr := "12 Main St"
	updated, err := svc.Update(context.Background(), p.ID, Patch{Address: &addr})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Address == nil || *updated.Address != addr {
		t.Errorf("address = %v, want %q", updated.Address, addr)
	}
	if updated.FullName != p.FullName {
		t.Errorf("full_name changed by patch: %q", updated.FullName)
	}
}

func TestUpdatePatient_BadDate(t *testing.T) {
	svc := NewService(newMockRepo())
	bad := "tomorrow"
	if _, err := svc.Update(context.Background(), uuid.New(), Patch{DateOfBirth: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeletePatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Delete(context.Background(), uuid.New()); !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
