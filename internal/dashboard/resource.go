package dashboard

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/careboard/careboard/internal/domain/appointment"
	"github.com/careboard/careboard/internal/domain/doctor"
	"github.com/careboard/careboard/internal/domain/patient"
	"github.com/careboard/careboard/pkg/apperr"
)

// Resource adapts one entity kind to the form machinery: a default table
// for new drafts, an entity-to-draft projection for edits, and the
// repository mutations keyed by string form fields.
type Resource interface {
	Kind() string
	Defaults() map[string]string
	// DraftFor loads the entity and projects it to form fields, excluding
	// id, timestamps, and join snapshots. Missing optionals become "".
	DraftFor(ctx context.Context, id uuid.UUID) (map[string]string, error)
	Create(ctx context.Context, fields map[string]string) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) (interface{}, int, error)
}

// Option is one entry in a referent pick list, shown when a form field
// points at another entity.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// OptionLister is implemented by resources whose entities can be picked
// from another kind's form.
type OptionLister interface {
	Options(ctx context.Context) ([]Option, error)
}

// listLimit bounds dashboard list fetches.
const listLimit = 200

// optional maps "" to an absent value so blank form fields stay NULL in
// the store.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// --- doctors ---

type doctorResource struct {
	svc *doctor.Service
}

func NewDoctorResource(svc *doctor.Service) Resource {
	return &doctorResource{svc: svc}
}

func (r *doctorResource) Kind() string { return "doctors" }

func (r *doctorResource) Defaults() map[string]string {
	return map[string]string{
		"full_name":        "",
		"specialization":   "",
		"email":            "",
		"phone":            "",
		"experience_years": "0",
		"qualification":    "",
	}
}

func (r *doctorResource) DraftFor(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	d, err := r.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"full_name":        d.FullName,
		"specialization":   d.Specialization,
		"email":            d.Email,
		"phone":            d.Phone,
		"experience_years": strconv.Itoa(d.ExperienceYears),
		"qualification":    d.Qualification,
	}, nil
}

func (r *doctorResource) parse(fields map[string]string) (*doctor.Doctor, error) {
	years, err := strconv.Atoi(fields["experience_years"])
	if err != nil {
		return nil, apperr.Validationf("experience_years must be an integer, got %q", fields["experience_years"])
	}
	return &doctor.Doctor{
		FullName:        fields["full_name"],
		Specialization:  fields["specialization"],
		Email:           fields["email"],
		Phone:           fields["phone"],
		ExperienceYears: years,
		Qualification:   fields["qualification"],
	}, nil
}

func (r *doctorResource) Create(ctx context.Context, fields map[string]string) error {
	d, err := r.parse(fields)
	if err != nil {
		return err
	}
	return r.svc.Create(ctx, d)
}

func (r *doctorResource) Update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	d, err := r.parse(fields)
	if err != nil {
		return err
	}
	_, err = r.svc.Update(ctx, id, doctor.Patch{
		FullName:        &d.FullName,
		Specialization:  &d.Specialization,
		Email:           &d.Email,
		Phone:           &d.Phone,
		ExperienceYears: &d.ExperienceYears,
		Qualification:   &d.Qualification,
	})
	return err
}

func (r *doctorResource) Delete(ctx context.Context, id uuid.UUID) error {
	return r.svc.Delete(ctx, id)
}

func (r *doctorResource) List(ctx context.Context) (interface{}, int, error) {
	items, total, err := r.svc.List(ctx, doctor.ListOptions{}, listLimit, 0)
	return items, total, err
}

func (r *doctorResource) Options(ctx context.Context) ([]Option, error) {
	docs, _, err := r.svc.List(ctx, doctor.ListOptions{OrderBy: "full_name", Ascending: true}, listLimit, 0)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(docs))
	for _, d := range docs {
		opts = append(opts, Option{ID: d.ID, Label: d.FullName + " (" + d.Specialization + ")"})
	}
	return opts, nil
}

// --- patients ---

type patientResource struct {
	svc *patient.Service
}

func NewPatientResource(svc *patient.Service) Resource {
	return &patientResource{svc: svc}
}

func (r *patientResource) Kind() string { return "patients" }

func (r *patientResource) Defaults() map[string]string {
	return map[string]string{
		"full_name":         "",
		"email":             "",
		"phone":             "",
		"date_of_birth":     "",
		"gender":            "",
		"blood_group":       "",
		"address":           "",
		"emergency_contact": "",
	}
}

func (r *patientResource) DraftFor(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	p, err := r.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	deref := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	return map[string]string{
		"full_name":         p.FullName,
		"email":             p.Email,
		"phone":             p.Phone,
		"date_of_birth":     p.DateOfBirth,
		"gender":            p.Gender,
		"blood_group":       deref(p.BloodGroup),
		"address":           deref(p.Address),
		"emergency_contact": deref(p.EmergencyContact),
	}, nil
}

func (r *patientResource) Create(ctx context.Context, fields map[string]string) error {
	return r.svc.Create(ctx, &patient.Patient{
		FullName:         fields["full_name"],
		Email:            fields["email"],
		Phone:            fields["phone"],
		DateOfBirth:      fields["date_of_birth"],
		Gender:           fields["gender"],
		BloodGroup:       optional(fields["blood_group"]),
		Address:          optional(fields["address"]),
		EmergencyContact: optional(fields["emergency_contact"]),
	})
}

func (r *patientResource) Update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	fullName := fields["full_name"]
	email := fields["email"]
	phone := fields["phone"]
	dob := fields["date_of_birth"]
	gender := fields["gender"]
	blood := fields["blood_group"]
	addr := fields["address"]
	emergency := fields["emergency_contact"]
	_, err := r.svc.Update(ctx, id, patient.Patch{
		FullName:         &fullName,
		Email:            &email,
		Phone:            &phone,
		DateOfBirth:      &dob,
		Gender:           &gender,
		BloodGroup:       &blood,
		Address:          &addr,
		EmergencyContact: &emergency,
	})
	return err
}

func (r *patientResource) Delete(ctx context.Context, id uuid.UUID) error {
	return r.svc.Delete(ctx, id)
}

func (r *patientResource) List(ctx context.Context) (interface{}, int, error) {
	items, total, err := r.svc.List(ctx, patient.ListOptions{}, listLimit, 0)
	return items, total, err
}

func (r *patientResource) Options(ctx context.Context) ([]Option, error) {
	pats, _, err := r.svc.List(ctx, patient.ListOptions{OrderBy: "full_name", Ascending: true}, listLimit, 0)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(pats))
	for _, p := range pats {
		opts = append(opts, Option{ID: p.ID, Label: p.FullName})
	}
	return opts, nil
}

// --- appointments ---

type appointmentResource struct {
	svc *appointment.Service
}

func NewAppointmentResource(svc *appointment.Service) Resource {
	return &appointmentResource{svc: svc}
}

func (r *appointmentResource) Kind() string { return "appointments" }

func (r *appointmentResource) Defaults() map[string]string {
	return map[string]string{
		"patient_id":       "",
		"doctor_id":        "",
		"appointment_date": "",
		"appointment_time": "",
		"status":           string(appointment.StatusScheduled),
		"reason":           "",
		"notes":            "",
	}
}

func (r *appointmentResource) DraftFor(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	a, err := r.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notes := ""
	if a.Notes != nil {
		notes = *a.Notes
	}
	return map[string]string{
		"patient_id":       a.PatientID.String(),
		"doctor_id":        a.DoctorID.String(),
		"appointment_date": a.AppointmentDate,
		"appointment_time": a.AppointmentTime,
		"status":           string(a.Status),
		"reason":           a.Reason,
		"notes":            notes,
	}, nil
}

func (r *appointmentResource) parseRefs(fields map[string]string) (uuid.UUID, uuid.UUID, error) {
	pid, err := uuid.Parse(fields["patient_id"])
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validationf("patient_id must be a uuid, got %q", fields["patient_id"])
	}
	did, err := uuid.Parse(fields["doctor_id"])
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validationf("doctor_id must be a uuid, got %q", fields["doctor_id"])
	}
	return pid, did, nil
}

func (r *appointmentResource) Create(ctx context.Context, fields map[string]string) error {
	pid, did, err := r.parseRefs(fields)
	if err != nil {
		return err
	}
	return r.svc.Create(ctx, &appointment.Appointment{
		PatientID:       pid,
		DoctorID:        did,
		AppointmentDate: fields["appointment_date"],
		AppointmentTime: fields["appointment_time"],
		Status:          appointment.Status(fields["status"]),
		Reason:          fields["reason"],
		Notes:           optional(fields["notes"]),
	})
}

func (r *appointmentResource) Update(ctx context.Context, id uuid.UUID, fields map[string]string) error {
	pid, did, err := r.parseRefs(fields)
	if err != nil {
		return err
	}
	date := fields["appointment_date"]
	tm := fields["appointment_time"]
	status := appointment.Status(fields["status"])
	reason := fields["reason"]
	notes := fields["notes"]
	_, err = r.svc.Update(ctx, id, appointment.Patch{
		PatientID:       &pid,
		DoctorID:        &did,
		AppointmentDate: &date,
		AppointmentTime: &tm,
		Status:          &status,
		Reason:          &reason,
		Notes:           &notes,
	})
	return err
}

func (r *appointmentResource) Delete(ctx context.Context, id uuid.UUID) error {
	return r.svc.Delete(ctx, id)
}

func (r *appointmentResource) List(ctx context.Context) (interface{}, int, error) {
	items, total, err := r.svc.List(ctx, appointment.ListOptions{}, listLimit, 0)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
