package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/careboard/careboard/internal/domain/doctor"
	"github.com/careboard/careboard/internal/domain/patient"
)

// Appointment links a patient to a doctor at a date and time. The Patient
// and Doctor snapshots are attached only on fetch, are independently nil
// when the referenced record no longer exists, and are never written back.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDate string    `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Status          Status    `db:"status" json:"status"`
	Reason          string    `db:"reason" json:"reason"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	Patient *patient.Patient `db:"-" json:"patients,omitempty"`
	Doctor  *doctor.Doctor   `db:"-" json:"doctors,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched. Snapshots are
// read-time only and have no patch counterpart.
type Patch struct {
	PatientID       *uuid.UUID `json:"patient_id"`
	DoctorID        *uuid.UUID `json:"doctor_id"`
	AppointmentDate *string    `json:"appointment_date"`
	AppointmentTime *string    `json:"appointment_time"`
	Status          *Status    `json:"status"`
	Reason          *string    `json:"reason"`
	Notes           *string    `json:"notes"`
}

func (p Patch) IsEmpty() bool {
	return p.PatientID == nil && p.DoctorID == nil && p.AppointmentDate == nil &&
		p.AppointmentTime == nil && p.Status == nil && p.Reason == nil && p.Notes == nil
}
