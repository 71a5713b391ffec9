package dashboard

import (
	"github.com/google/uuid"

	"github.com/careboard/careboard/internal/domain/appointment"
)

// Fallback display names for appointments whose referent was deleted.
const (
	UnknownPatient = "Unknown Patient"
	UnknownDoctor  = "Unknown Doctor"
)

// AppointmentSummary is the display-ready row for the appointments list.
type AppointmentSummary struct {
	ID          uuid.UUID          `json:"id"`
	PatientName string             `json:"patient_name"`
	DoctorName  string             `json:"doctor_name"`
	When        string             `json:"when"`
	Status      appointment.Status `json:"status"`
	Category    Category           `json:"category"`
}

// SummarizeAppointments derives display rows from fetched appointments.
// Pure function of its input; missing snapshots render the fallback names.
func SummarizeAppointments(items []*appointment.Appointment) []AppointmentSummary {
	out := make([]AppointmentSummary, 0, len(items))
	for _, a := range items {
		s := AppointmentSummary{
			ID:          a.ID,
			PatientName: UnknownPatient,
			DoctorName:  UnknownDoctor,
			When:        a.AppointmentDate + " " + a.AppointmentTime,
			Status:      a.Status,
			Category:    CategoryFor(a.Status),
		}
		if a.Patient != nil {
			s.PatientName = a.Patient.FullName
		}
		if a.Doctor != nil {
			s.DoctorName = a.Doctor.FullName
		}
		out = append(out, s)
	}
	return out
}
