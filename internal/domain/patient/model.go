package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a patient record. Gender is free text; the UI suggests values
// but no closed set is enforced. BloodGroup, Address, and EmergencyContact
// are optional.
type Patient struct {
	ID               uuid.UUID `db:"id" json:"id"`
	FullName         string    `db:"full_name" json:"full_name"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	DateOfBirth      string    `db:"date_of_birth" json:"date_of_birth"`
	Gender           string    `db:"gender" json:"gender"`
	BloodGroup       *string   `db:"blood_group" json:"blood_group,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	EmergencyContact *string   `db:"emergency_contact" json:"emergency_contact,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Patch is a partial update. Nil fields are left untouched; optional fields
// set to an empty string are stored as empty, not cleared to NULL.
type Patch struct {
	FullName         *string `json:"full_name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	DateOfBirth      *string `json:"date_of_birth"`
	Gender           *string `json:"gender"`
	BloodGroup       *string `json:"blood_group"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact"`
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil &&
		p.DateOfBirth == nil && p.Gender == nil && p.BloodGroup == nil &&
		p.Address == nil && p.EmergencyContact == nil
}
