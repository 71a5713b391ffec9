package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a practitioner record. All fields are required; the store
// assigns id and timestamps.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	Qualification   string    `db:"qualification" json:"qualification"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	FullName        *string `json:"full_name"`
	Specialization  *string `json:"specialization"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	ExperienceYears *int    `json:"experience_years"`
	Qualification   *string `json:"qualification"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Specialization == nil && p.Email == nil &&
		p.Phone == nil && p.ExperienceYears == nil && p.Qualification == nil
}
