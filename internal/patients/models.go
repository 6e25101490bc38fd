package patients

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the minimal read model the scheduler needs. Registration and
// clinical records live in the patient service; this table is a local
// projection kept for triage attributes and display names.
type Patient struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MRN           string    `gorm:"uniqueIndex;not null" json:"mrn"` // medical record number
	FirstName     string    `gorm:"not null" json:"first_name"`
	LastName      string    `gorm:"not null" json:"last_name"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	Phone         string    `json:"phone"`
	IsPregnant    bool      `gorm:"default:false" json:"is_pregnant"`
	HasDisability bool      `gorm:"default:false" json:"has_disability"`
	IsVIP         bool      `gorm:"default:false" json:"is_vip"`
	IsStaffFamily bool      `gorm:"default:false" json:"is_staff_family"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// FullName joins first and last name for operator-facing views.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// AgeYears computes the patient's age at the given instant. Returns 0 when
// the date of birth is unknown.
func (p *Patient) AgeYears(at time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	years := at.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
