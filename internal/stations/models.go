package stations

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies what kind of service a station provides. Intake uses it to
// route service lines to the right queue.
type Kind string

const (
	KindConsultation     Kind = "CONSULTATION"
	KindDiagnostic       Kind = "DIAGNOSTIC"
	KindBilling          Kind = "BILLING"
	KindPharmacy         Kind = "PHARMACY"
	KindProcedure        Kind = "PROCEDURE"
	KindSampleCollection Kind = "SAMPLE_COLLECTION"
	KindReportPickup     Kind = "REPORT_PICKUP"
)

var validKinds = map[Kind]bool{
	KindConsultation:     true,
	KindDiagnostic:       true,
	KindBilling:          true,
	KindPharmacy:         true,
	KindProcedure:        true,
	KindSampleCollection: true,
	KindReportPickup:     true,
}

// IsValid reports whether k is a known station kind.
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Station is one independent service queue: a consultation room, a lab
// counter, a billing window. Each station orders its own waiting list.
type Station struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Code            string     `gorm:"uniqueIndex;not null" json:"code"` // short display prefix, e.g. CON
	Kind            Kind       `gorm:"not null;index" json:"kind"`
	Department      string     `gorm:"index" json:"department"`
	AssignedStaffID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_staff_id,omitempty"`

	MaxCapacity       int `gorm:"default:50" json:"max_capacity"`
	AvgServiceMinutes int `gorm:"default:10" json:"avg_service_minutes"`

	IsActive     bool   `gorm:"default:true;index" json:"is_active"`
	AcceptingNew bool   `gorm:"default:true" json:"accepting_new"`
	IsPaused     bool   `gorm:"default:false" json:"is_paused"`
	PauseReason  string `json:"pause_reason,omitempty"`

	// Daily counters. LastToken mirrors the Redis sequence for display and
	// survives a Redis flush; the allocator remains the allocation authority.
	LastToken        int       `gorm:"default:0" json:"last_token"`
	ServedToday      int       `gorm:"default:0" json:"served_today"`
	CurrentOccupancy int       `gorm:"default:0" json:"current_occupancy"`
	TokensResetAt    time.Time `json:"tokens_reset_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Station) TableName() string {
	return "stations"
}

// CanAccept reports whether the station takes new entries right now, with a
// reason usable in an error message when it cannot.
func (s *Station) CanAccept() (bool, string) {
	switch {
	case !s.IsActive:
		return false, "station is inactive"
	case s.IsPaused:
		reason := "station is paused"
		if s.PauseReason != "" {
			reason += ": " + s.PauseReason
		}
		return false, reason
	case !s.AcceptingNew:
		return false, "station is not accepting new patients"
	default:
		return true, ""
	}
}
