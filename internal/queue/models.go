package queue

import (
	"time"

	"carequeue/internal/patients"
	"carequeue/internal/triage"

	"github.com/google/uuid"
)

// QueueEntry is one patient's place in one station's waiting list, tracked
// through the whole lifecycle. Entries are never deleted; terminal states
// stay behind for audit and analytics.
type QueueEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QueueNumber string    `gorm:"uniqueIndex;not null" json:"queue_number"` // Q-20250114-0042
	TokenNumber int       `gorm:"not null" json:"token_number"`
	Token       string    `gorm:"not null" json:"token"` // display form, e.g. CON-015

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	StationID uuid.UUID `gorm:"type:uuid;not null;index" json:"station_id"`
	OrderRef  *string   `gorm:"index" json:"order_ref,omitempty"` // originating invoice or test order

	Priority       triage.Priority `gorm:"not null" json:"priority"`
	PriorityRank   int             `gorm:"not null" json:"priority_rank"`
	PriorityReason string          `json:"priority_reason,omitempty"`
	IsEmergency    bool            `gorm:"not null;default:false" json:"is_emergency"`

	// Position is a cached projection under the ordering law. Ordering
	// decisions always re-derive from (is_emergency, priority_rank,
	// joined_at); position exists for display.
	Position         int `gorm:"default:0" json:"position"`
	OriginalPosition int `gorm:"default:0" json:"original_position"`

	Status    Status  `gorm:"not null;index" json:"status"`
	HeldFrom  *Status `json:"held_from,omitempty"` // state to restore after an administrative hold
	SkipCount int     `gorm:"default:0" json:"skip_count"`

	JoinedAt      time.Time  `gorm:"not null" json:"joined_at"`
	CalledAt      *time.Time `json:"called_at,omitempty"`
	ServedAt      *time.Time `json:"served_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	LastSkippedAt *time.Time `json:"last_skipped_at,omitempty"`
	RecalledAt    *time.Time `json:"recalled_at,omitempty"`

	TransferredFromID *uuid.UUID `gorm:"type:uuid" json:"transferred_from_id,omitempty"`
	TransferredToID   *uuid.UUID `gorm:"type:uuid" json:"transferred_to_id,omitempty"`

	Notes string `json:"notes,omitempty"` // cancel reason, auto-cancel note, transfer reason

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Patient *patients.Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (QueueEntry) TableName() string {
	return "queue_entries"
}

// QueueHistoryRecord is the immutable completed-case snapshot written exactly
// once when an entry reaches a terminal state. Analytics reads only this
// table so in-flight entries never skew the numbers.
type QueueHistoryRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntryID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"entry_id"`
	StationID   uuid.UUID `gorm:"type:uuid;not null;index" json:"station_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	QueueNumber string    `gorm:"not null" json:"queue_number"`

	Priority    triage.Priority `gorm:"not null" json:"priority"`
	IsEmergency bool            `gorm:"not null" json:"is_emergency"`
	FinalStatus Status          `gorm:"not null;index" json:"final_status"`
	SkipCount   int             `gorm:"default:0" json:"skip_count"`

	OriginalPosition int `gorm:"default:0" json:"original_position"`

	JoinedAt    time.Time  `gorm:"not null" json:"joined_at"`
	CalledAt    *time.Time `json:"called_at,omitempty"`
	ServedAt    *time.Time `json:"served_at,omitempty"`
	CompletedAt time.Time  `gorm:"not null;index" json:"completed_at"`

	WaitMinutes    int `gorm:"default:0" json:"wait_minutes"`
	ServiceMinutes int `gorm:"default:0" json:"service_minutes"`
	TotalMinutes   int `gorm:"default:0" json:"total_minutes"`

	CreatedAt time.Time `json:"created_at"`
}

func (QueueHistoryRecord) TableName() string {
	return "queue_history_records"
}
