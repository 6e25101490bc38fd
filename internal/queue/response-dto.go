package queue

import (
	"time"

	"carequeue/internal/triage"

	"github.com/google/uuid"
)

// EntryResponse is the standard view of a queue entry returned by every
// mutating operation: current status, position and a human wait estimate.
type EntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	QueueNumber    string          `json:"queue_number"`
	Token          string          `json:"token"`
	PatientID      uuid.UUID       `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	StationID      uuid.UUID       `json:"station_id"`
	Priority       triage.Priority `json:"priority"`
	PriorityReason string          `json:"priority_reason,omitempty"`
	IsEmergency    bool            `json:"is_emergency"`
	Status         Status          `json:"status"`
	Position       int             `json:"position"`
	WaitEstimate   string          `json:"wait_estimate"`
	SkipCount      int             `json:"skip_count"`
	JoinedAt       time.Time       `json:"joined_at"`
	CalledAt       *time.Time      `json:"called_at,omitempty"`
	ServedAt       *time.Time      `json:"served_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// SkipResponse distinguishes a normal skip from the auto-cancel that fires
// when the skip limit is reached.
type SkipResponse struct {
	Entry         EntryResponse `json:"entry"`
	AutoCancelled bool          `json:"auto_cancelled"`
}

// TransferResponse returns both sides of a transfer.
type TransferResponse struct {
	Source      EntryResponse `json:"source"`
	Destination EntryResponse `json:"destination"`
}

// CompleteResponse includes the durations recorded on the history snapshot.
type CompleteResponse struct {
	Entry          EntryResponse `json:"entry"`
	WaitMinutes    int           `json:"wait_minutes"`
	ServiceMinutes int           `json:"service_minutes"`
}

// BoardSlot is one privacy-trimmed line on the public display board.
type BoardSlot struct {
	Token       string `json:"token"`
	QueueNumber string `json:"queue_number"`
	FirstName   string `json:"first_name"`
	Status      Status `json:"status"`
	Position    int    `json:"position,omitempty"`
}

// BoardResponse is the kiosk payload: who is being served plus the next few
// waiting tokens.
type BoardResponse struct {
	StationID    uuid.UUID   `json:"station_id"`
	StationName  string      `json:"station_name"`
	StationCode  string      `json:"station_code"`
	NowServing   []BoardSlot `json:"now_serving"`
	UpNext       []BoardSlot `json:"up_next"`
	WaitingCount int         `json:"waiting_count"`
	GeneratedAt  time.Time   `json:"generated_at"`
}
