package stations

import (
	"time"

	"github.com/google/uuid"
)

// StationResponse is the catalog view of a station.
type StationResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Code              string     `json:"code"`
	Kind              Kind       `json:"kind"`
	Department        string     `json:"department"`
	AssignedStaffID   *uuid.UUID `json:"assigned_staff_id,omitempty"`
	MaxCapacity       int        `json:"max_capacity"`
	AvgServiceMinutes int        `json:"avg_service_minutes"`
	IsActive          bool       `json:"is_active"`
	AcceptingNew      bool       `json:"accepting_new"`
	IsPaused          bool       `json:"is_paused"`
	PauseReason       string     `json:"pause_reason,omitempty"`
	LastToken         int        `json:"last_token"`
	ServedToday       int        `json:"served_today"`
	CurrentOccupancy  int        `json:"current_occupancy"`
	CreatedAt         time.Time  `json:"created_at"`
}

// WaitingEntrySummary is the per-entry slice of a station's live waiting
// list, provided by the queue engine.
type WaitingEntrySummary struct {
	EntryID     uuid.UUID `json:"entry_id"`
	QueueNumber string    `json:"queue_number"`
	Token       string    `json:"token"`
	PatientName string    `json:"patient_name"`
	Priority    string    `json:"priority"`
	IsEmergency bool      `json:"is_emergency"`
	Status      string    `json:"status"`
	Position    int       `json:"position"`
	JoinedAt    time.Time `json:"joined_at"`
}

// StationDetailsResponse adds live queue state to the catalog view.
type StationDetailsResponse struct {
	StationResponse
	WaitingCount int                   `json:"waiting_count"`
	WaitingList  []WaitingEntrySummary `json:"waiting_list"`
}

// ResetTokensResponse reports the daily token reset outcome.
type ResetTokensResponse struct {
	StationsReset int       `json:"stations_reset"`
	ResetAt       time.Time `json:"reset_at"`
}

func toResponse(s *Station) StationResponse {
	return StationResponse{
		ID:                s.ID,
		Name:              s.Name,
		Code:              s.Code,
		Kind:              s.Kind,
		Department:        s.Department,
		AssignedStaffID:   s.AssignedStaffID,
		MaxCapacity:       s.MaxCapacity,
		AvgServiceMinutes: s.AvgServiceMinutes,
		IsActive:          s.IsActive,
		AcceptingNew:      s.AcceptingNew,
		IsPaused:          s.IsPaused,
		PauseReason:       s.PauseReason,
		LastToken:         s.LastToken,
		ServedToday:       s.ServedToday,
		CurrentOccupancy:  s.CurrentOccupancy,
		CreatedAt:         s.CreatedAt,
	}
}
