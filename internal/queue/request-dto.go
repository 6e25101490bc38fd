package queue

// AddEntryRequest queues a patient at a station.
type AddEntryRequest struct {
	PatientID   string  `json:"patient_id" binding:"required,uuid"`
	StationID   string  `json:"station_id" binding:"required,uuid"`
	OrderRef    *string `json:"order_ref"`
	IsEmergency bool    `json:"is_emergency"`
	Urgency     string  `json:"urgency" binding:"omitempty,oneof=STAT URGENT"`
	Notes       string  `json:"notes" binding:"omitempty,max=500"`
}

// TransferRequest moves an entry to another station.
type TransferRequest struct {
	TargetStationID string `json:"target_station_id" binding:"required,uuid"`
	Reason          string `json:"reason" binding:"required,min=3,max=240"`
}

// CancelRequest removes an entry from the queue.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=240"`
}

// ChangePriorityRequest re-buckets a waiting entry.
type ChangePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
	Reason   string `json:"reason" binding:"required,min=3,max=240"`
}

// HoldRequest puts an entry on administrative hold.
type HoldRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=240"`
}
