package stations

// CreateStationRequest creates a new station in the catalog.
type CreateStationRequest struct {
	Name              string  `json:"name" binding:"required,min=2,max=120"`
	Code              string  `json:"code" binding:"required,min=2,max=10,uppercase"`
	Kind              string  `json:"kind" binding:"required"`
	Department        string  `json:"department" binding:"required"`
	AssignedStaffID   *string `json:"assigned_staff_id" binding:"omitempty,uuid"`
	MaxCapacity       int     `json:"max_capacity" binding:"omitempty,min=1,max=500"`
	AvgServiceMinutes int     `json:"avg_service_minutes" binding:"omitempty,min=1,max=240"`
}

// UpdateStationRequest mutates catalog configuration. Nil fields are left
// untouched.
type UpdateStationRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=2,max=120"`
	Department        *string `json:"department"`
	AssignedStaffID   *string `json:"assigned_staff_id" binding:"omitempty,uuid"`
	MaxCapacity       *int    `json:"max_capacity" binding:"omitempty,min=1,max=500"`
	AvgServiceMinutes *int    `json:"avg_service_minutes" binding:"omitempty,min=1,max=240"`
	IsActive          *bool   `json:"is_active"`
	AcceptingNew      *bool   `json:"accepting_new"`
}

// PauseStationRequest halts intake at a station.
type PauseStationRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=240"`
}
