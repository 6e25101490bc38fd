package intake

// ServiceLine is one paid line item on an invoice.
type ServiceLine struct {
	ServiceName string `json:"service_name" validate:"required,min=2,max=200"`
	Department  string `json:"department" validate:"omitempty,max=100"`
}

// BillingIntakeRequest queues a patient for every service line on a paid
// invoice.
type BillingIntakeRequest struct {
	PatientID   string        `json:"patient_id" binding:"required,uuid"`
	InvoiceRef  string        `json:"invoice_ref" binding:"required,min=3,max=100"`
	Department  string        `json:"department" binding:"omitempty,max=100"`
	IsEmergency bool          `json:"is_emergency"`
	Lines       []ServiceLine `json:"lines" binding:"required,min=1,dive"`
}

// CheckInRequest is a manual front-desk check-in. The patient may be
// identified by id or by MRN.
type CheckInRequest struct {
	PatientID   string `json:"patient_id" binding:"omitempty,uuid"`
	PatientMRN  string `json:"patient_mrn" binding:"omitempty,min=3,max=50"`
	StationID   string `json:"station_id" binding:"required,uuid"`
	IsEmergency bool   `json:"is_emergency"`
	Notes       string `json:"notes" binding:"omitempty,max=500"`
}

// DiagnosticOrderRequest queues a patient for an ordered test.
type DiagnosticOrderRequest struct {
	PatientID  string `json:"patient_id" binding:"required,uuid"`
	OrderRef   string `json:"order_ref" binding:"required,min=3,max=100"`
	TestName   string `json:"test_name" binding:"required,min=2,max=200"`
	Urgency    string `json:"urgency" binding:"omitempty,oneof=STAT URGENT ROUTINE"`
	Department string `json:"department" binding:"omitempty,max=100"`
}
