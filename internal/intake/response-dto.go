package intake

import "carequeue/internal/queue"

// Line outcome statuses for the billing batch.
const (
	OutcomeQueued  = "QUEUED"
	OutcomeSkipped = "SKIPPED"
	OutcomeFailed  = "FAILED"
)

// LineOutcome is the per-service-line result of a billing intake batch. A
// failed line never aborts its siblings.
type LineOutcome struct {
	ServiceName string               `json:"service_name"`
	StationKind string               `json:"station_kind"`
	Outcome     string               `json:"outcome"`
	Reason      string               `json:"reason,omitempty"`
	Entry       *queue.EntryResponse `json:"entry,omitempty"`
}

// BillingIntakeResponse summarizes the batch.
type BillingIntakeResponse struct {
	InvoiceRef string        `json:"invoice_ref"`
	Queued     int           `json:"queued"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Outcomes   []LineOutcome `json:"outcomes"`
}
