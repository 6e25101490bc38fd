package triage

// Context carries the patient and visit attributes the classifier looks at.
// It is assembled by the intake layer from the patient record and the
// check-in request.
type Context struct {
	IsEmergency   bool
	Urgency       string // STAT, URGENT or empty
	AgeYears      int
	AgeKnown      bool // false when the patient record carries no date of birth
	IsPregnant    bool
	HasDisability bool
	IsVIP         bool
	IsStaffFamily bool
}

// Urgency levels carried on diagnostic orders.
const (
	UrgencyStat   = "STAT"
	UrgencyUrgent = "URGENT"
)

const (
	seniorAgeYears = 60
	childAgeYears  = 5
)

// Classify maps a triage context to a priority bucket and a human-readable
// reason. Rules are checked in a fixed order and the first match wins; they
// are never combined. A NORMAL result carries no reason.
func Classify(ctx Context) (Priority, string) {
	switch {
	case ctx.IsEmergency:
		return PriorityEmergency, "Emergency case"
	case ctx.Urgency == UrgencyStat || ctx.Urgency == UrgencyUrgent:
		return PriorityUrgent, "Urgent test order"
	case ctx.AgeYears >= seniorAgeYears:
		return PriorityPriority, "Senior citizen"
	case ctx.IsPregnant:
		return PriorityPriority, "Pregnant patient"
	case ctx.HasDisability:
		return PriorityPriority, "Patient with disability"
	// AgeYears is 0 both for infants under a year and for records with no
	// date of birth; AgeKnown tells them apart.
	case ctx.AgeKnown && ctx.AgeYears <= childAgeYears:
		return PriorityPriority, "Young child"
	case ctx.IsVIP:
		return PriorityPriority, "VIP patient"
	case ctx.IsStaffFamily:
		return PriorityPriority, "Staff or staff family"
	default:
		return PriorityNormal, ""
	}
}
