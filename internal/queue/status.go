package queue

// Status is the lifecycle state of a queue entry.
type Status string

const (
	StatusWaiting     Status = "WAITING"
	StatusCalled      Status = "CALLED"
	StatusServing     Status = "SERVING"
	StatusCompleted   Status = "COMPLETED"
	StatusSkipped     Status = "SKIPPED"
	StatusRecalled    Status = "RECALLED"
	StatusTransferred Status = "TRANSFERRED"
	StatusCancelled   Status = "CANCELLED"
	StatusOnHold      Status = "ON_HOLD"
)

// validTransitions is the lifecycle table. Every mutation validates against
// it before touching the record; an attempt outside the table is a state
// conflict and leaves the entry untouched.
var validTransitions = map[Status]map[Status]bool{
	StatusWaiting: {
		StatusCalled:      true,
		StatusCancelled:   true,
		StatusTransferred: true,
		StatusOnHold:      true,
	},
	StatusCalled: {
		StatusServing:     true,
		StatusSkipped:     true,
		StatusCancelled:   true,
		StatusTransferred: true,
		StatusOnHold:      true,
	},
	StatusServing: {
		StatusCompleted:   true,
		StatusCancelled:   true,
		StatusTransferred: true,
		StatusOnHold:      true,
	},
	StatusSkipped: {
		StatusRecalled:    true,
		StatusCancelled:   true,
		StatusTransferred: true,
	},
	// A recalled entry behaves like a called one: it can be served or
	// skipped again, which is how the skip counter can reach its maximum.
	StatusRecalled: {
		StatusServing:     true,
		StatusSkipped:     true,
		StatusCancelled:   true,
		StatusTransferred: true,
	},
	StatusOnHold: {
		StatusWaiting:     true,
		StatusCalled:      true,
		StatusServing:     true,
		StatusCancelled:   true,
		StatusTransferred: true,
	},
	// Terminal states allow nothing.
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusTransferred: {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// target.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	return allowed[target]
}

// IsTerminal reports whether s is a final state. Terminal entries are
// retained for audit but never mutated again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusTransferred:
		return true
	default:
		return false
	}
}

// IsActive reports whether s counts against the one-active-entry-per-station
// invariant and the station's capacity.
func (s Status) IsActive() bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusRecalled, StatusOnHold:
		return true
	default:
		return false
	}
}

// OccupiesServiceSlot reports whether s holds the station's single service
// slot. A second call-next while one of these exists is rejected.
func (s Status) OccupiesServiceSlot() bool {
	return s == StatusCalled || s == StatusServing
}

// IsValid reports whether s is a known lifecycle state.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}
