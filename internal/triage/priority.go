package triage

import "fmt"

// Priority is the queue priority bucket assigned at intake. Lower rank is
// served first.
type Priority string

const (
	PriorityEmergency Priority = "EMERGENCY"
	PriorityUrgent    Priority = "URGENT"
	PriorityPriority  Priority = "PRIORITY"
	PriorityNormal    Priority = "NORMAL"
)

// priorityRanks is the total ordering table. Ordering decisions always go
// through Rank, never through string comparison.
var priorityRanks = map[Priority]int{
	PriorityEmergency: 1,
	PriorityUrgent:    2,
	PriorityPriority:  3,
	PriorityNormal:    4,
}

// Rank returns the sort rank of the priority. Unknown values rank after
// every known bucket.
func (p Priority) Rank() int {
	if r, ok := priorityRanks[p]; ok {
		return r
	}
	return len(priorityRanks) + 1
}

// IsValid reports whether p is one of the known buckets.
func (p Priority) IsValid() bool {
	_, ok := priorityRanks[p]
	return ok
}

// ParsePriority validates a raw priority string from a request.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}
