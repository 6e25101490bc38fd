package queue

import "sort"

// The ordering law. Applied everywhere the waiting set is read: emergencies
// first, then priority rank ascending, then join time ascending. Ties within
// the same bucket stay FIFO.
func entryBefore(a, b *QueueEntry) bool {
	if a.IsEmergency != b.IsEmergency {
		return a.IsEmergency
	}
	if a.PriorityRank != b.PriorityRank {
		return a.PriorityRank < b.PriorityRank
	}
	return a.JoinedAt.Before(b.JoinedAt)
}

// SortEntries orders entries in place under the ordering law. The sort is
// stable so equal-keyed entries keep their relative order.
func SortEntries(entries []QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryBefore(&entries[i], &entries[j])
	})
}

// AssignPositions sorts the active set and rewrites positions sequentially
// from 1. Returns the entries whose position actually changed, so callers
// persist only the delta. Idempotent: a second run with no intervening
// mutation changes nothing.
func AssignPositions(entries []QueueEntry) []QueueEntry {
	SortEntries(entries)

	var changed []QueueEntry
	for i := range entries {
		want := i + 1
		if entries[i].Position != want {
			entries[i].Position = want
			changed = append(changed, entries[i])
		}
	}
	return changed
}

// ComputeInsertPosition returns the 1-based slot a new entry with the given
// emergency flag and priority rank would take among the current active set.
// The new entry joins last, so every existing entry in its own bucket pushes
// it back too.
func ComputeInsertPosition(active []QueueEntry, isEmergency bool, priorityRank int) int {
	position := 1
	for i := range active {
		e := &active[i]
		if e.IsEmergency != isEmergency {
			if e.IsEmergency {
				position++
			}
			continue
		}
		if e.PriorityRank <= priorityRank {
			position++
		}
	}
	return position
}

// NextToCall returns the first WAITING entry under the ordering law, or nil
// when nobody is waiting. Derived from the source keys, never from the
// cached position field.
func NextToCall(entries []QueueEntry) *QueueEntry {
	var next *QueueEntry
	for i := range entries {
		if entries[i].Status != StatusWaiting {
			continue
		}
		if next == nil || entryBefore(&entries[i], next) {
			next = &entries[i]
		}
	}
	return next
}
