package queue

import (
	"testing"
	"time"

	"carequeue/internal/triage"

	"github.com/google/uuid"
)

var testBase = time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

func makeEntry(priority triage.Priority, isEmergency bool, joinedOffset time.Duration, status Status) QueueEntry {
	return QueueEntry{
		ID:           uuid.New(),
		Priority:     priority,
		PriorityRank: priority.Rank(),
		IsEmergency:  isEmergency,
		JoinedAt:     testBase.Add(joinedOffset),
		Status:       status,
	}
}

func TestSortEntriesOrderingLaw(t *testing.T) {
	entries := []QueueEntry{
		makeEntry(triage.PriorityNormal, false, 0, StatusWaiting),
		makeEntry(triage.PriorityEmergency, true, 10*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityUrgent, false, 5*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityNormal, false, 2*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityPriority, false, 8*time.Minute, StatusWaiting),
	}

	SortEntries(entries)

	// Emergency first despite joining last, then by rank, FIFO inside a
	// bucket.
	wantOrder := []triage.Priority{
		triage.PriorityEmergency,
		triage.PriorityUrgent,
		triage.PriorityPriority,
		triage.PriorityNormal,
		triage.PriorityNormal,
	}
	for i, want := range wantOrder {
		if entries[i].Priority != want {
			t.Fatalf("slot %d: got %s, want %s", i, entries[i].Priority, want)
		}
	}

	// FIFO within the NORMAL bucket.
	if !entries[3].JoinedAt.Before(entries[4].JoinedAt) {
		t.Error("same-bucket entries must stay in join order")
	}
}

func TestOrderingInvariantPairwise(t *testing.T) {
	entries := []QueueEntry{
		makeEntry(triage.PriorityNormal, false, 0, StatusWaiting),
		makeEntry(triage.PriorityEmergency, true, 30*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityUrgent, false, 1*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityUrgent, false, 20*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityNormal, false, 15*time.Minute, StatusWaiting),
	}

	AssignPositions(entries)

	for i := range entries {
		for j := range entries {
			a, b := &entries[i], &entries[j]
			higher := false
			switch {
			case a.IsEmergency != b.IsEmergency:
				higher = a.IsEmergency
			case a.PriorityRank != b.PriorityRank:
				higher = a.PriorityRank < b.PriorityRank
			default:
				higher = a.JoinedAt.Before(b.JoinedAt)
			}
			if higher && a.Position >= b.Position {
				t.Errorf("entry %s@%d must sort before %s@%d",
					a.Priority, a.Position, b.Priority, b.Position)
			}
		}
	}
}

func TestAssignPositionsIdempotent(t *testing.T) {
	entries := []QueueEntry{
		makeEntry(triage.PriorityNormal, false, 3*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityEmergency, true, 5*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityUrgent, false, 1*time.Minute, StatusCalled),
	}

	first := AssignPositions(entries)
	if len(first) == 0 {
		t.Fatal("first run must assign positions")
	}

	second := AssignPositions(entries)
	if len(second) != 0 {
		t.Errorf("second run with no mutation changed %d positions, want 0", len(second))
	}

	for i := range entries {
		if entries[i].Position != i+1 {
			t.Errorf("slot %d has position %d", i, entries[i].Position)
		}
	}
}

func TestComputeInsertPosition(t *testing.T) {
	active := []QueueEntry{
		makeEntry(triage.PriorityEmergency, true, 0, StatusWaiting),
		makeEntry(triage.PriorityUrgent, false, 1*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityNormal, false, 2*time.Minute, StatusWaiting),
		makeEntry(triage.PriorityNormal, false, 3*time.Minute, StatusWaiting),
	}
	AssignPositions(active)

	tests := []struct {
		name        string
		isEmergency bool
		priority    triage.Priority
		want        int
	}{
		{"new emergency falls after existing emergency", true, triage.PriorityEmergency, 2},
		{"urgent lands behind the urgent bucket", false, triage.PriorityUrgent, 3},
		{"priority slots between urgent and normal", false, triage.PriorityPriority, 3},
		{"normal goes to the back", false, triage.PriorityNormal, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeInsertPosition(active, tt.isEmergency, tt.priority.Rank())
			if got != tt.want {
				t.Errorf("ComputeInsertPosition(%v, %s) = %d, want %d",
					tt.isEmergency, tt.priority, got, tt.want)
			}
		})
	}
}

func TestNextToCallPrefersEmergency(t *testing.T) {
	normal := makeEntry(triage.PriorityNormal, false, 0, StatusWaiting)
	emergency := makeEntry(triage.PriorityEmergency, true, 10*time.Minute, StatusWaiting)

	entries := []QueueEntry{normal, emergency}
	next := NextToCall(entries)
	if next == nil {
		t.Fatal("expected a next entry")
	}
	if next.ID != emergency.ID {
		t.Errorf("next to call is %s, want the emergency entry", next.Priority)
	}

	// After the emergency is called, positions must put NORMAL second.
	entries[1].Status = StatusCalled
	AssignPositions(entries)
	for i := range entries {
		if entries[i].ID == emergency.ID && entries[i].Position != 1 {
			t.Errorf("emergency position = %d, want 1", entries[i].Position)
		}
		if entries[i].ID == normal.ID && entries[i].Position != 2 {
			t.Errorf("normal position = %d, want 2", entries[i].Position)
		}
	}
}

func TestNextToCallSkipsNonWaiting(t *testing.T) {
	entries := []QueueEntry{
		makeEntry(triage.PriorityEmergency, true, 0, StatusCalled),
		makeEntry(triage.PriorityNormal, false, 1*time.Minute, StatusWaiting),
	}

	next := NextToCall(entries)
	if next == nil {
		t.Fatal("expected a next entry")
	}
	if next.Priority != triage.PriorityNormal {
		t.Errorf("next to call = %s, want the waiting NORMAL entry", next.Priority)
	}

	if got := NextToCall(nil); got != nil {
		t.Error("empty set must return nil")
	}
}
