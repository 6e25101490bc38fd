package queue

import "testing"

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusWaiting, StatusCalled, true},
		{StatusCalled, StatusServing, true},
		{StatusCalled, StatusSkipped, true},
		{StatusSkipped, StatusRecalled, true},
		{StatusRecalled, StatusServing, true},
		{StatusRecalled, StatusSkipped, true},
		{StatusServing, StatusCompleted, true},
		{StatusWaiting, StatusCancelled, true},
		{StatusServing, StatusTransferred, true},
		{StatusWaiting, StatusOnHold, true},
		{StatusCalled, StatusOnHold, true},
		{StatusServing, StatusOnHold, true},
		{StatusOnHold, StatusWaiting, true},
		{StatusOnHold, StatusServing, true},

		{StatusWaiting, StatusServing, false},
		{StatusWaiting, StatusCompleted, false},
		{StatusWaiting, StatusSkipped, false},
		{StatusSkipped, StatusServing, false},
		{StatusSkipped, StatusOnHold, false},
		{StatusCompleted, StatusWaiting, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusWaiting, false},
		{StatusTransferred, StatusCalled, false},
		{StatusServing, StatusCalled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	terminals := []Status{StatusCompleted, StatusCancelled, StatusTransferred}
	all := []Status{
		StatusWaiting, StatusCalled, StatusServing, StatusCompleted,
		StatusSkipped, StatusRecalled, StatusTransferred, StatusCancelled, StatusOnHold,
	}

	for _, from := range terminals {
		if !from.IsTerminal() {
			t.Errorf("%s must be terminal", from)
		}
		for _, to := range all {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestStatusClassification(t *testing.T) {
	activeStates := map[Status]bool{
		StatusWaiting:  true,
		StatusCalled:   true,
		StatusRecalled: true,
		StatusOnHold:   true,
	}
	slotStates := map[Status]bool{
		StatusCalled:  true,
		StatusServing: true,
	}

	all := []Status{
		StatusWaiting, StatusCalled, StatusServing, StatusCompleted,
		StatusSkipped, StatusRecalled, StatusTransferred, StatusCancelled, StatusOnHold,
	}
	for _, s := range all {
		if s.IsActive() != activeStates[s] {
			t.Errorf("%s.IsActive() = %v, want %v", s, s.IsActive(), activeStates[s])
		}
		if s.OccupiesServiceSlot() != slotStates[s] {
			t.Errorf("%s.OccupiesServiceSlot() = %v, want %v", s, s.OccupiesServiceSlot(), slotStates[s])
		}
		if !s.IsValid() {
			t.Errorf("%s must be a valid status", s)
		}
	}

	if Status("NAPPING").IsValid() {
		t.Error("unknown status must be invalid")
	}
}
