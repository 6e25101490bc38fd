package triage

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		ctx        Context
		wantLevel  Priority
		wantReason string
	}{
		{
			name:       "emergency beats everything",
			ctx:        Context{IsEmergency: true, Urgency: UrgencyStat, AgeYears: 70, IsVIP: true},
			wantLevel:  PriorityEmergency,
			wantReason: "Emergency case",
		},
		{
			name:       "stat order is urgent",
			ctx:        Context{Urgency: UrgencyStat},
			wantLevel:  PriorityUrgent,
			wantReason: "Urgent test order",
		},
		{
			name:       "urgent order beats senior age",
			ctx:        Context{Urgency: UrgencyUrgent, AgeYears: 75},
			wantLevel:  PriorityUrgent,
			wantReason: "Urgent test order",
		},
		{
			name:       "senior citizen",
			ctx:        Context{AgeYears: 60, AgeKnown: true},
			wantLevel:  PriorityPriority,
			wantReason: "Senior citizen",
		},
		{
			name:       "pregnancy",
			ctx:        Context{AgeYears: 28, IsPregnant: true},
			wantLevel:  PriorityPriority,
			wantReason: "Pregnant patient",
		},
		{
			name:       "disability",
			ctx:        Context{AgeYears: 40, HasDisability: true},
			wantLevel:  PriorityPriority,
			wantReason: "Patient with disability",
		},
		{
			name:       "young child",
			ctx:        Context{AgeYears: 4, AgeKnown: true},
			wantLevel:  PriorityPriority,
			wantReason: "Young child",
		},
		{
			name:       "infant under a year",
			ctx:        Context{AgeYears: 0, AgeKnown: true},
			wantLevel:  PriorityPriority,
			wantReason: "Young child",
		},
		{
			name:       "unknown age is not a young child",
			ctx:        Context{AgeYears: 0, AgeKnown: false},
			wantLevel:  PriorityNormal,
			wantReason: "",
		},
		{
			name:       "vip",
			ctx:        Context{AgeYears: 35, IsVIP: true},
			wantLevel:  PriorityPriority,
			wantReason: "VIP patient",
		},
		{
			name:       "staff family",
			ctx:        Context{AgeYears: 35, IsStaffFamily: true},
			wantLevel:  PriorityPriority,
			wantReason: "Staff or staff family",
		},
		{
			name:       "normal with no reason",
			ctx:        Context{AgeYears: 35},
			wantLevel:  PriorityNormal,
			wantReason: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, reason := Classify(tt.ctx)
			if level != tt.wantLevel {
				t.Errorf("Classify() priority = %q, want %q", level, tt.wantLevel)
			}
			if reason != tt.wantReason {
				t.Errorf("Classify() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []Priority{PriorityEmergency, PriorityUrgent, PriorityPriority, PriorityNormal}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("%s (rank %d) must sort before %s (rank %d)",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}

	if Priority("BOGUS").Rank() <= PriorityNormal.Rank() {
		t.Error("unknown priority must rank after every known bucket")
	}
}

func TestParsePriority(t *testing.T) {
	if _, err := ParsePriority("EMERGENCY"); err != nil {
		t.Errorf("ParsePriority(EMERGENCY) unexpected error: %v", err)
	}
	if _, err := ParsePriority("whenever"); err == nil {
		t.Error("ParsePriority must reject unknown values")
	}
}
