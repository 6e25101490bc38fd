package intake

import (
	"testing"

	"carequeue/internal/stations"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		service string
		want    stations.Kind
	}{
		{"General Consultation", stations.KindConsultation},
		{"OPD Visit", stations.KindConsultation},
		{"Blood Test - CBC", stations.KindDiagnostic},
		{"Chest X-Ray", stations.KindDiagnostic},
		{"MRI Brain", stations.KindDiagnostic},
		{"Abdominal Ultrasound Scan", stations.KindDiagnostic},
		{"Pharmacy - Amoxicillin", stations.KindPharmacy},
		{"Wound Dressing", stations.KindProcedure},
		{"Minor Surgery", stations.KindProcedure},
		{"Blood Collection", stations.KindSampleCollection},
		{"Sample Collection - Urine", stations.KindSampleCollection},
		{"Lab Report Pickup", stations.KindReportPickup},
		{"Invoice Settlement", stations.KindBilling},
		{"", stations.KindConsultation},
		{"Something Unrecognizable", stations.KindConsultation},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			if got := ResolveKind(tt.service); got != tt.want {
				t.Errorf("ResolveKind(%q) = %s, want %s", tt.service, got, tt.want)
			}
		})
	}
}
