package intake

import (
	"strings"

	"carequeue/internal/stations"
)

// kindKeywords maps free-text service category fragments to station kinds.
// Matching is case-insensitive substring matching, first table hit wins, so
// more specific fragments come before generic ones.
var kindKeywords = []struct {
	fragment string
	kind     stations.Kind
}{
	{"sample", stations.KindSampleCollection},
	{"blood collection", stations.KindSampleCollection},
	{"phlebotomy", stations.KindSampleCollection},
	{"report", stations.KindReportPickup},
	{"pharmacy", stations.KindPharmacy},
	{"medicine", stations.KindPharmacy},
	{"drug", stations.KindPharmacy},
	{"x-ray", stations.KindDiagnostic},
	{"xray", stations.KindDiagnostic},
	{"scan", stations.KindDiagnostic},
	{"imaging", stations.KindDiagnostic},
	{"mri", stations.KindDiagnostic},
	{"ultrasound", stations.KindDiagnostic},
	{"ecg", stations.KindDiagnostic},
	{"lab", stations.KindDiagnostic},
	{"test", stations.KindDiagnostic},
	{"diagnostic", stations.KindDiagnostic},
	{"surgery", stations.KindProcedure},
	{"procedure", stations.KindProcedure},
	{"dressing", stations.KindProcedure},
	{"injection", stations.KindProcedure},
	{"suture", stations.KindProcedure},
	{"billing", stations.KindBilling},
	{"payment", stations.KindBilling},
	{"invoice", stations.KindBilling},
	{"consult", stations.KindConsultation},
	{"opd", stations.KindConsultation},
	{"doctor", stations.KindConsultation},
	{"checkup", stations.KindConsultation},
}

// ResolveKind maps a free-text service name or category to a station kind.
// Unrecognized text falls back to consultation, the broadest queue.
func ResolveKind(serviceName string) stations.Kind {
	normalized := strings.ToLower(strings.TrimSpace(serviceName))
	if normalized == "" {
		return stations.KindConsultation
	}
	for _, kw := range kindKeywords {
		if strings.Contains(normalized, kw.fragment) {
			return kw.kind
		}
	}
	return stations.KindConsultation
}
