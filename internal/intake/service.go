package intake

import (
	"context"

	"carequeue/internal/patients"
	"carequeue/internal/queue"
	"carequeue/internal/shared/apperrors"
	"carequeue/internal/stations"
	"carequeue/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service is the bridge between external triggers (a paid invoice, a
// front-desk check-in, a diagnostic order) and the queue engine.
type Service interface {
	BillingIntake(ctx context.Context, req BillingIntakeRequest, actorID uuid.UUID) (*BillingIntakeResponse, error)
	CheckIn(ctx context.Context, req CheckInRequest, actorID uuid.UUID) (*queue.EntryResponse, error)
	DiagnosticOrder(ctx context.Context, req DiagnosticOrderRequest, actorID uuid.UUID) (*queue.EntryResponse, error)
}

type service struct {
	queueService   queue.Service
	stationService stations.Service
	patientRepo    patients.Repository
	validate       *validator.Validate
	log            *logger.Logger
}

func NewService(queueService queue.Service, stationService stations.Service, patientRepo patients.Repository, log *logger.Logger) Service {
	return &service{
		queueService:   queueService,
		stationService: stationService,
		patientRepo:    patientRepo,
		validate:       validator.New(),
		log:            log,
	}
}

// BillingIntake converts every paid service line into a queue entry. Each
// line resolves a station kind from its free-text name, auto-provisioning a
// default station when the kind has no queue yet. A line that fails (most
// commonly because the patient is already queued at the resolved station) is
// recorded and skipped; its siblings continue.
func (s *service) BillingIntake(ctx context.Context, req BillingIntakeRequest, actorID uuid.UUID) (*BillingIntakeResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient id")
	}
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	result := &BillingIntakeResponse{
		InvoiceRef: req.InvoiceRef,
		Outcomes:   make([]LineOutcome, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		outcome := s.processLine(ctx, patientID, req, line, actorID)
		switch outcome.Outcome {
		case OutcomeQueued:
			result.Queued++
		case OutcomeSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	s.log.InfoContext(ctx, "billing intake processed",
		"invoice_ref", req.InvoiceRef,
		"queued", result.Queued,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *service) processLine(ctx context.Context, patientID uuid.UUID, req BillingIntakeRequest, line ServiceLine, actorID uuid.UUID) LineOutcome {
	if err := s.validate.Struct(line); err != nil {
		return LineOutcome{
			ServiceName: line.ServiceName,
			Outcome:     OutcomeFailed,
			Reason:      "invalid service line: " + err.Error(),
		}
	}

	kind := ResolveKind(line.ServiceName)
	department := line.Department
	if department == "" {
		department = req.Department
	}

	station, err := s.stationService.EnsureStation(ctx, kind, department)
	if err != nil {
		s.log.ErrorWithContext(ctx, "station resolution failed", err,
			map[string]interface{}{"service_name": line.ServiceName, "kind": string(kind)})
		return LineOutcome{
			ServiceName: line.ServiceName,
			StationKind: string(kind),
			Outcome:     OutcomeFailed,
			Reason:      apperrors.MessageOf(err),
		}
	}

	orderRef := req.InvoiceRef
	entry, err := s.queueService.AddToQueue(ctx, queue.AddParams{
		PatientID:   patientID,
		StationID:   station.ID,
		OrderRef:    &orderRef,
		IsEmergency: req.IsEmergency,
		ActorID:     actorID,
	})
	if err != nil {
		// Already queued at this station: skip the line, keep the batch.
		if apperrors.Is(err, apperrors.KindConflict) {
			return LineOutcome{
				ServiceName: line.ServiceName,
				StationKind: string(kind),
				Outcome:     OutcomeSkipped,
				Reason:      apperrors.MessageOf(err),
			}
		}
		s.log.ErrorWithContext(ctx, "billing intake line failed", err,
			map[string]interface{}{"service_name": line.ServiceName, "station_id": station.ID.String()})
		return LineOutcome{
			ServiceName: line.ServiceName,
			StationKind: string(kind),
			Outcome:     OutcomeFailed,
			Reason:      apperrors.MessageOf(err),
		}
	}

	return LineOutcome{
		ServiceName: line.ServiceName,
		StationKind: string(kind),
		Outcome:     OutcomeQueued,
		Entry:       entry,
	}
}

// CheckIn queues a walk-in patient at a station picked by the front desk.
func (s *service) CheckIn(ctx context.Context, req CheckInRequest, actorID uuid.UUID) (*queue.EntryResponse, error) {
	patientID, err := s.resolvePatient(ctx, req.PatientID, req.PatientMRN)
	if err != nil {
		return nil, err
	}

	stationID, err := uuid.Parse(req.StationID)
	if err != nil {
		return nil, apperrors.Validation("invalid station id")
	}

	return s.queueService.AddToQueue(ctx, queue.AddParams{
		PatientID:   patientID,
		StationID:   stationID,
		IsEmergency: req.IsEmergency,
		Notes:       req.Notes,
		ActorID:     actorID,
	})
}

// DiagnosticOrder queues a patient for an ordered test. The test name picks
// the station kind; STAT and URGENT orders carry their urgency into triage.
func (s *service) DiagnosticOrder(ctx context.Context, req DiagnosticOrderRequest, actorID uuid.UUID) (*queue.EntryResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("invalid patient id")
	}

	kind := ResolveKind(req.TestName)
	if kind == stations.KindConsultation {
		// Test names that match nothing still belong on a diagnostic queue.
		kind = stations.KindDiagnostic
	}

	station, err := s.stationService.EnsureStation(ctx, kind, req.Department)
	if err != nil {
		return nil, err
	}

	urgency := req.Urgency
	if urgency == "ROUTINE" {
		urgency = ""
	}

	orderRef := req.OrderRef
	return s.queueService.AddToQueue(ctx, queue.AddParams{
		PatientID: patientID,
		StationID: station.ID,
		OrderRef:  &orderRef,
		Urgency:   urgency,
		Notes:     req.TestName,
		ActorID:   actorID,
	})
}

func (s *service) resolvePatient(ctx context.Context, rawID, mrn string) (uuid.UUID, error) {
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return uuid.Nil, apperrors.Validation("invalid patient id")
		}
		return id, nil
	}
	if mrn == "" {
		return uuid.Nil, apperrors.Validation("patient_id or patient_mrn is required")
	}

	patient, err := s.patientRepo.GetByMRN(ctx, mrn)
	if err != nil {
		return uuid.Nil, err
	}
	return patient.ID, nil
}
