package stations

import (
	"context"
	"errors"
	"strings"
	"time"

	"carequeue/internal/sequence"
	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/config"
	"carequeue/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitingListProvider supplies the live queue slice for station details.
// Implemented by the queue engine; declared here to avoid an import cycle.
type WaitingListProvider interface {
	ActiveEntriesForStation(ctx context.Context, stationID uuid.UUID) ([]WaitingEntrySummary, error)
}

// Service manages the station catalog.
type Service interface {
	CreateStation(ctx context.Context, req CreateStationRequest) (*StationResponse, error)
	ListStations(ctx context.Context, filters Filters) ([]StationResponse, error)
	GetStationDetails(ctx context.Context, id uuid.UUID) (*StationDetailsResponse, error)
	UpdateStation(ctx context.Context, id uuid.UUID, req UpdateStationRequest) (*StationResponse, error)
	PauseStation(ctx context.Context, id uuid.UUID, reason string, actorID uuid.UUID) (*StationResponse, error)
	ResumeStation(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*StationResponse, error)
	ResetAllDailyTokens(ctx context.Context, actorID uuid.UUID) (*ResetTokensResponse, error)

	// SetWaitingListProvider wires the queue engine in after construction.
	// The queue service depends on this service, so the provider arrives
	// late during startup.
	SetWaitingListProvider(p WaitingListProvider)

	// EnsureStation returns an active station of the given kind and
	// department, creating a default one when none exists. Used by intake.
	EnsureStation(ctx context.Context, kind Kind, department string) (*Station, error)
}

type service struct {
	repo      Repository
	allocator sequence.Allocator
	waiting   WaitingListProvider
	cfg       *config.Config
	log       *logger.Logger
}

func NewService(repo Repository, allocator sequence.Allocator, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		allocator: allocator,
		cfg:       cfg,
		log:       log,
	}
}

func (s *service) SetWaitingListProvider(p WaitingListProvider) {
	s.waiting = p
}

func (s *service) CreateStation(ctx context.Context, req CreateStationRequest) (*StationResponse, error) {
	kind := Kind(strings.ToUpper(req.Kind))
	if !kind.IsValid() {
		return nil, apperrors.Validation("unsupported station kind %q", req.Kind)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.repo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, apperrors.Conflict("station code %s is already in use", code)
	}

	station := &Station{
		Name:              req.Name,
		Code:              code,
		Kind:              kind,
		Department:        req.Department,
		MaxCapacity:       req.MaxCapacity,
		AvgServiceMinutes: req.AvgServiceMinutes,
		IsActive:          true,
		AcceptingNew:      true,
		TokensResetAt:     time.Now(),
	}
	if station.MaxCapacity == 0 {
		station.MaxCapacity = 50
	}
	if station.AvgServiceMinutes == 0 {
		station.AvgServiceMinutes = s.cfg.Queue.DefaultAvgServiceMinutes
	}
	if req.AssignedStaffID != nil {
		staffID, err := uuid.Parse(*req.AssignedStaffID)
		if err != nil {
			return nil, apperrors.Validation("invalid assigned staff id")
		}
		station.AssignedStaffID = &staffID
	}

	if err := s.repo.Create(ctx, station); err != nil {
		// The unique index on code is the final arbiter under races.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("station code %s is already in use", code)
		}
		return nil, apperrors.Internal("failed to create station", err)
	}

	s.log.WithStation(station.ID.String()).InfoContext(ctx, "station created",
		"code", station.Code, "kind", string(station.Kind))

	resp := toResponse(station)
	return &resp, nil
}

func (s *service) ListStations(ctx context.Context, filters Filters) ([]StationResponse, error) {
	if filters.Kind != "" && !Kind(strings.ToUpper(filters.Kind)).IsValid() {
		return nil, apperrors.Validation("unsupported station kind %q", filters.Kind)
	}
	if filters.Kind != "" {
		filters.Kind = strings.ToUpper(filters.Kind)
	}

	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	result := make([]StationResponse, len(list))
	for i := range list {
		result[i] = toResponse(&list[i])
	}
	return result, nil
}

func (s *service) GetStationDetails(ctx context.Context, id uuid.UUID) (*StationDetailsResponse, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &StationDetailsResponse{
		StationResponse: toResponse(station),
		WaitingList:     []WaitingEntrySummary{},
	}

	if s.waiting != nil {
		entries, err := s.waiting.ActiveEntriesForStation(ctx, id)
		if err != nil {
			return nil, err
		}
		details.WaitingList = entries
		details.WaitingCount = len(entries)
	}

	return details, nil
}

func (s *service) UpdateStation(ctx context.Context, id uuid.UUID, req UpdateStationRequest) (*StationResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.AssignedStaffID != nil {
		staffID, err := uuid.Parse(*req.AssignedStaffID)
		if err != nil {
			return nil, apperrors.Validation("invalid assigned staff id")
		}
		updates["assigned_staff_id"] = staffID
	}
	if req.MaxCapacity != nil {
		updates["max_capacity"] = *req.MaxCapacity
	}
	if req.AvgServiceMinutes != nil {
		updates["avg_service_minutes"] = *req.AvgServiceMinutes
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.AcceptingNew != nil {
		updates["accepting_new"] = *req.AcceptingNew
	}

	if len(updates) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(station)
	return &resp, nil
}

func (s *service) PauseStation(ctx context.Context, id uuid.UUID, reason string, actorID uuid.UUID) (*StationResponse, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if station.IsPaused {
		return nil, apperrors.Conflict("station %s is already paused", station.Code)
	}

	err = s.repo.Update(ctx, id, map[string]interface{}{
		"is_paused":    true,
		"pause_reason": reason,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithActor(actorID.String()).LogStationPaused(ctx, id.String(), true, reason)

	station.IsPaused = true
	station.PauseReason = reason
	resp := toResponse(station)
	return &resp, nil
}

func (s *service) ResumeStation(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*StationResponse, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !station.IsPaused {
		return nil, apperrors.Conflict("station %s is not paused", station.Code)
	}

	err = s.repo.Update(ctx, id, map[string]interface{}{
		"is_paused":    false,
		"pause_reason": "",
	})
	if err != nil {
		return nil, err
	}

	s.log.WithActor(actorID.String()).LogStationPaused(ctx, id.String(), false, "")

	station.IsPaused = false
	station.PauseReason = ""
	resp := toResponse(station)
	return &resp, nil
}

func (s *service) ResetAllDailyTokens(ctx context.Context, actorID uuid.UUID) (*ResetTokensResponse, error) {
	active, err := s.repo.List(ctx, Filters{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	count, err := s.repo.ResetDailyCounters(ctx, now)
	if err != nil {
		return nil, err
	}

	// Drop today's Redis counters so the next allocation restarts at 1.
	for i := range active {
		if err := s.allocator.ResetStationToken(ctx, active[i].ID); err != nil {
			s.log.ErrorWithContext(ctx, "failed to reset token counter", err,
				map[string]interface{}{"station_id": active[i].ID.String()})
		}
	}

	s.log.LogTokensReset(ctx, int(count), actorID.String())

	return &ResetTokensResponse{
		StationsReset: int(count),
		ResetAt:       now,
	}, nil
}

func (s *service) EnsureStation(ctx context.Context, kind Kind, department string) (*Station, error) {
	station, err := s.repo.FindByKindAndDepartment(ctx, kind, department)
	if err == nil {
		return station, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	station = defaultStation(kind, department, s.cfg.Queue.DefaultAvgServiceMinutes)
	if err := s.repo.Create(ctx, station); err != nil {
		// A concurrent intake may have provisioned it first.
		if existing, lookupErr := s.repo.FindByKindAndDepartment(ctx, kind, department); lookupErr == nil {
			return existing, nil
		}
		return nil, apperrors.Internal("failed to auto-provision station", err)
	}

	s.log.WithStation(station.ID.String()).InfoContext(ctx, "station auto-provisioned",
		"kind", string(kind), "department", department)
	return station, nil
}

var kindDisplayNames = map[Kind]string{
	KindConsultation:     "Consultation",
	KindDiagnostic:       "Diagnostics",
	KindBilling:          "Billing",
	KindPharmacy:         "Pharmacy",
	KindProcedure:        "Procedures",
	KindSampleCollection: "Sample Collection",
	KindReportPickup:     "Report Pickup",
}

// defaultStation builds the station auto-provisioned when intake resolves a
// kind with no existing queue.
func defaultStation(kind Kind, department string, avgServiceMinutes int) *Station {
	name := kindDisplayNames[kind]
	if name == "" {
		name = string(kind)
	}
	if department != "" {
		name = name + " - " + department
	}

	code := string(kind)
	if len(code) > 3 {
		code = code[:3]
	}
	// Suffix keeps auto-provisioned codes from colliding across departments.
	suffix := uuid.NewString()[:4]
	code = code + "-" + strings.ToUpper(suffix)

	return &Station{
		Name:              name,
		Code:              code,
		Kind:              kind,
		Department:        department,
		MaxCapacity:       50,
		AvgServiceMinutes: avgServiceMinutes,
		IsActive:          true,
		AcceptingNew:      true,
		TokensResetAt:     time.Now(),
	}
}
