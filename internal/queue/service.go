package queue

import (
	"context"
	"fmt"
	"time"

	"carequeue/internal/patients"
	"carequeue/internal/sequence"
	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/config"
	"carequeue/internal/shared/constants"
	"carequeue/internal/stations"
	"carequeue/internal/triage"
	"carequeue/pkg/cache"
	"carequeue/pkg/logger"

	"github.com/google/uuid"
)

// AddParams is the full intake contract. The HTTP layer and the intake
// bridge both funnel through it. Priority, when set, bypasses the classifier
// (used by transfers that inherit the source priority).
type AddParams struct {
	PatientID         uuid.UUID
	StationID         uuid.UUID
	OrderRef          *string
	IsEmergency       bool
	Urgency           string
	Notes             string
	Priority          *triage.Priority
	PriorityReason    string
	TransferredFromID *uuid.UUID
	ActorID           uuid.UUID
}

// Service drives every queue entry through its lifecycle. Each mutating
// operation validates the transition inside a store transaction and
// recalculates the station's cached positions before returning.
type Service interface {
	AddToQueue(ctx context.Context, params AddParams) (*EntryResponse, error)
	CallNext(ctx context.Context, stationID, actorID uuid.UUID) (*EntryResponse, error)
	StartServing(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error)
	Complete(ctx context.Context, entryID, actorID uuid.UUID) (*CompleteResponse, error)
	Skip(ctx context.Context, entryID, actorID uuid.UUID) (*SkipResponse, error)
	Recall(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error)
	Transfer(ctx context.Context, entryID, targetStationID uuid.UUID, reason string, actorID uuid.UUID) (*TransferResponse, error)
	Cancel(ctx context.Context, entryID uuid.UUID, reason string, actorID uuid.UUID) (*EntryResponse, error)
	ChangePriority(ctx context.Context, entryID uuid.UUID, priority triage.Priority, reason string, actorID uuid.UUID) (*EntryResponse, error)
	Hold(ctx context.Context, entryID uuid.UUID, reason string, actorID uuid.UUID) (*EntryResponse, error)
	ResumeFromHold(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error)

	GetEntryStatus(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error)
	GetPatientEntries(ctx context.Context, patientID uuid.UUID) ([]EntryResponse, error)
	GetDisplayBoard(ctx context.Context, stationID uuid.UUID) (*BoardResponse, error)
	RecalculatePositions(ctx context.Context, stationID uuid.UUID) error

	// ActiveEntriesForStation implements stations.WaitingListProvider.
	ActiveEntriesForStation(ctx context.Context, stationID uuid.UUID) ([]stations.WaitingEntrySummary, error)
}

type service struct {
	repo        Repository
	stationRepo stations.Repository
	patientRepo patients.Repository
	allocator   sequence.Allocator
	cache       cache.Service
	publisher   EventPublisher
	cfg         *config.Config
	log         *logger.Logger
}

func NewService(
	repo Repository,
	stationRepo stations.Repository,
	patientRepo patients.Repository,
	allocator sequence.Allocator,
	cacheService cache.Service,
	publisher EventPublisher,
	cfg *config.Config,
	log *logger.Logger,
) Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &service{
		repo:        repo,
		stationRepo: stationRepo,
		patientRepo: patientRepo,
		allocator:   allocator,
		cache:       cacheService,
		publisher:   publisher,
		cfg:         cfg,
		log:         log,
	}
}

// AddToQueue inserts a patient into a station's waiting list: classify,
// allocate token and queue number, compute the insert position, and shift
// the entries the newcomer displaces.
func (s *service) AddToQueue(ctx context.Context, params AddParams) (*EntryResponse, error) {
	station, err := s.stationRepo.GetByID(ctx, params.StationID)
	if err != nil {
		return nil, err
	}
	if ok, reason := station.CanAccept(); !ok {
		return nil, apperrors.Capacity("%s", reason)
	}

	patient, err := s.patientRepo.GetByID(ctx, params.PatientID)
	if err != nil {
		return nil, err
	}

	priority, priorityReason := s.resolvePriority(params, patient)
	isEmergency := params.IsEmergency || priority == triage.PriorityEmergency

	var entry *QueueEntry
	err = s.repo.Transact(ctx, func(tx Repository) error {
		// Serialize station-scoped mutations. The capacity count and the
		// duplicate check below have no row to lock when they pass, so
		// the station row is the lock.
		locked, err := tx.LockStation(ctx, station.ID)
		if err != nil {
			return err
		}

		count, err := tx.CountActiveForStation(ctx, station.ID)
		if err != nil {
			return err
		}
		if count >= int64(locked.MaxCapacity) {
			return apperrors.Capacity("station %s is at capacity (%d waiting)", locked.Code, count)
		}

		existing, err := tx.FindActiveByPatientAndStation(ctx, patient.ID, station.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Conflict("patient is already queued at station %s as %s", station.Code, existing.QueueNumber)
		}

		active, err := tx.ActiveForStationLocked(ctx, station.ID)
		if err != nil {
			return err
		}

		tokenNumber, err := s.allocator.NextToken(ctx, station.ID)
		if err != nil {
			return apperrors.Internal("failed to allocate token", err)
		}
		queueNumber, err := s.allocator.NextQueueNumber(ctx, "global")
		if err != nil {
			return apperrors.Internal("failed to allocate queue number", err)
		}

		position := ComputeInsertPosition(active, isEmergency, priority.Rank())
		now := time.Now()

		entry = &QueueEntry{
			QueueNumber:       queueNumber,
			TokenNumber:       tokenNumber,
			Token:             sequence.FormatToken(station.Code, tokenNumber, s.cfg.Queue.TokenPadWidth),
			PatientID:         patient.ID,
			StationID:         station.ID,
			OrderRef:          params.OrderRef,
			Priority:          priority,
			PriorityRank:      priority.Rank(),
			PriorityReason:    priorityReason,
			IsEmergency:       isEmergency,
			Position:          position,
			OriginalPosition:  position,
			Status:            StatusWaiting,
			JoinedAt:          now,
			Notes:             params.Notes,
			TransferredFromID: params.TransferredFromID,
		}

		if err := tx.Create(ctx, entry); err != nil {
			return apperrors.Internal("failed to create queue entry", err)
		}

		// Shift the entries the newcomer displaces.
		active = append(active, *entry)
		changed := AssignPositions(active)
		if err := tx.UpdatePositions(ctx, changed); err != nil {
			return err
		}

		if err := tx.SetStationLastToken(ctx, station.ID, tokenNumber); err != nil {
			return apperrors.Internal("failed to update station token", err)
		}
		return tx.AdjustStationOccupancy(ctx, station.ID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogEntryQueued(ctx, entry.ID.String(), station.ID.String(), entry.QueueNumber, entry.Position)
	s.publish(ctx, entry, "", StatusWaiting, params.ActorID, priorityReason)
	s.invalidateBoard(ctx, station.ID)

	resp := s.toResponse(entry, station, patient.FullName())
	return &resp, nil
}

// CallNext picks the first waiting entry under the ordering law and moves it
// to CALLED. A station serves one patient at a time: if an entry is already
// CALLED or SERVING the call is rejected with a conflict.
func (s *service) CallNext(ctx context.Context, stationID, actorID uuid.UUID) (*EntryResponse, error) {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	var called *QueueEntry
	err = s.repo.Transact(ctx, func(tx Repository) error {
		// A free slot means the holder query finds nothing to lock, so
		// two concurrent calls could both pass it. The station row lock
		// lets only one transaction reach the check at a time.
		if _, err := tx.LockStation(ctx, stationID); err != nil {
			return err
		}

		holder, err := tx.FindServiceSlotHolder(ctx, stationID)
		if err != nil {
			return err
		}
		if holder != nil {
			return apperrors.Conflict("entry %s is already %s at station %s",
				holder.QueueNumber, holder.Status, station.Code)
		}

		active, err := tx.ActiveForStationLocked(ctx, stationID)
		if err != nil {
			return err
		}

		next := NextToCall(active)
		if next == nil {
			return apperrors.NotFound("no patients waiting at station %s", station.Code)
		}

		now := time.Now()
		next.Status = StatusCalled
		next.CalledAt = &now
		if err := tx.Save(ctx, next); err != nil {
			return err
		}
		called = next

		return s.recalcLocked(ctx, tx, active)
	})
	if err != nil {
		return nil, err
	}

	s.log.LogEntryTransition(ctx, called.ID.String(), string(StatusWaiting), string(StatusCalled), actorID.String())
	s.publish(ctx, called, StatusWaiting, StatusCalled, actorID, "")
	s.invalidateBoard(ctx, stationID)

	return s.respond(ctx, called, station)
}

// StartServing moves a called (or recalled) entry into service.
func (s *service) StartServing(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error) {
	return s.transition(ctx, entryID, actorID, StatusServing, "", func(entry *QueueEntry, tx Repository) error {
		if entry.Status == StatusRecalled {
			// A recalled entry re-takes the service slot; make sure no
			// one else holds it. The station row lock keeps a concurrent
			// call-next or recall from passing the same check.
			if _, err := tx.LockStation(ctx, entry.StationID); err != nil {
				return err
			}
			holder, err := tx.FindServiceSlotHolder(ctx, entry.StationID)
			if err != nil {
				return err
			}
			if holder != nil && holder.ID != entry.ID {
				return apperrors.Conflict("entry %s is already %s at this station",
					holder.QueueNumber, holder.Status)
			}
		}
		now := time.Now()
		entry.ServedAt = &now
		return nil
	})
}

// Complete finishes service: record durations, persist the immutable history
// snapshot, bump the station's served counter and free its occupancy slot.
func (s *service) Complete(ctx context.Context, entryID, actorID uuid.UUID) (*CompleteResponse, error) {
	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var waitMin, serviceMin int
	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if !locked.Status.CanTransitionTo(StatusCompleted) {
			return apperrors.Conflict("cannot complete entry in status %s", locked.Status)
		}

		now := time.Now()
		locked.Status = StatusCompleted
		locked.CompletedAt = &now

		waitMin, serviceMin = completionMetrics(locked.JoinedAt, locked.ServedAt, now)

		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		if err := tx.CreateHistory(ctx, s.historyFrom(locked, waitMin, serviceMin)); err != nil {
			return err
		}
		if err := tx.IncrementStationServed(ctx, locked.StationID); err != nil {
			return apperrors.Internal("failed to bump served counter", err)
		}
		if err := tx.AdjustStationOccupancy(ctx, locked.StationID, -1); err != nil {
			return apperrors.Internal("failed to release occupancy slot", err)
		}

		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.LogEntryTransition(ctx, entry.ID.String(), string(StatusServing), string(StatusCompleted), actorID.String())
	s.publish(ctx, entry, StatusServing, StatusCompleted, actorID, "")
	s.invalidateBoard(ctx, entry.StationID)

	resp := s.toResponse(entry, station, "")
	return &CompleteResponse{
		Entry:          resp,
		WaitMinutes:    waitMin,
		ServiceMinutes: serviceMin,
	}, nil
}

// Skip pushes a called entry back into the skipped pool. Hitting the skip
// limit cancels the entry instead and reports it as a distinct outcome.
func (s *service) Skip(ctx context.Context, entryID, actorID uuid.UUID) (*SkipResponse, error) {
	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	autoCancelled := false
	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if !locked.Status.CanTransitionTo(StatusSkipped) {
			return apperrors.Conflict("cannot skip entry in status %s", locked.Status)
		}

		now := time.Now()
		locked.SkipCount++
		locked.LastSkippedAt = &now

		if locked.SkipCount >= s.cfg.Queue.MaxSkipCount {
			autoCancelled = true
			locked.Status = StatusCancelled
			locked.CompletedAt = &now
			locked.Notes = fmt.Sprintf("auto-cancelled after %d skips", locked.SkipCount)

			waitMin, serviceMin := completionMetrics(locked.JoinedAt, locked.ServedAt, now)
			if err := tx.CreateHistory(ctx, s.historyFrom(locked, waitMin, serviceMin)); err != nil {
				return err
			}
			if err := tx.AdjustStationOccupancy(ctx, locked.StationID, -1); err != nil {
				return apperrors.Internal("failed to release occupancy slot", err)
			}
		} else {
			locked.Status = StatusSkipped
		}

		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	if autoCancelled {
		s.log.LogEntryAutoCancelled(ctx, entry.ID.String(), entry.SkipCount)
	} else {
		s.log.LogEntryTransition(ctx, entry.ID.String(), string(StatusCalled), string(StatusSkipped), actorID.String())
	}
	s.publish(ctx, entry, StatusCalled, entry.Status, actorID, entry.Notes)
	s.invalidateBoard(ctx, entry.StationID)

	return &SkipResponse{
		Entry:         s.toResponse(entry, station, ""),
		AutoCancelled: autoCancelled,
	}, nil
}

// Recall brings a skipped entry back into the calling rotation.
func (s *service) Recall(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error) {
	return s.transition(ctx, entryID, actorID, StatusRecalled, "", func(entry *QueueEntry, tx Repository) error {
		now := time.Now()
		entry.RecalledAt = &now
		return nil
	})
}

// Transfer terminalizes the entry at its source station and creates a fresh
// WAITING entry at the destination. By default the destination entry keeps
// the source priority; with re-triage enabled the classifier runs again.
func (s *service) Transfer(ctx context.Context, entryID, targetStationID uuid.UUID, reason string, actorID uuid.UUID) (*TransferResponse, error) {
	sourceStation, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanTransitionTo(StatusTransferred) {
		return nil, apperrors.Conflict("cannot transfer entry in status %s", entry.Status)
	}
	if targetStationID == entry.StationID {
		return nil, apperrors.Validation("cannot transfer an entry to its own station")
	}

	addParams := AddParams{
		PatientID:         entry.PatientID,
		StationID:         targetStationID,
		OrderRef:          entry.OrderRef,
		IsEmergency:       entry.IsEmergency,
		Notes:             fmt.Sprintf("transferred from %s: %s", sourceStation.Code, reason),
		TransferredFromID: &entry.ID,
		ActorID:           actorID,
	}
	if !s.cfg.Queue.TransferRetriage {
		p := entry.Priority
		addParams.Priority = &p
		addParams.PriorityReason = entry.PriorityReason
	}

	// Destination first: if it rejects (capacity, duplicate, paused), the
	// source entry stays untouched.
	destination, err := s.AddToQueue(ctx, addParams)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if !locked.Status.CanTransitionTo(StatusTransferred) {
			return apperrors.Conflict("cannot transfer entry in status %s", locked.Status)
		}

		now := time.Now()
		locked.Status = StatusTransferred
		locked.CompletedAt = &now
		locked.TransferredToID = &destination.ID
		locked.Notes = fmt.Sprintf("transferred to station %s: %s", targetStationID, reason)

		waitMin, serviceMin := completionMetrics(locked.JoinedAt, locked.ServedAt, now)
		if err := tx.CreateHistory(ctx, s.historyFrom(locked, waitMin, serviceMin)); err != nil {
			return err
		}
		if err := tx.AdjustStationOccupancy(ctx, locked.StationID, -1); err != nil {
			return apperrors.Internal("failed to release occupancy slot", err)
		}
		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		// The destination entry was already created; cancel it so the
		// patient is not queued twice.
		if _, cancelErr := s.Cancel(ctx, destination.ID, "transfer rolled back", actorID); cancelErr != nil {
			s.log.ErrorWithContext(ctx, "failed to roll back transfer destination", cancelErr,
				map[string]interface{}{"entry_id": destination.ID.String()})
		}
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.LogEntryTransition(ctx, entry.ID.String(), string(entry.Status), string(StatusTransferred), actorID.String())
	s.publish(ctx, entry, "", StatusTransferred, actorID, reason)
	s.invalidateBoard(ctx, entry.StationID)

	return &TransferResponse{
		Source:      s.toResponse(entry, sourceStation, ""),
		Destination: *destination,
	}, nil
}

// Cancel removes an entry from its queue with a reason.
func (s *service) Cancel(ctx context.Context, entryID uuid.UUID, reason string, actorID uuid.UUID) (*EntryResponse, error) {
	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if !locked.Status.CanTransitionTo(StatusCancelled) {
			return apperrors.Conflict("cannot cancel entry in status %s", locked.Status)
		}

		now := time.Now()
		locked.Status = StatusCancelled
		locked.CompletedAt = &now
		locked.Notes = reason

		waitMin, serviceMin := completionMetrics(locked.JoinedAt, locked.ServedAt, now)
		if err := tx.CreateHistory(ctx, s.historyFrom(locked, waitMin, serviceMin)); err != nil {
			return err
		}
		if err := tx.AdjustStationOccupancy(ctx, locked.StationID, -1); err != nil {
			return apperrors.Internal("failed to release occupancy slot", err)
		}
		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.LogEntryTransition(ctx, entry.ID.String(), "", string(StatusCancelled), actorID.String())
	s.publish(ctx, entry, "", StatusCancelled, actorID, reason)
	s.invalidateBoard(ctx, entry.StationID)

	resp := s.toResponse(entry, station, "")
	return &resp, nil
}

// ChangePriority re-buckets an entry and reorders the queue around it.
func (s *service) ChangePriority(ctx context.Context, entryID uuid.UUID, priority triage.Priority, reason string, actorID uuid.UUID) (*EntryResponse, error) {
	if !priority.IsValid() {
		return nil, apperrors.Validation("unknown priority %q", priority)
	}

	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if locked.Status.IsTerminal() {
			return apperrors.Conflict("cannot change priority of entry in status %s", locked.Status)
		}

		locked.Priority = priority
		locked.PriorityRank = priority.Rank()
		locked.PriorityReason = reason
		locked.IsEmergency = priority == triage.PriorityEmergency
		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.WithActor(actorID.String()).InfoContext(ctx, "entry priority changed",
		"entry_id", entry.ID.String(), "priority", string(priority), "reason", reason)
	s.invalidateBoard(ctx, entry.StationID)

	return s.respond(ctx, entry, station)
}

// Hold parks an entry without losing its place in history.
func (s *service) Hold(ctx context.Context, entryID uuid.UUID, reason string, actorID uuid.UUID) (*EntryResponse, error) {
	return s.transition(ctx, entryID, actorID, StatusOnHold, reason, func(entry *QueueEntry, tx Repository) error {
		prior := entry.Status
		entry.HeldFrom = &prior
		if reason != "" {
			entry.Notes = reason
		}
		return nil
	})
}

// ResumeFromHold restores the state the entry held before the hold.
func (s *service) ResumeFromHold(ctx context.Context, entryID, actorID uuid.UUID) (*EntryResponse, error) {
	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if locked.Status != StatusOnHold {
			return apperrors.Conflict("entry is not on hold (status %s)", locked.Status)
		}

		target := StatusWaiting
		if locked.HeldFrom != nil {
			target = *locked.HeldFrom
		}
		if !locked.Status.CanTransitionTo(target) {
			return apperrors.Conflict("cannot resume entry to status %s", target)
		}
		if target.OccupiesServiceSlot() {
			if _, err := tx.LockStation(ctx, locked.StationID); err != nil {
				return err
			}
			holder, err := tx.FindServiceSlotHolder(ctx, locked.StationID)
			if err != nil {
				return err
			}
			if holder != nil && holder.ID != locked.ID {
				return apperrors.Conflict("entry %s is already %s at this station",
					holder.QueueNumber, holder.Status)
			}
		}

		locked.Status = target
		locked.HeldFrom = nil
		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.LogEntryTransition(ctx, entry.ID.String(), string(StatusOnHold), string(entry.Status), actorID.String())
	s.publish(ctx, entry, StatusOnHold, entry.Status, actorID, "")
	s.invalidateBoard(ctx, entry.StationID)

	return s.respond(ctx, entry, station)
}

// GetEntryStatus returns the live view of one entry.
func (s *service) GetEntryStatus(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	station, err := s.stationRepo.GetByID(ctx, entry.StationID)
	if err != nil {
		return nil, err
	}

	name := ""
	if entry.Patient != nil {
		name = entry.Patient.FullName()
	}
	resp := s.toResponse(entry, station, name)
	return &resp, nil
}

// GetPatientEntries lists everything in flight for one patient across all
// stations.
func (s *service) GetPatientEntries(ctx context.Context, patientID uuid.UUID) ([]EntryResponse, error) {
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ActiveForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	result := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		station, err := s.stationRepo.GetByID(ctx, entries[i].StationID)
		if err != nil {
			return nil, err
		}
		result = append(result, s.toResponse(&entries[i], station, ""))
	}
	return result, nil
}

// GetDisplayBoard assembles the public kiosk payload, trimmed to first names
// and briefly cached to survive aggressive polling.
func (s *service) GetDisplayBoard(ctx context.Context, stationID uuid.UUID) (*BoardResponse, error) {
	var board BoardResponse
	key := boardCacheKey(stationID)

	err := s.cache.GetOrSet(ctx, key, s.cfg.Redis.BoardCacheTTL, func() (interface{}, error) {
		return s.buildBoard(ctx, stationID)
	}, &board)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *service) buildBoard(ctx context.Context, stationID uuid.UUID) (*BoardResponse, error) {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	serving, upNext, err := s.repo.BoardEntries(ctx, stationID, s.cfg.Queue.DisplayBoardSize)
	if err != nil {
		return nil, err
	}

	waitingCount, err := s.repo.CountActiveForStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	board := &BoardResponse{
		StationID:    station.ID,
		StationName:  station.Name,
		StationCode:  station.Code,
		NowServing:   make([]BoardSlot, 0, len(serving)),
		UpNext:       make([]BoardSlot, 0, len(upNext)),
		WaitingCount: int(waitingCount),
		GeneratedAt:  time.Now(),
	}
	for i := range serving {
		board.NowServing = append(board.NowServing, boardSlot(&serving[i]))
	}
	for i := range upNext {
		board.UpNext = append(board.UpNext, boardSlot(&upNext[i]))
	}
	return board, nil
}

// boardSlot trims an entry to what a public kiosk may show: token and first
// name only.
func boardSlot(entry *QueueEntry) BoardSlot {
	firstName := ""
	if entry.Patient != nil {
		firstName = entry.Patient.FirstName
	}
	return BoardSlot{
		Token:       entry.Token,
		QueueNumber: entry.QueueNumber,
		FirstName:   firstName,
		Status:      entry.Status,
		Position:    entry.Position,
	}
}

// RecalculatePositions re-sorts a station's active entries under the
// ordering law and rewrites the cached position field from 1. Idempotent.
func (s *service) RecalculatePositions(ctx context.Context, stationID uuid.UUID) error {
	return s.repo.Transact(ctx, func(tx Repository) error {
		active, err := tx.ActiveForStationLocked(ctx, stationID)
		if err != nil {
			return err
		}
		return s.recalcLocked(ctx, tx, active)
	})
}

func (s *service) recalcLocked(ctx context.Context, tx Repository, active []QueueEntry) error {
	// Called/recalled entries stay in the positional view; on-hold and
	// terminal ones are already filtered out by the active query.
	changed := AssignPositions(active)
	return tx.UpdatePositions(ctx, changed)
}

// ActiveEntriesForStation feeds station detail views.
func (s *service) ActiveEntriesForStation(ctx context.Context, stationID uuid.UUID) ([]stations.WaitingEntrySummary, error) {
	entries, err := s.repo.ActiveForStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	result := make([]stations.WaitingEntrySummary, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		name := ""
		if e.Patient != nil {
			name = e.Patient.FullName()
		}
		result = append(result, stations.WaitingEntrySummary{
			EntryID:     e.ID,
			QueueNumber: e.QueueNumber,
			Token:       e.Token,
			PatientName: name,
			Priority:    string(e.Priority),
			IsEmergency: e.IsEmergency,
			Status:      string(e.Status),
			Position:    e.Position,
			JoinedAt:    e.JoinedAt,
		})
	}
	return result, nil
}

// transition is the shared skeleton for simple single-entry transitions:
// lock, validate against the lifecycle table, mutate, save, recalculate.
func (s *service) transition(
	ctx context.Context,
	entryID, actorID uuid.UUID,
	target Status,
	reason string,
	mutate func(entry *QueueEntry, tx Repository) error,
) (*EntryResponse, error) {
	station, entry, err := s.loadEntryAndStation(ctx, entryID)
	if err != nil {
		return nil, err
	}

	var from Status
	err = s.repo.Transact(ctx, func(tx Repository) error {
		locked, err := tx.GetByIDLocked(ctx, entryID)
		if err != nil {
			return err
		}
		if !locked.Status.CanTransitionTo(target) {
			return apperrors.Conflict("cannot move entry from %s to %s", locked.Status, target)
		}

		from = locked.Status
		if mutate != nil {
			if err := mutate(locked, tx); err != nil {
				return err
			}
		}
		locked.Status = target
		if err := tx.Save(ctx, locked); err != nil {
			return err
		}
		entry = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.RecalculatePositions(ctx, entry.StationID); err != nil {
		s.log.ErrorWithContext(ctx, "position recalculation failed", err,
			map[string]interface{}{"station_id": entry.StationID.String()})
	}

	s.log.LogEntryTransition(ctx, entry.ID.String(), string(from), string(target), actorID.String())
	s.publish(ctx, entry, from, target, actorID, reason)
	s.invalidateBoard(ctx, entry.StationID)

	return s.respond(ctx, entry, station)
}

func (s *service) resolvePriority(params AddParams, patient *patients.Patient) (triage.Priority, string) {
	if params.Priority != nil {
		return *params.Priority, params.PriorityReason
	}
	return triage.Classify(triage.Context{
		IsEmergency:   params.IsEmergency,
		Urgency:       params.Urgency,
		AgeYears:      patient.AgeYears(time.Now()),
		AgeKnown:      !patient.DateOfBirth.IsZero(),
		IsPregnant:    patient.IsPregnant,
		HasDisability: patient.HasDisability,
		IsVIP:         patient.IsVIP,
		IsStaffFamily: patient.IsStaffFamily,
	})
}

func (s *service) loadEntryAndStation(ctx context.Context, entryID uuid.UUID) (*stations.Station, *QueueEntry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}
	station, err := s.stationRepo.GetByID(ctx, entry.StationID)
	if err != nil {
		return nil, nil, err
	}
	return station, entry, nil
}

func (s *service) respond(ctx context.Context, entry *QueueEntry, station *stations.Station) (*EntryResponse, error) {
	// Reload to pick up the position assigned by the recalculation.
	fresh, err := s.repo.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	name := ""
	if fresh.Patient != nil {
		name = fresh.Patient.FullName()
	}
	resp := s.toResponse(fresh, station, name)
	return &resp, nil
}

func (s *service) toResponse(entry *QueueEntry, station *stations.Station, patientName string) EntryResponse {
	estimate := "now"
	if entry.Status == StatusWaiting || entry.Status == StatusOnHold {
		estimate = FormatWaitEstimate(entry.Position, station.AvgServiceMinutes)
	}
	return EntryResponse{
		ID:             entry.ID,
		QueueNumber:    entry.QueueNumber,
		Token:          entry.Token,
		PatientID:      entry.PatientID,
		PatientName:    patientName,
		StationID:      entry.StationID,
		Priority:       entry.Priority,
		PriorityReason: entry.PriorityReason,
		IsEmergency:    entry.IsEmergency,
		Status:         entry.Status,
		Position:       entry.Position,
		WaitEstimate:   estimate,
		SkipCount:      entry.SkipCount,
		JoinedAt:       entry.JoinedAt,
		CalledAt:       entry.CalledAt,
		ServedAt:       entry.ServedAt,
		CompletedAt:    entry.CompletedAt,
		Notes:          entry.Notes,
	}
}

func (s *service) historyFrom(entry *QueueEntry, waitMin, serviceMin int) *QueueHistoryRecord {
	completedAt := time.Now()
	if entry.CompletedAt != nil {
		completedAt = *entry.CompletedAt
	}
	return &QueueHistoryRecord{
		EntryID:          entry.ID,
		StationID:        entry.StationID,
		PatientID:        entry.PatientID,
		QueueNumber:      entry.QueueNumber,
		Priority:         entry.Priority,
		IsEmergency:      entry.IsEmergency,
		FinalStatus:      entry.Status,
		SkipCount:        entry.SkipCount,
		OriginalPosition: entry.OriginalPosition,
		JoinedAt:         entry.JoinedAt,
		CalledAt:         entry.CalledAt,
		ServedAt:         entry.ServedAt,
		CompletedAt:      completedAt,
		WaitMinutes:      waitMin,
		ServiceMinutes:   serviceMin,
		TotalMinutes:     waitMin + serviceMin,
	}
}

func (s *service) publish(ctx context.Context, entry *QueueEntry, from, to Status, actorID uuid.UUID, reason string) {
	s.publisher.PublishLifecycleEvent(ctx, LifecycleEvent{
		EntryID:     entry.ID,
		StationID:   entry.StationID,
		PatientID:   entry.PatientID,
		QueueNumber: entry.QueueNumber,
		From:        from,
		To:          to,
		ActorID:     actorID,
		Reason:      reason,
		OccurredAt:  time.Now(),
	})
}

func (s *service) invalidateBoard(ctx context.Context, stationID uuid.UUID) {
	if err := s.cache.Delete(ctx, boardCacheKey(stationID)); err != nil {
		s.log.ErrorWithContext(ctx, "board cache invalidation failed", err,
			map[string]interface{}{"station_id": stationID.String()})
	}
}

func boardCacheKey(stationID uuid.UUID) string {
	return constants.BuildBoardKey(stationID)
}
