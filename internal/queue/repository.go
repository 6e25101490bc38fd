package queue

import (
	"context"
	"errors"
	"time"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/stations"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists queue entries and history snapshots. Mutating flows
// run inside Transact so the read-validate-write of a lifecycle transition
// is one atomic unit; the row locks taken by the locked reads serialize
// concurrent operators touching the same station.
type Repository interface {
	// Transact runs fn against a transaction-bound copy of the repository.
	// Rolling back on error leaves the entry in its pre-transition state.
	Transact(ctx context.Context, fn func(txRepo Repository) error) error

	// LockStation takes the station row FOR UPDATE. The slot-holder and
	// capacity checks are predicate reads: when they pass there is no row
	// to lock, so under READ COMMITTED two concurrent transactions can
	// both pass them. Locking the station row first serializes every
	// station-scoped mutation.
	LockStation(ctx context.Context, stationID uuid.UUID) (*stations.Station, error)

	Create(ctx context.Context, entry *QueueEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*QueueEntry, error)
	GetByIDLocked(ctx context.Context, id uuid.UUID) (*QueueEntry, error)
	Save(ctx context.Context, entry *QueueEntry) error
	UpdatePositions(ctx context.Context, entries []QueueEntry) error

	// ActiveForStation returns WAITING/CALLED/RECALLED entries in ordering-law
	// order. The locked variant takes FOR UPDATE row locks.
	ActiveForStation(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error)
	ActiveForStationLocked(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error)

	CountActiveForStation(ctx context.Context, stationID uuid.UUID) (int64, error)
	FindActiveByPatientAndStation(ctx context.Context, patientID, stationID uuid.UUID) (*QueueEntry, error)
	FindServiceSlotHolder(ctx context.Context, stationID uuid.UUID) (*QueueEntry, error)
	ActiveForPatient(ctx context.Context, patientID uuid.UUID) ([]QueueEntry, error)
	BoardEntries(ctx context.Context, stationID uuid.UUID, nextN int) (serving []QueueEntry, upNext []QueueEntry, err error)

	CreateHistory(ctx context.Context, record *QueueHistoryRecord) error

	// Station counter maintenance shares the entry transaction.
	AdjustStationOccupancy(ctx context.Context, stationID uuid.UUID, delta int) error
	IncrementStationServed(ctx context.Context, stationID uuid.UUID) error
	SetStationLastToken(ctx context.Context, stationID uuid.UUID, token int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transact(ctx context.Context, fn func(txRepo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockStation(ctx context.Context, stationID uuid.UUID) (*stations.Station, error) {
	var station stations.Station
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&station, "id = ?", stationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("station %s not found", stationID)
		}
		return nil, apperrors.Internal("failed to lock station", err)
	}
	return &station, nil
}

func (r *repository) Create(ctx context.Context, entry *QueueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*QueueEntry, error) {
	var entry QueueEntry
	err := r.db.WithContext(ctx).Preload("Patient").First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("queue entry %s not found", id)
		}
		return nil, apperrors.Internal("failed to load queue entry", err)
	}
	return &entry, nil
}

func (r *repository) GetByIDLocked(ctx context.Context, id uuid.UUID) (*QueueEntry, error) {
	var entry QueueEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("queue entry %s not found", id)
		}
		return nil, apperrors.Internal("failed to load queue entry", err)
	}
	return &entry, nil
}

func (r *repository) Save(ctx context.Context, entry *QueueEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return apperrors.Internal("failed to save queue entry", err)
	}
	return nil
}

func (r *repository) UpdatePositions(ctx context.Context, entries []QueueEntry) error {
	for i := range entries {
		err := r.db.WithContext(ctx).Model(&QueueEntry{}).
			Where("id = ?", entries[i].ID).
			Update("position", entries[i].Position).Error
		if err != nil {
			return apperrors.Internal("failed to update positions", err)
		}
	}
	return nil
}

const activeStatuses = "status IN ('WAITING', 'CALLED', 'RECALLED')"

func (r *repository) ActiveForStation(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error) {
	return r.activeForStation(ctx, stationID, false)
}

func (r *repository) ActiveForStationLocked(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error) {
	return r.activeForStation(ctx, stationID, true)
}

func (r *repository) activeForStation(ctx context.Context, stationID uuid.UUID, locked bool) ([]QueueEntry, error) {
	var entries []QueueEntry

	query := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Where(activeStatuses).
		Order("is_emergency DESC, priority_rank ASC, joined_at ASC")
	if locked {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	} else {
		query = query.Preload("Patient")
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, apperrors.Internal("failed to load station waiting list", err)
	}
	return entries, nil
}

func (r *repository) CountActiveForStation(ctx context.Context, stationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&QueueEntry{}).
		Where("station_id = ?", stationID).
		Where("status IN ('WAITING', 'CALLED', 'RECALLED', 'ON_HOLD')").
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Internal("failed to count active entries", err)
	}
	return count, nil
}

func (r *repository) FindActiveByPatientAndStation(ctx context.Context, patientID, stationID uuid.UUID) (*QueueEntry, error) {
	var entry QueueEntry
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND station_id = ?", patientID, stationID).
		Where("status IN ('WAITING', 'CALLED', 'RECALLED', 'ON_HOLD')").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to look up active entry", err)
	}
	return &entry, nil
}

func (r *repository) FindServiceSlotHolder(ctx context.Context, stationID uuid.UUID) (*QueueEntry, error) {
	var entry QueueEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("station_id = ?", stationID).
		Where("status IN ('CALLED', 'SERVING')").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to check service slot", err)
	}
	return &entry, nil
}

func (r *repository) ActiveForPatient(ctx context.Context, patientID uuid.UUID) ([]QueueEntry, error) {
	var entries []QueueEntry
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Where("status IN ('WAITING', 'CALLED', 'SERVING', 'RECALLED', 'SKIPPED', 'ON_HOLD')").
		Order("joined_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Internal("failed to load patient entries", err)
	}
	return entries, nil
}

func (r *repository) BoardEntries(ctx context.Context, stationID uuid.UUID, nextN int) ([]QueueEntry, []QueueEntry, error) {
	var serving []QueueEntry
	err := r.db.WithContext(ctx).Preload("Patient").
		Where("station_id = ?", stationID).
		Where("status IN ('CALLED', 'SERVING')").
		Find(&serving).Error
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load board entries", err)
	}

	var upNext []QueueEntry
	err = r.db.WithContext(ctx).Preload("Patient").
		Where("station_id = ?", stationID).
		Where("status = 'WAITING'").
		Order("is_emergency DESC, priority_rank ASC, joined_at ASC").
		Limit(nextN).
		Find(&upNext).Error
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load board entries", err)
	}

	return serving, upNext, nil
}

func (r *repository) CreateHistory(ctx context.Context, record *QueueHistoryRecord) error {
	record.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.Internal("failed to write history record", err)
	}
	return nil
}

func (r *repository) AdjustStationOccupancy(ctx context.Context, stationID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&stations.Station{}).
		Where("id = ?", stationID).
		Update("current_occupancy", gorm.Expr("GREATEST(current_occupancy + ?, 0)", delta)).Error
}

func (r *repository) IncrementStationServed(ctx context.Context, stationID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&stations.Station{}).
		Where("id = ?", stationID).
		Update("served_today", gorm.Expr("served_today + 1")).Error
}

func (r *repository) SetStationLastToken(ctx context.Context, stationID uuid.UUID, token int) error {
	return r.db.WithContext(ctx).Model(&stations.Station{}).
		Where("id = ?", stationID).
		Update("last_token", token).Error
}
