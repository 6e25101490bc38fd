package analytics

import (
	"context"
	"time"

	"carequeue/internal/queue"
	"carequeue/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository aggregates over the immutable history table. It never touches
// queue_entries.
type Repository interface {
	CountByStatus(ctx context.Context, from, to time.Time, stationID *uuid.UUID) ([]StatusCount, error)
	CountByPriority(ctx context.Context, from, to time.Time, stationID *uuid.UUID) ([]PriorityCount, error)
	Averages(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (*DurationAverages, error)
	Totals(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (total, emergencies, skips int64, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) scoped(ctx context.Context, from, to time.Time, stationID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&queue.QueueHistoryRecord{}).
		Where("completed_at >= ? AND completed_at < ?", from, to)
	if stationID != nil {
		query = query.Where("station_id = ?", *stationID)
	}
	return query
}

func (r *repository) CountByStatus(ctx context.Context, from, to time.Time, stationID *uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.scoped(ctx, from, to, stationID).
		Select("final_status AS status, COUNT(*) AS count").
		Group("final_status").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate by status", err)
	}
	return rows, nil
}

func (r *repository) CountByPriority(ctx context.Context, from, to time.Time, stationID *uuid.UUID) ([]PriorityCount, error) {
	var rows []PriorityCount
	err := r.scoped(ctx, from, to, stationID).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate by priority", err)
	}
	return rows, nil
}

func (r *repository) Averages(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (*DurationAverages, error) {
	var avg DurationAverages
	err := r.scoped(ctx, from, to, stationID).
		Select(
			"COALESCE(AVG(wait_minutes), 0) AS avg_wait_minutes, " +
				"COALESCE(AVG(service_minutes), 0) AS avg_service_minutes, " +
				"COALESCE(AVG(total_minutes), 0) AS avg_total_minutes").
		Scan(&avg).Error
	if err != nil {
		return nil, apperrors.Internal("failed to compute averages", err)
	}
	return &avg, nil
}

func (r *repository) Totals(ctx context.Context, from, to time.Time, stationID *uuid.UUID) (int64, int64, int64, error) {
	var totals struct {
		Total       int64
		Emergencies int64
		Skips       int64
	}
	err := r.scoped(ctx, from, to, stationID).
		Select(
			"COUNT(*) AS total, " +
				"COUNT(*) FILTER (WHERE is_emergency) AS emergencies, " +
				"COALESCE(SUM(skip_count), 0) AS skips").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, 0, apperrors.Internal("failed to compute totals", err)
	}
	return totals.Total, totals.Emergencies, totals.Skips, nil
}
