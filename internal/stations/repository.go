package stations

import (
	"context"
	"errors"
	"time"

	"carequeue/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filters narrows station listings.
type Filters struct {
	Kind            string `form:"kind" binding:"omitempty"`
	Department      string `form:"department"`
	ActiveOnly      bool   `form:"active_only"`
	AssignedStaffID string `form:"assigned_staff_id" binding:"omitempty,uuid"`
}

// Repository persists the station catalog and its daily counters.
type Repository interface {
	Create(ctx context.Context, station *Station) error
	GetByID(ctx context.Context, id uuid.UUID) (*Station, error)
	GetByCode(ctx context.Context, code string) (*Station, error)
	List(ctx context.Context, filters Filters) ([]Station, error)
	FindByKindAndDepartment(ctx context.Context, kind Kind, department string) (*Station, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	// ResetDailyCounters zeroes last_token and served_today on every
	// active station. Per-entry counter bumps live on the queue
	// repository so they share the entry transaction.
	ResetDailyCounters(ctx context.Context, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, station *Station) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Station, error) {
	var station Station
	err := r.db.WithContext(ctx).First(&station, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("station %s not found", id)
		}
		return nil, apperrors.Internal("failed to load station", err)
	}
	return &station, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Station, error) {
	var station Station
	err := r.db.WithContext(ctx).First(&station, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("station with code %s not found", code)
		}
		return nil, apperrors.Internal("failed to load station", err)
	}
	return &station, nil
}

func (r *repository) List(ctx context.Context, filters Filters) ([]Station, error) {
	var result []Station

	query := r.db.WithContext(ctx).Model(&Station{})

	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.Department != "" {
		query = query.Where("department = ?", filters.Department)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = true")
	}
	if filters.AssignedStaffID != "" {
		query = query.Where("assigned_staff_id = ?", filters.AssignedStaffID)
	}

	if err := query.Order("department ASC, name ASC").Find(&result).Error; err != nil {
		return nil, apperrors.Internal("failed to list stations", err)
	}
	return result, nil
}

func (r *repository) FindByKindAndDepartment(ctx context.Context, kind Kind, department string) (*Station, error) {
	var station Station
	query := r.db.WithContext(ctx).Where("kind = ? AND is_active = true", kind)
	if department != "" {
		query = query.Where("department = ?", department)
	}
	err := query.Order("created_at ASC").First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no active %s station in department %q", kind, department)
		}
		return nil, apperrors.Internal("failed to look up station", err)
	}
	return &station, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Station{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return apperrors.Internal("failed to update station", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("station %s not found", id)
	}
	return nil
}

func (r *repository) ResetDailyCounters(ctx context.Context, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Station{}).
		Where("is_active = true").
		Updates(map[string]interface{}{
			"last_token":      0,
			"served_today":    0,
			"tokens_reset_at": at,
		})
	if result.Error != nil {
		return 0, apperrors.Internal("failed to reset daily counters", result.Error)
	}
	return result.RowsAffected, nil
}
