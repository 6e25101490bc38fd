package patients

import (
	"context"
	"errors"

	"carequeue/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides read access to the patient projection.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Create(ctx context.Context, patient *Patient) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var patient Patient
	err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("patient %s not found", id)
		}
		return nil, apperrors.Internal("failed to load patient", err)
	}
	return &patient, nil
}

func (r *repository) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	var patient Patient
	err := r.db.WithContext(ctx).First(&patient, "mrn = ?", mrn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("patient with MRN %s not found", mrn)
		}
		return nil, apperrors.Internal("failed to load patient", err)
	}
	return &patient, nil
}

func (r *repository) Create(ctx context.Context, patient *Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return apperrors.Internal("failed to create patient", err)
	}
	return nil
}
