package stations

import (
	"context"
	"testing"
	"time"

	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/config"
	"carequeue/pkg/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	created *Station
	findErr error
}

func (f *fakeRepo) Create(ctx context.Context, station *Station) error {
	if station.ID == uuid.Nil {
		station.ID = uuid.New()
	}
	f.created = station
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Station, error) {
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, apperrors.NotFound("station %s not found", id)
}

func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*Station, error) {
	return nil, apperrors.NotFound("station with code %s not found", code)
}

func (f *fakeRepo) List(ctx context.Context, filters Filters) ([]Station, error) {
	return nil, nil
}

func (f *fakeRepo) FindByKindAndDepartment(ctx context.Context, kind Kind, department string) (*Station, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return nil, apperrors.NotFound("no active %s station in department %q", kind, department)
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeRepo) ResetDailyCounters(ctx context.Context, at time.Time) (int64, error) {
	return 0, nil
}

type fakeAllocator struct{}

func (fakeAllocator) NextToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	return 1, nil
}

func (fakeAllocator) NextQueueNumber(ctx context.Context, scope string) (string, error) {
	return "Q-20250114-0001", nil
}

func (fakeAllocator) CurrentToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	return 0, nil
}

func (fakeAllocator) ResetStationToken(ctx context.Context, stationID uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{
			DefaultAvgServiceMinutes: 15,
		},
	}
}

func TestCreateStationDefaultsFromConfig(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeAllocator{}, testConfig(), logger.New())

	resp, err := svc.CreateStation(context.Background(), CreateStationRequest{
		Name:       "Cardiology Consultation",
		Code:       "CAR",
		Kind:       "CONSULTATION",
		Department: "Cardiology",
	})
	if err != nil {
		t.Fatalf("CreateStation() unexpected error: %v", err)
	}

	if resp.AvgServiceMinutes != 15 {
		t.Errorf("AvgServiceMinutes = %d, want the configured default 15", resp.AvgServiceMinutes)
	}
	if resp.MaxCapacity != 50 {
		t.Errorf("MaxCapacity = %d, want 50", resp.MaxCapacity)
	}
}

func TestCreateStationKeepsExplicitServiceTime(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeAllocator{}, testConfig(), logger.New())

	resp, err := svc.CreateStation(context.Background(), CreateStationRequest{
		Name:              "Radiology",
		Code:              "RAD",
		Kind:              "DIAGNOSTIC",
		Department:        "Radiology",
		AvgServiceMinutes: 25,
	})
	if err != nil {
		t.Fatalf("CreateStation() unexpected error: %v", err)
	}
	if resp.AvgServiceMinutes != 25 {
		t.Errorf("AvgServiceMinutes = %d, want the requested 25", resp.AvgServiceMinutes)
	}
}

func TestEnsureStationUsesConfiguredServiceTime(t *testing.T) {
	repo := &fakeRepo{findErr: apperrors.NotFound("no station")}
	svc := NewService(repo, fakeAllocator{}, testConfig(), logger.New())

	station, err := svc.EnsureStation(context.Background(), KindPharmacy, "Outpatient")
	if err != nil {
		t.Fatalf("EnsureStation() unexpected error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("EnsureStation must auto-provision a station when none exists")
	}
	if station.AvgServiceMinutes != 15 {
		t.Errorf("AvgServiceMinutes = %d, want the configured default 15", station.AvgServiceMinutes)
	}
	if station.Kind != KindPharmacy {
		t.Errorf("Kind = %s, want %s", station.Kind, KindPharmacy)
	}
}
