package queue

import (
	"context"
	"testing"
	"time"

	"carequeue/internal/patients"
	"carequeue/internal/shared/apperrors"
	"carequeue/internal/shared/config"
	"carequeue/internal/stations"
	"carequeue/internal/triage"
	"carequeue/pkg/logger"

	"github.com/google/uuid"
)

// fakeQueueRepo is an in-memory Repository that records the order of the
// calls a transaction makes, so tests can assert that the station row lock
// is taken before the checks it protects.
type fakeQueueRepo struct {
	ops     []string
	station *stations.Station
	entries []QueueEntry
	holder  *QueueEntry
	count   int64
}

func (f *fakeQueueRepo) Transact(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeQueueRepo) LockStation(ctx context.Context, stationID uuid.UUID) (*stations.Station, error) {
	f.ops = append(f.ops, "lock_station")
	if f.station == nil || f.station.ID != stationID {
		return nil, apperrors.NotFound("station %s not found", stationID)
	}
	st := *f.station
	return &st, nil
}

func (f *fakeQueueRepo) Create(ctx context.Context, entry *QueueEntry) error {
	f.ops = append(f.ops, "create")
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeQueueRepo) GetByID(ctx context.Context, id uuid.UUID) (*QueueEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, apperrors.NotFound("queue entry %s not found", id)
}

func (f *fakeQueueRepo) GetByIDLocked(ctx context.Context, id uuid.UUID) (*QueueEntry, error) {
	f.ops = append(f.ops, "get_entry_locked")
	return f.GetByID(ctx, id)
}

func (f *fakeQueueRepo) Save(ctx context.Context, entry *QueueEntry) error {
	f.ops = append(f.ops, "save")
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeQueueRepo) UpdatePositions(ctx context.Context, entries []QueueEntry) error {
	f.ops = append(f.ops, "update_positions")
	for i := range entries {
		for j := range f.entries {
			if f.entries[j].ID == entries[i].ID {
				f.entries[j].Position = entries[i].Position
			}
		}
	}
	return nil
}

func (f *fakeQueueRepo) active(stationID uuid.UUID) []QueueEntry {
	var out []QueueEntry
	for i := range f.entries {
		e := f.entries[i]
		if e.StationID != stationID {
			continue
		}
		switch e.Status {
		case StatusWaiting, StatusCalled, StatusRecalled:
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeQueueRepo) ActiveForStation(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error) {
	return f.active(stationID), nil
}

func (f *fakeQueueRepo) ActiveForStationLocked(ctx context.Context, stationID uuid.UUID) ([]QueueEntry, error) {
	f.ops = append(f.ops, "active_locked")
	return f.active(stationID), nil
}

func (f *fakeQueueRepo) CountActiveForStation(ctx context.Context, stationID uuid.UUID) (int64, error) {
	f.ops = append(f.ops, "count_active")
	return f.count, nil
}

func (f *fakeQueueRepo) FindActiveByPatientAndStation(ctx context.Context, patientID, stationID uuid.UUID) (*QueueEntry, error) {
	f.ops = append(f.ops, "find_duplicate")
	return nil, nil
}

func (f *fakeQueueRepo) FindServiceSlotHolder(ctx context.Context, stationID uuid.UUID) (*QueueEntry, error) {
	f.ops = append(f.ops, "find_slot_holder")
	if f.holder == nil {
		return nil, nil
	}
	h := *f.holder
	return &h, nil
}

func (f *fakeQueueRepo) ActiveForPatient(ctx context.Context, patientID uuid.UUID) ([]QueueEntry, error) {
	return nil, nil
}

func (f *fakeQueueRepo) BoardEntries(ctx context.Context, stationID uuid.UUID, nextN int) ([]QueueEntry, []QueueEntry, error) {
	return nil, nil, nil
}

func (f *fakeQueueRepo) CreateHistory(ctx context.Context, record *QueueHistoryRecord) error {
	f.ops = append(f.ops, "create_history")
	return nil
}

func (f *fakeQueueRepo) AdjustStationOccupancy(ctx context.Context, stationID uuid.UUID, delta int) error {
	f.ops = append(f.ops, "adjust_occupancy")
	return nil
}

func (f *fakeQueueRepo) IncrementStationServed(ctx context.Context, stationID uuid.UUID) error {
	f.ops = append(f.ops, "increment_served")
	return nil
}

func (f *fakeQueueRepo) SetStationLastToken(ctx context.Context, stationID uuid.UUID, token int) error {
	f.ops = append(f.ops, "set_last_token")
	return nil
}

type fakeStationRepo struct {
	station *stations.Station
}

func (f *fakeStationRepo) Create(ctx context.Context, station *stations.Station) error { return nil }

func (f *fakeStationRepo) GetByID(ctx context.Context, id uuid.UUID) (*stations.Station, error) {
	st := *f.station
	return &st, nil
}

func (f *fakeStationRepo) GetByCode(ctx context.Context, code string) (*stations.Station, error) {
	return nil, apperrors.NotFound("station with code %s not found", code)
}

func (f *fakeStationRepo) List(ctx context.Context, filters stations.Filters) ([]stations.Station, error) {
	return nil, nil
}

func (f *fakeStationRepo) FindByKindAndDepartment(ctx context.Context, kind stations.Kind, department string) (*stations.Station, error) {
	st := *f.station
	return &st, nil
}

func (f *fakeStationRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeStationRepo) ResetDailyCounters(ctx context.Context, at time.Time) (int64, error) {
	return 0, nil
}

type fakePatientRepo struct {
	patient *patients.Patient
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patients.Patient, error) {
	p := *f.patient
	return &p, nil
}

func (f *fakePatientRepo) GetByMRN(ctx context.Context, mrn string) (*patients.Patient, error) {
	p := *f.patient
	return &p, nil
}

func (f *fakePatientRepo) Create(ctx context.Context, patient *patients.Patient) error {
	return nil
}

type fakeAllocator struct {
	token int
}

func (f *fakeAllocator) NextToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	f.token++
	return f.token, nil
}

func (f *fakeAllocator) NextQueueNumber(ctx context.Context, scope string) (string, error) {
	return "Q-20250114-0001", nil
}

func (f *fakeAllocator) CurrentToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	return f.token, nil
}

func (f *fakeAllocator) ResetStationToken(ctx context.Context, stationID uuid.UUID) error {
	return nil
}

type fakeCache struct{}

func (fakeCache) Get(ctx context.Context, key string, dest interface{}) error { return nil }

func (fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (fakeCache) Delete(ctx context.Context, key string) error { return nil }

func (fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	_, err := fetcher()
	return err
}

func (fakeCache) Ping(ctx context.Context) error { return nil }

func testStation() *stations.Station {
	return &stations.Station{
		ID:                uuid.New(),
		Name:              "Consultation",
		Code:              "CON",
		Kind:              stations.KindConsultation,
		MaxCapacity:       50,
		AvgServiceMinutes: 10,
		IsActive:          true,
		AcceptingNew:      true,
	}
}

func testPatient() *patients.Patient {
	return &patients.Patient{
		ID:          uuid.New(),
		MRN:         "MRN-100001",
		FirstName:   "Asha",
		LastName:    "Verma",
		DateOfBirth: time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{
			MaxSkipCount:             3,
			DefaultAvgServiceMinutes: 10,
			DisplayBoardSize:         5,
			TokenPadWidth:            3,
		},
	}
}

func newTestService(repo *fakeQueueRepo, station *stations.Station, patient *patients.Patient) Service {
	return NewService(
		repo,
		&fakeStationRepo{station: station},
		&fakePatientRepo{patient: patient},
		&fakeAllocator{},
		fakeCache{},
		NoopPublisher{},
		testConfig(),
		logger.New(),
	)
}

func opIndex(t *testing.T, ops []string, name string) int {
	t.Helper()
	for i, op := range ops {
		if op == name {
			return i
		}
	}
	t.Fatalf("operation %q was never recorded (ops: %v)", name, ops)
	return -1
}

func TestCallNextRejectsWhenSlotAlreadyHeld(t *testing.T) {
	station := testStation()
	repo := &fakeQueueRepo{
		station: station,
		holder: &QueueEntry{
			ID:          uuid.New(),
			StationID:   station.ID,
			QueueNumber: "Q-20250114-0007",
			Status:      StatusCalled,
		},
	}
	svc := newTestService(repo, station, testPatient())

	_, err := svc.CallNext(context.Background(), station.ID, uuid.New())
	if err == nil {
		t.Fatal("CallNext must fail while another entry holds the service slot")
	}
	if !apperrors.Is(err, apperrors.KindConflict) {
		t.Errorf("CallNext error kind = %v, want %v", apperrors.KindOf(err), apperrors.KindConflict)
	}
}

func TestCallNextTakesStationLockBeforeSlotCheck(t *testing.T) {
	station := testStation()
	patient := testPatient()
	repo := &fakeQueueRepo{station: station}
	repo.entries = []QueueEntry{{
		ID:           uuid.New(),
		QueueNumber:  "Q-20250114-0001",
		PatientID:    patient.ID,
		StationID:    station.ID,
		Priority:     triage.PriorityNormal,
		PriorityRank: triage.PriorityNormal.Rank(),
		Status:       StatusWaiting,
		JoinedAt:     time.Now().Add(-5 * time.Minute),
		Position:     1,
	}}
	svc := newTestService(repo, station, patient)

	resp, err := svc.CallNext(context.Background(), station.ID, uuid.New())
	if err != nil {
		t.Fatalf("CallNext() unexpected error: %v", err)
	}
	if resp.Status != StatusCalled {
		t.Errorf("CallNext() status = %s, want %s", resp.Status, StatusCalled)
	}

	// The slot-holder query finds nothing to lock when the slot is free,
	// so the station row lock must come first to serialize callers.
	if lock, check := opIndex(t, repo.ops, "lock_station"), opIndex(t, repo.ops, "find_slot_holder"); lock > check {
		t.Errorf("station lock recorded at %d, after slot check at %d (ops: %v)", lock, check, repo.ops)
	}
}

func TestAddToQueueChecksCapacityUnderStationLock(t *testing.T) {
	station := testStation()
	station.MaxCapacity = 2
	repo := &fakeQueueRepo{station: station, count: 2}
	svc := newTestService(repo, station, testPatient())

	_, err := svc.AddToQueue(context.Background(), AddParams{
		PatientID: uuid.New(),
		StationID: station.ID,
		ActorID:   uuid.New(),
	})
	if err == nil {
		t.Fatal("AddToQueue must fail when the station is at capacity")
	}
	if !apperrors.Is(err, apperrors.KindCapacity) {
		t.Errorf("AddToQueue error kind = %v, want %v", apperrors.KindOf(err), apperrors.KindCapacity)
	}

	// Two intakes at capacity-1 would both pass an unguarded count; the
	// count is only safe once the station row is held.
	if lock, count := opIndex(t, repo.ops, "lock_station"), opIndex(t, repo.ops, "count_active"); lock > count {
		t.Errorf("station lock recorded at %d, after capacity count at %d (ops: %v)", lock, count, repo.ops)
	}
}

func TestAddToQueueUpdatesStationCounters(t *testing.T) {
	station := testStation()
	repo := &fakeQueueRepo{station: station}
	svc := newTestService(repo, station, testPatient())

	resp, err := svc.AddToQueue(context.Background(), AddParams{
		PatientID: uuid.New(),
		StationID: station.ID,
		ActorID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("AddToQueue() unexpected error: %v", err)
	}
	if resp.Status != StatusWaiting {
		t.Errorf("AddToQueue() status = %s, want %s", resp.Status, StatusWaiting)
	}

	opIndex(t, repo.ops, "set_last_token")
	opIndex(t, repo.ops, "adjust_occupancy")
}

func TestAddToQueuePrioritizesInfant(t *testing.T) {
	station := testStation()
	patient := testPatient()
	// Six months old: AgeYears is 0 but the date of birth is known.
	patient.DateOfBirth = time.Now().AddDate(0, -6, 0)
	repo := &fakeQueueRepo{station: station}
	svc := newTestService(repo, station, patient)

	resp, err := svc.AddToQueue(context.Background(), AddParams{
		PatientID: patient.ID,
		StationID: station.ID,
		ActorID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("AddToQueue() unexpected error: %v", err)
	}
	if resp.Priority != triage.PriorityPriority {
		t.Errorf("AddToQueue() priority = %s, want %s", resp.Priority, triage.PriorityPriority)
	}
	if resp.PriorityReason != "Young child" {
		t.Errorf("AddToQueue() priority reason = %q, want %q", resp.PriorityReason, "Young child")
	}
}
