package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"carequeue/internal/patients"
	"carequeue/internal/shared/config"
	"carequeue/internal/shared/database"
	"carequeue/internal/stations"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CareQueue Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"queue_history_records",
		"queue_entries",
		"patients",
		"stations",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds stations and patients. Queue entries are created through
// the API so that tokens come from the Redis allocator.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedStations(); err != nil {
		return fmt.Errorf("failed to seed stations: %w", err)
	}

	if err := s.SeedPatients(); err != nil {
		return fmt.Errorf("failed to seed patients: %w", err)
	}

	// Fresh Redis state: stale token counters would collide with the
	// truncated tables.
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedStations creates one station per service kind plus a second
// consultation room, mirroring a small outpatient department.
func (s *Seeder) SeedStations() error {
	fmt.Println("  🏥 Seeding stations...")

	stationsData := []struct {
		name              string
		code              string
		kind              stations.Kind
		department        string
		maxCapacity       int
		avgServiceMinutes int
	}{
		{"General OPD Room 1", "CON", stations.KindConsultation, "General Medicine", 60, 12},
		{"General OPD Room 2", "CON2", stations.KindConsultation, "General Medicine", 60, 12},
		{"Radiology Counter", "RAD", stations.KindDiagnostic, "Radiology", 40, 20},
		{"Billing Window 1", "BIL", stations.KindBilling, "Front Office", 100, 4},
		{"Main Pharmacy", "PHA", stations.KindPharmacy, "Pharmacy", 80, 5},
		{"Minor Procedures", "PRO", stations.KindProcedure, "General Surgery", 20, 25},
		{"Sample Collection", "LAB", stations.KindSampleCollection, "Laboratory", 50, 6},
		{"Report Pickup Desk", "REP", stations.KindReportPickup, "Laboratory", 100, 3},
	}

	for _, data := range stationsData {
		station := stations.Station{
			ID:                uuid.New(),
			Name:              data.name,
			Code:              data.code,
			Kind:              data.kind,
			Department:        data.department,
			MaxCapacity:       data.maxCapacity,
			AvgServiceMinutes: data.avgServiceMinutes,
			IsActive:          true,
			AcceptingNew:      true,
			TokensResetAt:     time.Now(),
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&station).Error; err != nil {
			return fmt.Errorf("failed to create station %s: %w", station.Code, err)
		}

		fmt.Printf("    ✅ Created station: %s (%s)\n", station.Name, station.Code)
	}

	return nil
}

// SeedPatients creates a spread of patients covering every triage path:
// a senior, a young child, a pregnant patient, a patient with a
// disability, a VIP, a staff family member, and plain walk-ins.
func (s *Seeder) SeedPatients() error {
	fmt.Println("  👤 Seeding patients...")

	patientsData := []struct {
		mrn           string
		firstName     string
		lastName      string
		birthYear     int
		phone         string
		isPregnant    bool
		hasDisability bool
		isVIP         bool
		isStaffFamily bool
	}{
		{"MRN-100001", "Ramesh", "Iyer", 1952, "+91-9800000001", false, false, false, false},
		{"MRN-100002", "Aarav", "Patel", 2022, "+91-9800000002", false, false, false, false},
		{"MRN-100003", "Sneha", "Kulkarni", 1994, "+91-9800000003", true, false, false, false},
		{"MRN-100004", "Vikram", "Rao", 1980, "+91-9800000004", false, true, false, false},
		{"MRN-100005", "Ananya", "Mehta", 1975, "+91-9800000005", false, false, true, false},
		{"MRN-100006", "Kiran", "Nair", 1988, "+91-9800000006", false, false, false, true},
		{"MRN-100007", "Farhan", "Shaikh", 1990, "+91-9800000007", false, false, false, false},
		{"MRN-100008", "Divya", "Singh", 1999, "+91-9800000008", false, false, false, false},
	}

	for _, data := range patientsData {
		patient := patients.Patient{
			ID:            uuid.New(),
			MRN:           data.mrn,
			FirstName:     data.firstName,
			LastName:      data.lastName,
			DateOfBirth:   time.Date(data.birthYear, time.March, 15, 0, 0, 0, 0, time.UTC),
			Phone:         data.phone,
			IsPregnant:    data.isPregnant,
			HasDisability: data.hasDisability,
			IsVIP:         data.isVIP,
			IsStaffFamily: data.isStaffFamily,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&patient).Error; err != nil {
			return fmt.Errorf("failed to create patient %s: %w", data.mrn, err)
		}

		fmt.Printf("    ✅ Created patient: %s %s (%s)\n", patient.FirstName, patient.LastName, patient.MRN)
	}

	return nil
}
