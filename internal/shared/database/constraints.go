package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// At most one active entry per (patient, station). Enforced in the store
	// so concurrent intakes cannot slip a duplicate past the service check.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_active_entry_per_patient_station
		ON queue_entries (patient_id, station_id)
		WHERE status IN ('WAITING', 'CALLED', 'RECALLED', 'ON_HOLD');
	`).Error
	if err != nil {
		return err
	}

	// Index backing the ordering law scan per station.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_queue_entries_station_ordering
		ON queue_entries (station_id, is_emergency DESC, priority_rank ASC, joined_at ASC);
	`).Error
	if err != nil {
		return err
	}

	// Index for history range scans used by analytics.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_queue_history_completed_at
		ON queue_history_records (completed_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
