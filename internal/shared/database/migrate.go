package database

import (
	"carequeue/internal/patients"
	"carequeue/internal/queue"
	"carequeue/internal/stations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&stations.Station{},
		&patients.Patient{},
		&queue.QueueEntry{},
		&queue.QueueHistoryRecord{},
	)
}
