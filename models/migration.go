package models

import (
	"log"

	"github.com/shopopti/pricing_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Product{},
		&PricingRule{}, &RepricingJob{}, &PriceHistoryEntry{},
		&Integration{}, &ChannelMapping{}, &PriceSyncLogEntry{},
		&SyncQueueEntry{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
