package repository

import (
	"gorm.io/gorm"
)

// Migrate creates the schedule tables. Production deployments run it once at
// startup; repository tests run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&bestTimeRow{}, &postRow{}, &clientRow{})
}
