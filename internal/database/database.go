package database

import (
	"karavan-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase, Render).
// TranslateError maps driver constraint violations to gorm.ErrDuplicatedKey so
// services can answer duplicate-key races with the conflict taxonomy.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for the ledger tables plus the referenced
// User/Vendor entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Container{},
		&models.ContentItem{},
		&models.Transfer{},
		&models.SaleItem{},
		&models.ExpenseItem{},
		&models.Document{},
	)
}
