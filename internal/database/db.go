package database

import (
	"log"

	"crm-backend/internal/config"
	"crm-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Verbindung zur Datenbank fehlgeschlagen: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate fehlgeschlagen: %v", err)
	}

	log.Println("Datenbankverbindung steht. Migration abgeschlossen.")
}

// Migrate legt das Schema an bzw. zieht es nach.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginCode{},
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Contact{},
		&models.AuditLog{},
	)
}
