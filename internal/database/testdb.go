package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// InitTest öffnet eine In-Memory-SQLite-Datenbank für Tests und setzt das
// globale DB-Handle. Jeder Test bekommt eine frische, eigene Datenbank.
func InitTest(t *testing.T) *gorm.DB {
	t.Helper()

	// Benannte Memory-DB mit cache=shared, sonst sieht jede Pool-Verbindung
	// eine eigene leere Datenbank.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_fk=1", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Test-Datenbank konnte nicht geöffnet werden: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("AutoMigrate fehlgeschlagen: %v", err)
	}

	prev := DB
	DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		DB = prev
	})

	return db
}
