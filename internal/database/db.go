package database

import (
	"log"
	"os"
	"time"

	"agrisite/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the entity store and syncs the schema.
// DB_DSN selects MySQL; when it is empty we fall back to a local SQLite
// file (DB_PATH) so the app runs without any external service.
func Connect() {
	dsn := os.Getenv("DB_DSN")

	var err error
	if dsn == "" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "agrisite.db"
		}
		log.Printf("DB_DSN not set, using SQLite at %s", path)
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			// SQLite leaves FK enforcement off unless asked
			DB.Exec("PRAGMA foreign_keys = ON")
		}
	} else {
		// Wait for MySQL to come up before giving up
		for i := 0; i < 5; i++ {
			DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Info),
			})
			if err == nil {
				break
			}
			log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("Database connected and schema synced")
}

// Migrate syncs the entity schema. Split out so tests can run it against
// their own in-memory store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Region{},
		&models.LandHolder{},
		&models.LandParcel{},
		&models.IrrigationSystem{},
		&models.Crop{},
		&models.CroppingPattern{},
		&models.LandAnalysis{},
	)
}
