package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/config"
	"github.com/lyc2760008/EduHub-sub006/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	// TranslateError เพื่อให้เช็ก gorm.ErrDuplicatedKey ได้ตอน insert ชน unique index
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate แยกออกมาเพื่อให้เทสต์เรียกกับ sqlite in-memory ได้
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Parent{},
		&models.Student{},
		&models.Tutor{},
		&models.GuardianLink{},
		&models.Session{},
		&models.SessionRoster{},
		&models.AbsenceRequest{},
		&models.Attendance{},
		&models.AuditLog{},
	)
}
