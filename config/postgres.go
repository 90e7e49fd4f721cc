package config

import (
	"errors"
	"time"

	"github.com/yoockh/jobportal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgres(cfg *Config) (*gorm.DB, error) {
	if cfg.PostgresURI == "" {
		return nil, errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// MigrateVectorStore enables pgvector and creates the profile vector table.
func MigrateVectorStore(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	// Rows left by concurrent syncs before user_id became unique would block
	// the index; keep the newest per user.
	if db.Migrator().HasTable(&models.ProfileVector{}) {
		if err := db.Exec(dedupeVectorsSQL).Error; err != nil {
			return err
		}
	}
	return db.AutoMigrate(&models.ProfileVector{})
}

const dedupeVectorsSQL = `DELETE FROM profile_vectors a
USING profile_vectors b
WHERE a.user_id = b.user_id
  AND (a.created_at, a.id) < (b.created_at, b.id)`
