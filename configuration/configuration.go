package configuration

import (
	"ayursutra/models"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConfigDB opens the postgres connection and migrates the schema.
func ConfigDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// surface unique violations as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables, including the doctor_patient join table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Doctor{}, "Patients", &models.DoctorPatient{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Patient{}, "Doctors", &models.DoctorPatient{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Doctor{},
		&models.DoctorPatient{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
