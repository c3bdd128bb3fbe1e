package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const overlapConstraint = "appointments_no_overlap"

func Open(cfg config.DatabaseConfig, log *zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    cfg.Driver == "postgres",
		TranslateError: true,
		Logger:         newQueryLogger(log, gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer; shared-cache in-memory databases vanish with the last conn
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("Database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Employee{},
		&models.Service{},
		&models.Client{},
		&models.Appointment{},
		&models.ScheduleBlock{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return fmt.Errorf("enable btree_gist: %w", err)
		}

		if err := db.Exec(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + overlapConstraint + `') THEN
					ALTER TABLE appointments ADD CONSTRAINT ` + overlapConstraint + `
						EXCLUDE USING gist (
							employee_id WITH =,
							tstzrange(start_time, end_time, '[)') WITH &&
						)
						WHERE (status IN ('pending', 'confirmed'));
				END IF;
			END $$;
		`).Error; err != nil {
			return fmt.Errorf("add overlap constraint: %w", err)
		}
	}

	return db.Exec(
		`UPDATE tenants SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		timezone.DefaultTimezone,
	).Error
}
