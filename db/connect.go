package db

import (
	"fmt"
	"time"

	"github.com/Fi44er/points_bot/config"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func ConnectDb(driver, url string, log *utils.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Error),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case config.DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: true,
		}), gormCfg)
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(url), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("✅ Database connection successfully (%s)", driver)

	log.Info("📦 Setting database connection pool...")
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA synchronous=NORMAL;")
		db.Exec("PRAGMA foreign_keys=ON;")
		db.Exec("PRAGMA busy_timeout=5000;")
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Settings{},
		&models.Transaction{},
		&models.Reward{},
		&models.Redemption{},
		&models.PromoCode{},
		&models.PointsHistory{},
	}
}

func Migrate(db *gorm.DB, trigger bool, log *utils.Logger) error {
	if !trigger {
		log.Info("⏭ Auto migration disabled")
		return nil
	}

	log.Info("📦 Migrating database...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Errorf("✖ Failed to migrate database: %v", err)
		return err
	}

	log.Info("✅ Database migrated successfully")
	return nil
}
