package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmarzin/gourmand/internal/config"
	"github.com/nmarzin/gourmand/internal/domain"
	"github.com/nmarzin/gourmand/internal/logger"
)

// InitRelationalDB opens the relational store and creates the food, nutrient
// and food_nutrient tables idempotently. A connection failure here is fatal
// for the run: nothing has been processed yet.
func InitRelationalDB(cfg *config.RelationalConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	logger.Info("Initializing relational store with driver %q", cfg.Driver)

	switch cfg.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	case "sqlite":
		db, err = initSQLite(cfg, gormConfig)
	default:
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to relational store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.Food{},
			&domain.Nutrient{},
			&domain.FoodNutrient{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate relational schema: %w", err)
		}
	}

	return db, nil
}

func initSQLite(cfg *config.RelationalConfig, gormConfig *gorm.Config) (*gorm.DB, error) {
	if cfg.Path != "" && cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return gorm.Open(sqlite.Open(cfg.DSN()), gormConfig)
}
