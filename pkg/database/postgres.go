package database

import (
	"fmt"
	"log"
	"time"

	"mediavault/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Failed to get generic database object: %v", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established")
}

func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Migrate creates or updates the schema for the given models.
func Migrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	return DB.AutoMigrate(models...)
}

func TableExists(name string) (bool, error) {
	if DB == nil {
		return false, fmt.Errorf("database not connected")
	}
	return DB.Migrator().HasTable(name), nil
}

func GetTableCount(name string) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not connected")
	}
	var count int64
	err := DB.Table(name).Count(&count).Error
	return count, err
}

// DropTables removes the given tables; used by the reset command.
func DropTables(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	return DB.Migrator().DropTable(models...)
}

// TruncateTables empties the given tables without dropping them.
func TruncateTables(names ...string) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	for _, name := range names {
		if err := DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", name)).Error; err != nil {
			return err
		}
	}
	return nil
}
