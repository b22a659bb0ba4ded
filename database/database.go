package database

import (
	"fmt"
	"strings"
	"time"

	"skilloria/config"
	"skilloria/models"
	"skilloria/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the
// handle in Database.
func ConnectDb() error {
	cfg := config.AppConfig

	db, err := Open(cfg.DBDriver, DSN(cfg), logLevel(cfg.DBLogLevel))
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := RunMigrations(db); err != nil {
		return err
	}

	Database = DbInstance{Db: db}
	return nil
}

// Open opens a gorm handle for one of the supported drivers.
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

// DSN builds the connection string for the configured driver unless DB_DSN
// is set explicitly.
func DSN(cfg *config.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	switch cfg.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite", "sqlite3":
		return cfg.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	}
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	utils.Log.Info("running migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.CompletedLesson{},
		&models.VerificationToken{},
		&models.OutboundEmail{},
		&models.LoginTracking{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := backfillTagText(db); err != nil {
		return fmt.Errorf("backfill course tags: %w", err)
	}

	utils.Log.Info("migrations completed")
	return nil
}

// backfillTagText fills the tag search column for courses created before it
// existed.
func backfillTagText(db *gorm.DB) error {
	var courses []models.Course
	if err := db.Where("tag_text IS NULL OR tag_text = ''").Find(&courses).Error; err != nil {
		return err
	}
	for _, course := range courses {
		text := models.SearchableTags(course.Tags)
		if text == "" {
			continue
		}
		if err := db.Model(&models.Course{}).Where("id = ?", course.ID).UpdateColumn("tag_text", text).Error; err != nil {
			return err
		}
	}
	return nil
}
