package postgres

import (
	"fmt"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/bundlerepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/orderrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/patternrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/scanrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/templaterepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/trackingrepo"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres/warehousingrepo"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectionConfig holds the database settings.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the key/value connection string understood by pgx.
func (c ConnectionConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// Open connects with dialect error translation enabled, which the scan
// repository relies on to detect duplicate keys.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Config is the gorm configuration shared by Open and the integration tests.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Models lists every table of the service in creation order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&bundlerepo.BundleDTO{},
		&scanrepo.ScanRecordDTO{},
		&trackingrepo.TrackingDTO{},
		&templaterepo.TemplateDTO{},
		&warehousingrepo.EntryDTO{},
		&patternrepo.PatternDTO{},
	}
}

// Migrate creates or alters the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
