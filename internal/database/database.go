// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"artlink/internal/config"
	"artlink/internal/middleware"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DefaultDatabaseName is used when DATABASE_NAME is not configured.
const DefaultDatabaseName = "artlink"

// CustomGormLogger integrates GORM with slog
type CustomGormLogger struct {
	logger *slog.Logger
	Config logger.Config
}

// NewGormLogger returns the slog-backed GORM logger used by every connection.
func NewGormLogger() *CustomGormLogger {
	return &CustomGormLogger{
		logger: middleware.Logger,
		Config: logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	}
}

// LogMode sets the logging level and returns a new interface instance.
func (l *CustomGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newlogger := *l
	newlogger.Config.LogLevel = level
	return &newlogger
}

// Info logs an informational message with context.
func (l *CustomGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Warn logs a warning message with context.
func (l *CustomGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *CustomGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.Config.LogLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs trace-level information including SQL queries and execution time.
func (l *CustomGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Config.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.Config.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "GORM query error",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
	case elapsed > l.Config.SlowThreshold && l.Config.SlowThreshold != 0 && l.Config.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "GORM slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	case l.Config.LogLevel >= logger.Info:
		l.logger.InfoContext(ctx, "GORM query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

// CollectionNamer names every table after its lowercased type name, so
// PurchaseRequest is stored in "purchaserequest".
type CollectionNamer struct {
	schema.NamingStrategy
}

// TableName implements schema.Namer.
func (CollectionNamer) TableName(name string) string {
	return strings.ToLower(name)
}

// GormConfig returns the gorm settings shared by production and test connections.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(),
		NamingStrategy: CollectionNamer{},
	}
}

// DatabaseName returns the configured database name or the default.
func DatabaseName(cfg *config.Config) string {
	if cfg.DatabaseName != "" {
		return cfg.DatabaseName
	}
	return DefaultDatabaseName
}

// Dialector builds the gorm dialector for cfg.DBDriver. DATABASE_URL wins over
// the individual DB_* settings.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	name := DatabaseName(cfg)

	switch cfg.DBDriver {
	case config.DriverPostgres, "":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			sslMode := cfg.DBSSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			dsn = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, name, sslMode,
			)
		}
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		dsn := strings.TrimPrefix(cfg.DatabaseURL, "mysql://")
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, name,
			)
		}
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		dsn := strings.TrimPrefix(cfg.DatabaseURL, "sqlite://")
		if dsn == "" {
			dsn = name + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// ConnectOptions controls what Connect does after the connection is opened.
type ConnectOptions struct {
	ApplySchema bool
}

// Connect opens a database connection using the provided configuration and
// returns the gorm DB instance. Outside production the schema is applied too.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Production applies the schema through cmd/migrate.
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: !cfg.IsProduction()})
}

// ConnectWithOptions opens a database connection and optionally migrates it.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	middleware.Logger.Info("Database connected successfully",
		slog.String("driver", db.Dialector.Name()),
		slog.String("database", DatabaseName(cfg)),
	)

	if opts.ApplySchema {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		middleware.Logger.Info("Database migration completed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Ping checks that the underlying connection is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ListCollections returns the sorted names of the existing collections.
func ListCollections(ctx context.Context, db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, errors.New("database not initialized")
	}
	tables, err := db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, err
	}
	out := tables[:0]
	for _, t := range tables {
		if strings.HasPrefix(t, "sqlite_") {
			continue
		}
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}
