package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/infrastructure/persistence/models"
	"github.com/teashop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the gorm handle plus the pool behind it.
type Database struct {
	DB   *gorm.DB
	pool *sql.DB
}

type dialectorFunc func(cfg *config.DatabaseConfig) (gorm.Dialector, error)

var dialectors = map[string]dialectorFunc{
	"postgres": func(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
		return postgres.Open(cfg.DSN()), nil
	},
	"sqlite": func(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.URL == "" {
			return nil, errors.New("database.url is required for sqlite")
		}
		return sqlite.Open(SQLiteDSN(cfg.URL)), nil
	},
}

// Option customizes NewDatabase
type Option func(*dbOptions)

type dbOptions struct {
	tracing *telemetry.DBConfig
	tracer  trace.TracerProvider
}

// WithTracing emits a span per query through tp.
func WithTracing(cfg telemetry.DBConfig, tp trace.TracerProvider) Option {
	return func(o *dbOptions) {
		o.tracing = &cfg
		o.tracer = tp
	}
}

var dbSystems = map[string]string{
	"postgres": "postgresql",
	"sqlite":   "sqlite",
}

// NewDatabase opens and pings the configured database. SQL is logged through
// log at level; a nil log silences gorm.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger, level gormlogger.LogLevel, opts ...Option) (*Database, error) {
	var o dbOptions
	for _, opt := range opts {
		opt(&o)
	}

	open, ok := dialectors[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	dialector, err := open(cfg)
	if err != nil {
		return nil, err
	}

	var sqlLog gormlogger.Interface = gormlogger.Discard
	if log != nil {
		sqlLog = logger.NewGormLogger(log, level)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 sqlLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver == "postgres",
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	configurePool(pool, cfg)

	if o.tracing != nil {
		tracing := *o.tracing
		if tracing.System == "" {
			tracing.System = dbSystems[cfg.Driver]
		}
		tlog := log
		if tlog == nil {
			tlog = zap.NewNop()
		}
		if err := telemetry.InstrumentDB(db, tracing, o.tracer, tlog); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("database tracing: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return &Database{DB: db, pool: pool}, nil
}

func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == "sqlite" {
		// sqlite has one writer, and in-memory databases live on one connection
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// SQLiteDSN turns on foreign key enforcement unless the DSN already sets it.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// AutoMigrate syncs every table with the persistence models. Deployed
// databases use the SQL migrations instead.
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (d *Database) PingContext(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

// Stats reports the connection pool for the health probe.
func (d *Database) Stats() sql.DBStats {
	return d.pool.Stats()
}

func (d *Database) Close() error {
	return d.pool.Close()
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
