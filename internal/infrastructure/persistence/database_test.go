package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/telemetry"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockDatabase wraps a sqlmock connection in a postgres-dialect Database.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return &Database{DB: db, pool: conn}, mock
}

// newTestDB opens a private in-memory sqlite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}
	db, err := NewDatabase(cfg, zap.NewNop(), gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "teashop.db?_foreign_keys=on", SQLiteDSN("teashop.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
	assert.Equal(t, "a.db?_fk=1", SQLiteDSN("a.db?_fk=1"))
}

func TestNewDatabase_SQLite(t *testing.T) {
	db := newTestDB(t)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.False(t, isPostgres(db))

	for _, table := range []string{"users", "time_slots", "weekly_schedules", "schedule_assignments",
		"suppliers", "inventory_items", "stock_records", "tasks", "training_modules",
		"service_situations", "service_responses", "announcements", "activity_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewDatabase_RejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, nil, gormlogger.Silent)
	assert.Error(t, err)

	_, err = NewDatabase(&config.DatabaseConfig{Driver: "sqlite"}, nil, gormlogger.Silent)
	assert.Error(t, err)
}

func TestNewDatabase_WithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	cfg := &config.DatabaseConfig{Driver: "sqlite", URL: "file:tracing?mode=memory&cache=shared"}

	db, err := NewDatabase(cfg, nil, gormlogger.Silent,
		WithTracing(telemetry.DBConfig{Enabled: true, SlowQueryThreshold: time.Second}, tp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var one int
	require.NoError(t, db.DB.WithContext(context.Background()).Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.NotEmpty(t, recorder.Ended(), "queries run inside spans")

	t.Run("disabled tracing adds nothing", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		cfg := &config.DatabaseConfig{Driver: "sqlite", URL: "file:untraced?mode=memory&cache=shared"}

		db, err := NewDatabase(cfg, nil, gormlogger.Silent, WithTracing(telemetry.DBConfig{}, tp))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		require.NoError(t, db.DB.Exec("SELECT 1").Error)
		assert.Empty(t, recorder.Ended())
	})
}

func TestDatabase_PoolOperations(t *testing.T) {
	db, mock := newMockDatabase(t)
	assert.True(t, isPostgres(db.DB))

	mock.ExpectPing()
	require.NoError(t, db.PingContext(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	assert.Error(t, db.PingContext(context.Background()))

	assert.GreaterOrEqual(t, db.Stats().OpenConnections, 0)

	mock.ExpectClose()
	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	configurePool(conn, &config.DatabaseConfig{Driver: "sqlite", MaxOpenConns: 25})
	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)

	configurePool(conn, &config.DatabaseConfig{Driver: "postgres", MaxOpenConns: 25, MaxIdleConns: 5})
	assert.Equal(t, 25, conn.Stats().MaxOpenConnections)
}
