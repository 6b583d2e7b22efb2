package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultSlowSQL   = 200 * time.Millisecond
	defaultMaxSQLLen = 2000
)

// GormLogger sends gorm output to zap, tagged with the request scope of the
// query's context.
type GormLogger struct {
	base         *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	maxSQLLen    int
	showNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a query is reported as slow.
// Zero disables slow query reports.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = threshold }
}

// WithNotFoundErrors reports gorm.ErrRecordNotFound as a SQL error
func WithNotFoundErrors() GormLoggerOption {
	return func(l *GormLogger) { l.showNotFound = true }
}

// WithMaxSQLLength cuts logged statements after n bytes. Bulk inserts from
// the item import can otherwise flood the log.
func WithMaxSQLLength(n int) GormLoggerOption {
	return func(l *GormLogger) { l.maxSQLLen = n }
}

func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		base:      zapLogger.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:     level,
		slow:      defaultSlowSQL,
		maxSQLLen: defaultMaxSQLLen,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.scoped(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.scoped(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.scoped(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	notFound := errors.Is(err, gormlogger.ErrRecordNotFound)

	switch {
	case err != nil && l.level >= gormlogger.Error && (!notFound || l.showNotFound):
		l.scoped(ctx).Error("SQL error", append(l.queryFields(fc, elapsed), zap.Error(err))...)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		l.scoped(ctx).Warn("Slow SQL", append(l.queryFields(fc, elapsed), zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		l.scoped(ctx).Debug("SQL", l.queryFields(fc, elapsed)...)
	}
}

func (l *GormLogger) scoped(ctx context.Context) *zap.Logger {
	scope := ScopeOf(ctx)
	fields := make([]zap.Field, 0, 3)
	if scope.RequestID != "" {
		fields = append(fields, zap.String("request_id", scope.RequestID))
	}
	if scope.StaffID != "" {
		fields = append(fields, zap.String("user_id", scope.StaffID))
	}
	if len(fields) == 0 {
		return l.base
	}
	return l.base.With(fields...)
}

func (l *GormLogger) queryFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	if l.maxSQLLen > 0 && len(sql) > l.maxSQLLen {
		sql = sql[:l.maxSQLLen] + "..."
	}
	return []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
}

// MapGormLogLevel maps the application log level to a gorm level. Only debug
// logs every statement.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
