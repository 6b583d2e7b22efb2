package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"TEASHOP_APP_NAME",
	"TEASHOP_APP_ENV",
	"TEASHOP_APP_PORT",
	"TEASHOP_DATABASE_DRIVER",
	"TEASHOP_DATABASE_URL",
	"TEASHOP_DATABASE_PASSWORD",
	"TEASHOP_DATABASE_MAX_OPEN_CONNS",
	"TEASHOP_DATABASE_MAX_IDLE_CONNS",
	"TEASHOP_JWT_SECRET",
	"TEASHOP_JWT_EXPIRATION",
	"TEASHOP_SCHEDULE_FIRST_DAY_OF_WEEK",
	"TEASHOP_SEED_SUPER_ADMIN_PASSWORD",
	"TEASHOP_HTTP_CORS_ALLOW_ORIGINS",
	"TEASHOP_MAINTENANCE_ENABLED",
	"TEASHOP_MAINTENANCE_DAILY_AT",
	"TEASHOP_MAINTENANCE_ACTIVITY_RETENTION_DAYS",
	"TEASHOP_TELEMETRY_ENABLED",
	"TEASHOP_TELEMETRY_SAMPLING_RATIO",
	"TEASHOP_TELEMETRY_SERVICE_NAME",
	"DATABASE_URL",
	"JWT_SECRET",
	"PORT",
}

// isolateEnv clears the managed variables for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "teashop-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "teashop.db", cfg.Database.DSN())
	assert.Equal(t, DevelopmentJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Sunday, cfg.Schedule.FirstDayOfWeek)
	assert.Equal(t, "weiwei", cfg.Seed.SuperAdminUsername)
	assert.Equal(t, "超級管理者", cfg.Seed.SuperAdminName)
	assert.Empty(t, cfg.Seed.SuperAdminPassword)
	assert.True(t, cfg.Seed.DefaultTimeSlots)
	assert.Equal(t, "zh-TW", cfg.I18n.DefaultLanguage)
	assert.Equal(t, int64(2<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxUploadSize)
	assert.True(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.DailyAt)
	assert.Equal(t, 3, cfg.Maintenance.RetryAttempts)
	assert.Equal(t, 180, cfg.Maintenance.ActivityRetentionDays)
}

func TestLoad_Maintenance(t *testing.T) {
	isolateEnv(t)
	os.Setenv("TEASHOP_MAINTENANCE_ENABLED", "false")
	os.Setenv("TEASHOP_MAINTENANCE_DAILY_AT", "30 4 * * *")
	os.Setenv("TEASHOP_MAINTENANCE_ACTIVITY_RETENTION_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "30 4 * * *", cfg.Maintenance.DailyAt)
	assert.Zero(t, cfg.Maintenance.ActivityRetentionDays, "zero keeps logs forever")
}

func TestLoad_Telemetry(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		isolateEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "teashop-backend", cfg.Telemetry.ServiceName)
		assert.True(t, cfg.Telemetry.Insecure)
		assert.True(t, cfg.Telemetry.DBTraceEnabled)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("overrides", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("TEASHOP_TELEMETRY_ENABLED", "true")
		os.Setenv("TEASHOP_TELEMETRY_SAMPLING_RATIO", "0")
		os.Setenv("TEASHOP_TELEMETRY_SERVICE_NAME", "teashop-staging")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Telemetry.Enabled)
		assert.Zero(t, cfg.Telemetry.SamplingRatio, "zero samples nothing")
		assert.Equal(t, "teashop-staging", cfg.Telemetry.ServiceName)
	})

	t.Run("ratio out of range", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("TEASHOP_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})
}

func TestLoad_PlainEnvironmentVariables(t *testing.T) {
	isolateEnv(t)
	os.Setenv("DATABASE_URL", "postgres://tea:pw@db:5432/tea?sslmode=disable")
	os.Setenv("JWT_SECRET", "plain-secret")
	os.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://tea:pw@db:5432/tea?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "plain-secret", cfg.JWT.Secret)
	assert.Equal(t, "9000", cfg.App.Port)
}

func TestLoad_PrefixedVariablesWin(t *testing.T) {
	isolateEnv(t)
	os.Setenv("PORT", "9000")
	os.Setenv("TEASHOP_APP_PORT", "9100")
	os.Setenv("TEASHOP_JWT_EXPIRATION", "2h")
	os.Setenv("TEASHOP_SCHEDULE_FIRST_DAY_OF_WEEK", "monday")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Monday, cfg.Schedule.FirstDayOfWeek)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("unknown weekday", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("TEASHOP_SCHEDULE_FIRST_DAY_OF_WEEK", "someday")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first_day_of_week")
	})

	t.Run("unknown driver", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("TEASHOP_DATABASE_DRIVER", "oracle")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("TEASHOP_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("TEASHOP_DATABASE_MAX_IDLE_CONNS", "20")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProduction := func() {
		os.Setenv("TEASHOP_APP_ENV", "production")
		os.Setenv("TEASHOP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("TEASHOP_DATABASE_URL", "postgres://tea:pw@db:5432/tea?sslmode=require")
		os.Setenv("TEASHOP_SEED_SUPER_ADMIN_PASSWORD", "a-real-password")
	}

	t.Run("valid production config", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("secret is required and never falls back", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Unsetenv("TEASHOP_JWT_SECRET")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("development secret rejected", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Setenv("TEASHOP_JWT_SECRET", DevelopmentJWTSecret)
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "development fallback")
	})

	t.Run("short secret rejected", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Setenv("TEASHOP_JWT_SECRET", "short")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("sqlite rejected", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Unsetenv("TEASHOP_DATABASE_URL")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})

	t.Run("example seed password rejected", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Setenv("TEASHOP_SEED_SUPER_ADMIN_PASSWORD", "920321")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "example password")
	})

	t.Run("wildcard CORS rejected", func(t *testing.T) {
		isolateEnv(t)
		setValidProduction()
		os.Setenv("TEASHOP_HTTP_CORS_ALLOW_ORIGINS", "*")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "tea", Password: "p@ss word", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://tea:p%40ss%20word@db:5432/shop?sslmode=disable", d.DSN())

	d.URL = "postgres://override"
	assert.Equal(t, "postgres://override", d.DSN())
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"":          time.Sunday,
		"Sunday":    time.Sunday,
		"mon":       time.Monday,
		" SATURDAY": time.Saturday,
	}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("funday")
	assert.Error(t, err)
}
