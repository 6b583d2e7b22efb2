package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	_ "github.com/lib/pq"
	identityapp "github.com/teashop/backend/internal/application/identity"
	scheduleapp "github.com/teashop/backend/internal/application/schedule"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/config"
	"github.com/teashop/backend/internal/infrastructure/event"
	"github.com/teashop/backend/internal/infrastructure/logger"
	"github.com/teashop/backend/internal/infrastructure/migration"
	"github.com/teashop/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

// schemaCommand runs against an open postgres Migrator.
type schemaCommand struct {
	usage string
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var schemaCommands = map[string]schemaCommand{
	"up":   {"up", func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() }},
	"down": {"down", func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() }},
	"step": {"step <n>", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	}},
	"goto": {"goto <version>", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative: %d", v)
		}
		return m.GoTo(uint(v))
	}},
	"version": {"version", func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		st, err := m.Status()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
		return nil
	}},
	"force": {"force <version>", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(v)
	}},
	"drop": {"drop -confirm", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
			return errors.New("drop needs -confirm")
		}
		return m.Drop()
	}},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing number argument")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[0])
	}
	return n, nil
}

func main() {
	dir := flag.String("path", "", "migrations directory (default: migrations compiled into the binary)")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	command, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      *level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if *dir != "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			log.Fatal("Bad migrations path", zap.Error(err))
		}
		*dir = abs
	}
	log = log.With(zap.String("command", command))

	if err := dispatch(log, command, *dir, rest); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func dispatch(log *zap.Logger, command, dir string, args []string) error {
	// these two only touch migration files
	switch command {
	case "create":
		return runCreate(log, dir, args)
	case "list":
		return runList(dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if command == "seed" {
		return runSeed(log, cfg)
	}

	sc, ok := schemaCommands[command]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("%s needs postgres; the %s driver is migrated by the server on startup", sc.usage, cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Closing migrator", zap.Error(err))
		}
	}()
	return sc.run(m, log, args)
}

func runCreate(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrate create <name> [description]")
	}
	if dir == "" {
		dir = defaultMigrationsDir
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func runList(dir string) error {
	fsys := migration.Embedded()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	names, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// runSeed creates the super admin and the default time slots. sqlite schemas
// are auto-migrated first; postgres must already be migrated.
func runSeed(log *zap.Logger, cfg *config.Config) error {
	ctx := context.Background()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.Driver != "postgres" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}

	users := persistence.NewGormUserRepository(db.DB)
	admin, err := identityapp.NewSeeder(users, cfg.Seed, log).EnsureSuperAdmin(ctx)
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	if admin != nil {
		log.Info("Super admin ready", zap.String("username", admin.Username))
	}

	schedules := scheduleapp.NewService(
		persistence.NewGormWeeklyScheduleRepository(db.DB),
		persistence.NewGormTimeSlotRepository(db.DB),
		identity.NewUserDirectory(users),
		event.NewInMemoryEventBus(log),
		cfg.Schedule.FirstDayOfWeek,
		log,
	)
	created, err := schedules.EnsureDefaultTimeSlots(ctx)
	if err != nil {
		return fmt.Errorf("seed time slots: %w", err)
	}
	log.Info("Time slots ready", zap.Int("created", created))
	return nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Tea shop schema tool

Usage: migrate [-path dir] [-log-level level] <command> [args]

Schema commands (postgres):
  up                    apply every pending migration
  down                  roll every migration back
  step <n>              move n versions, down when negative
  goto <version>        migrate to a version
  version               print the applied version
  force <version>       mark a version applied after a failed run
  drop -confirm         drop every object in the schema

File commands:
  create <name> [desc]  write a new up/down pair
  list                  list the known migrations

Data:
  seed                  create the super admin and the default time slots

Configuration comes from config.toml and TEASHOP_* environment variables;
DATABASE_URL overrides the database section.
`)
}
