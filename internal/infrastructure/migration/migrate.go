package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/teashop/backend/migrations"
	"go.uber.org/zap"
)

// Status is the schema version recorded in schema_migrations. Version 0 means
// nothing has been applied.
type Status struct {
	Version uint
	Dirty   bool
}

// Migrator runs the versioned postgres schema.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New opens a Migrator on db. With an empty dir the migrations compiled into
// the binary are used.
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	var m *migrate.Migrate
	if dir == "" {
		src, srcErr := iofs.New(migrations.FS, ".")
		if srcErr != nil {
			return nil, fmt.Errorf("embedded migrations: %w", srcErr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

// Embedded is the migrations directory compiled into the binary.
func Embedded() fs.FS {
	return migrations.FS
}

func (r *Migrator) Up() error {
	return r.apply("up", r.m.Up)
}

func (r *Migrator) Down() error {
	return r.apply("down", r.m.Down)
}

// Steps moves n versions, down when n is negative.
func (r *Migrator) Steps(n int) error {
	return r.apply(fmt.Sprintf("step %d", n), func() error { return r.m.Steps(n) })
}

func (r *Migrator) GoTo(version uint) error {
	return r.apply(fmt.Sprintf("goto %d", version), func() error { return r.m.Migrate(version) })
}

// apply runs one migrate operation and logs where the schema ended up.
// Nothing to do is not an error.
func (r *Migrator) apply(op string, run func() error) error {
	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		r.log.Info("Schema already up to date", zap.String("op", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	st, err := r.Status()
	if err != nil {
		return err
	}
	r.log.Info("Migration applied",
		zap.String("op", op),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
	)
	return nil
}

func (r *Migrator) Status() (Status, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force records version as applied and clean without running anything. Used
// to recover from a failed migration.
func (r *Migrator) Force(version int) error {
	r.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop deletes every object in the schema.
func (r *Migrator) Drop() error {
	r.log.Warn("Dropping every table in the schema")
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

func (r *Migrator) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}
