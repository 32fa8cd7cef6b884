package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"quizforge/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

// Direction selects which migration files run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func migrationDir(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "migrations/sqlite", nil
	case "pgx":
		return "migrations/postgres", nil
	case "oracle":
		return "migrations/oracle", nil
	}
	return "", fmt.Errorf("no migrations for driver %q", driver)
}

// RunMigrations applies the embedded schema for driver. SQLite and Postgres go
// through golang-migrate; Oracle has no golang-migrate driver so its files are
// executed statement by statement.
func RunMigrations(ctx context.Context, db *sql.DB, driver string, dir Direction) error {
	if dir != Up && dir != Down {
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if driver == "oracle" {
		return runOracleMigrations(ctx, db, dir)
	}
	return runLibraryMigrations(db, driver, dir)
}

func runLibraryMigrations(db *sql.DB, driver string, dir Direction) error {
	sub, err := migrationDir(driver)
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationFS, sub)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case "sqlite":
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case "pgx":
		target, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	}
	if err != nil {
		return fmt.Errorf("could not create %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if dir == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	logger.Get().Info("Migrations completed",
		zap.String("driver", driver),
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// oracleIgnorable lists errors that mean the object is already in the
// requested state: ORA-00955 name already used, ORA-00942 table missing.
var oracleIgnorable = map[Direction]string{
	Up:   "ORA-00955",
	Down: "ORA-00942",
}

func runOracleMigrations(ctx context.Context, db *sql.DB, dir Direction) error {
	files, err := migrationFiles("migrations/oracle", dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if strings.Contains(err.Error(), oracleIgnorable[dir]) {
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", path.Base(name)))
	}
	return nil
}

// migrationFiles lists *.up.sql ascending or *.down.sql descending.
func migrationFiles(root string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	suffix := "." + string(dir) + ".sql"
	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			out = append(out, path.Join(root, e.Name()))
		}
	}
	sort.Strings(out)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(out)))
	}
	return out, nil
}

// SplitStatements splits a script on semicolons that end a line. Oracle
// rejects multi-statement Exec calls and trailing semicolons.
func SplitStatements(script string) []string {
	var stmts []string
	var cur strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			cur.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmts = append(stmts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteString(trimmed)
		cur.WriteString(" ")
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
