package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source
)

// RunMigrations applies pending schema migrations at loand startup.
// sourceURL is a migrate source URL ("file://" + MIGRATIONS_DIR); an
// already-current schema is not an error.
func RunMigrations(dsn, sourceURL string) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}

	err = m.Up()
	srcErr, dbErr := m.Close()
	switch {
	case err != nil && !errors.Is(err, migrate.ErrNoChange):
		return fmt.Errorf("apply migrations: %w", err)
	case srcErr != nil:
		return fmt.Errorf("close migration source: %w", srcErr)
	case dbErr != nil:
		return fmt.Errorf("close migration connection: %w", dbErr)
	}
	return nil
}
