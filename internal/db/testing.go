package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func applyMigrations(connString string) {
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		panic("TEST_MIGRATIONS_PATH must be set.")
	}
	m, err := migrate.New("file://"+migrationsPath, connString)
	if err != nil {
		panic("Could not connect to DB for applying migrations.")
	}
	err = m.Up()
	if !errors.Is(err, migrate.ErrNoChange) && err != nil {
		panic(fmt.Sprintf("Could not apply DB migrations %v.", err))
	}
}

// CreateTestPool connects to the database named by TEST_POSTGRESQL_URL,
// applying migrations first. Tests that need a real database are skipped
// when the variable is not set.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set, skipping database tests.")
	}
	applyMigrations(connString)

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("could not connect to the database: %v", err)
	}

	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `TRUNCATE "user" CASCADE`)
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
