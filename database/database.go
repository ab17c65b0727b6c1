// Package database wires up the PostGIS-backed connection pool the
// station selector (package stationstore) reads from. Schema migration
// and the station ETL importer are out of scope for the planning core
// (spec §1) — this package only owns enough schema to let the planner
// run end-to-end against a real database in tests.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Initialize creates and configures the database connection with PostGIS extensions.
func Initialize(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable PostGIS extensions
	if err := enablePostGISExtensions(db); err != nil {
		return nil, fmt.Errorf("failed to enable PostGIS extensions: %w", err)
	}

	return db, nil
}

// enablePostGISExtensions enables required PostGIS extensions
func enablePostGISExtensions(db *sql.DB) error {
	extensions := []string{
		"CREATE EXTENSION IF NOT EXISTS postgis;",
		"CREATE EXTENSION IF NOT EXISTS postgis_topology;",
	}

	for _, ext := range extensions {
		if _, err := db.Exec(ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// Migrate runs the station-importer-owned schema migrations (out of
// scope for this core per spec §1; kept so the planner and the ETL
// importer share one migration history).
func Migrate(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CreateTables creates the fuel_stations table with its spatial and
// price indexes (spec §3). Used directly by tests that don't run the
// migrate.v4 file-source chain.
func CreateTables(db *sql.DB) error {
	statements := []string{
		createFuelStationsTable(),
		createFuelStationsIndexes(),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func createFuelStationsTable() string {
	return `
	CREATE TABLE IF NOT EXISTS fuel_stations (
		opis_id INT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address TEXT,
		city VARCHAR(255),
		state VARCHAR(2),
		retail_price NUMERIC(10,3) NOT NULL CHECK (retail_price >= 0),
		location GEOMETRY(POINT, 4326) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`
}

func createFuelStationsIndexes() string {
	return `
	CREATE INDEX IF NOT EXISTS idx_fuel_stations_location
		ON fuel_stations USING GIST (location);

	CREATE INDEX IF NOT EXISTS idx_fuel_stations_retail_price
		ON fuel_stations (retail_price);

	CREATE OR REPLACE FUNCTION fuel_stations_set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DROP TRIGGER IF EXISTS trg_fuel_stations_updated_at ON fuel_stations;
	CREATE TRIGGER trg_fuel_stations_updated_at
		BEFORE UPDATE ON fuel_stations
		FOR EACH ROW EXECUTE FUNCTION fuel_stations_set_updated_at();
	`
}
