package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS charging_station_types (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		plug_count INTEGER NOT NULL CHECK (plug_count >= 0),
		efficiency DOUBLE PRECISION NOT NULL,
		current_type TEXT NOT NULL CHECK (current_type IN ('AC', 'DC')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS charging_stations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		device_id UUID NOT NULL,
		ip_address TEXT NOT NULL,
		firmware_version TEXT NOT NULL,
		charging_station_type_id UUID NOT NULL REFERENCES charging_station_types (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS connectors (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		priority BOOLEAN NOT NULL DEFAULT FALSE,
		charging_station_id UUID NOT NULL REFERENCES charging_stations (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// Closes the priority check-then-insert race at the storage level.
	`CREATE UNIQUE INDEX IF NOT EXISTS connectors_one_priority_per_station
		ON connectors (charging_station_id) WHERE priority`,
}

// defaultStationTypes are seeded on first run only.
var defaultStationTypes = []struct {
	name        string
	plugCount   int
	efficiency  float64
	currentType string
}{
	{"Type 1", 2, 0.9, "AC"},
	{"Type 2", 4, 0.8, "DC"},
	{"Type 3", 3, 0.7, "AC"},
	{"Type 4", 4, 0.6, "DC"},
	{"Type 5", 5, 0.88, "AC"},
}

// InitSchema creates the tables if needed and seeds the default charging
// station types. Seeding is skipped when the types table is already
// populated, so the whole call is idempotent.
func InitSchema(ctx context.Context, database *sql.DB, logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_station_types`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		logger.Info("database tables already populated, skipping seed")
		return nil
	}

	const insert = `
		INSERT INTO charging_station_types (name, plug_count, efficiency, current_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`
	for _, t := range defaultStationTypes {
		if _, err := database.ExecContext(ctx, insert, t.name, t.plugCount, t.efficiency, t.currentType); err != nil {
			return err
		}
	}

	logger.Info("database tables created and default charging station types seeded")
	return nil
}
