package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"voltgrid/internal/models"
)

// ConnectorFilter narrows connector listings. Nil fields are ignored.
type ConnectorFilter struct {
	Name      *string
	Priority  *bool
	StationID *string
	Limit     int
	Offset    int
}

// ConnectorRepository handles CRUD for the connectors table plus the
// count and priority-existence queries the write invariants rely on.
type ConnectorRepository struct {
	db *sql.DB
}

// NewConnectorRepository returns repository instance.
func NewConnectorRepository(db *sql.DB) *ConnectorRepository {
	return &ConnectorRepository{db: db}
}

const connectorJoinQuery = `
	SELECT c.id, c.name, c.priority, c.charging_station_id, c.created_at, c.updated_at,
	       s.id, s.name, s.device_id, s.ip_address, s.firmware_version,
	       s.charging_station_type_id, s.created_at, s.updated_at
	FROM connectors c
	JOIN charging_stations s ON s.id = c.charging_station_id
`

// Create inserts a new connector. The id must be set by the caller.
func (r *ConnectorRepository) Create(ctx context.Context, c *models.Connector) error {
	const query = `
		INSERT INTO connectors (id, name, priority, charging_station_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Priority, c.StationID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// List returns connectors matching the filter with their station embedded.
func (r *ConnectorRepository) List(ctx context.Context, filter ConnectorFilter) ([]models.Connector, error) {
	query := connectorJoinQuery
	var conds []string
	var args []any

	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.Name != nil {
		add("c.name = $%d", *filter.Name)
	}
	if filter.Priority != nil {
		add("c.priority = $%d", *filter.Priority)
	}
	if filter.StationID != nil {
		add("c.charging_station_id = $%d", *filter.StationID)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += pagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	defer rows.Close()

	var connectors []models.Connector
	for rows.Next() {
		c, err := scanConnector(rows)
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return connectors, nil
}

// GetByID fetches a connector with its station embedded. Malformed ids
// are reported as not found.
func (r *ConnectorRepository) GetByID(ctx context.Context, id string) (*models.Connector, error) {
	row := r.db.QueryRowContext(ctx, connectorJoinQuery+" WHERE c.id = $1", id)
	c, err := scanConnector(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepr(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

var connectorUpdateColumns = []string{"priority", "charging_station_id"}

// Update applies a partial update. Returns ErrNotFound when no row matched.
func (r *ConnectorRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return execPartialUpdate(ctx, r.db, "connectors", connectorUpdateColumns, id, fields)
}

// CountByStation returns the number of connectors attached to a station.
func (r *ConnectorRepository) CountByStation(ctx context.Context, stationID string) (int, error) {
	const query = `SELECT COUNT(*) FROM connectors WHERE charging_station_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, stationID).Scan(&count); err != nil {
		return 0, mapConstraintError(err)
	}
	return count, nil
}

// HasOtherPriority reports whether the station already has a priority
// connector other than excludeID. Pass an empty excludeID on create.
func (r *ConnectorRepository) HasOtherPriority(ctx context.Context, stationID, excludeID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM connectors
			WHERE charging_station_id = $1 AND priority AND id::text <> $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, stationID, excludeID).Scan(&exists); err != nil {
		return false, mapConstraintError(err)
	}
	return exists, nil
}

func scanConnector(row rowScanner) (*models.Connector, error) {
	var c models.Connector
	var s models.ChargingStation
	err := row.Scan(
		&c.ID, &c.Name, &c.Priority, &c.StationID, &c.CreatedAt, &c.UpdatedAt,
		&s.ID, &s.Name, &s.DeviceID, &s.IPAddress, &s.FirmwareVersion,
		&s.TypeID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Station = &s
	return &c, nil
}
