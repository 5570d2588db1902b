package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"voltgrid/internal/models"
)

// StationFilter narrows charging station listings. Nil fields are ignored.
type StationFilter struct {
	Name            *string
	DeviceID        *string
	IPAddress       *string
	FirmwareVersion *string
	TypeID          *string
	Limit           int
	Offset          int
}

// StationRepository handles CRUD for the charging_stations table. Reads
// join the owning type so responses can embed it in place of the raw
// foreign key.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

const stationJoinQuery = `
	SELECT s.id, s.name, s.device_id, s.ip_address, s.firmware_version,
	       s.charging_station_type_id, s.created_at, s.updated_at,
	       t.id, t.name, t.plug_count, t.efficiency, t.current_type, t.created_at, t.updated_at
	FROM charging_stations s
	JOIN charging_station_types t ON t.id = s.charging_station_type_id
`

// Create inserts a new charging station. The id must be set by the caller.
func (r *StationRepository) Create(ctx context.Context, s *models.ChargingStation) error {
	const query = `
		INSERT INTO charging_stations (id, name, device_id, ip_address, firmware_version, charging_station_type_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.Name, s.DeviceID, s.IPAddress, s.FirmwareVersion, s.TypeID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// List returns stations matching the filter with their type embedded.
func (r *StationRepository) List(ctx context.Context, filter StationFilter) ([]models.ChargingStation, error) {
	query := stationJoinQuery
	var conds []string
	var args []any

	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.Name != nil {
		add("s.name = $%d", *filter.Name)
	}
	if filter.DeviceID != nil {
		add("s.device_id = $%d", *filter.DeviceID)
	}
	if filter.IPAddress != nil {
		add("s.ip_address = $%d", *filter.IPAddress)
	}
	if filter.FirmwareVersion != nil {
		add("s.firmware_version = $%d", *filter.FirmwareVersion)
	}
	if filter.TypeID != nil {
		add("s.charging_station_type_id = $%d", *filter.TypeID)
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

	var stations []models.ChargingStation
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetByID fetches a station with its type embedded. Malformed ids are
// reported as not found.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*models.ChargingStation, error) {
	row := r.db.QueryRowContext(ctx, stationJoinQuery+" WHERE s.id = $1", id)
	s, err := scanStation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepr(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

var stationUpdateColumns = []string{"device_id", "ip_address", "firmware_version", "charging_station_type_id"}

// Update applies a partial update. Returns ErrNotFound when no row matched.
func (r *StationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return execPartialUpdate(ctx, r.db, "charging_stations", stationUpdateColumns, id, fields)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*models.ChargingStation, error) {
	var s models.ChargingStation
	var t models.ChargingStationType
	err := row.Scan(
		&s.ID, &s.Name, &s.DeviceID, &s.IPAddress, &s.FirmwareVersion,
		&s.TypeID, &s.CreatedAt, &s.UpdatedAt,
		&t.ID, &t.Name, &t.PlugCount, &t.Efficiency, &t.CurrentType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Type = &t
	return &s, nil
}
