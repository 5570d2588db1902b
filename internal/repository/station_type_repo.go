package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"voltgrid/internal/models"
)

// TypeFilter narrows charging station type listings. Nil fields are
// ignored. When both MinEfficiency and MaxEfficiency are set they form an
// inclusive range that overrides the plain Efficiency equality filter.
type TypeFilter struct {
	Name          *string
	PlugCount     *int
	Efficiency    *float64
	MinEfficiency *float64
	MaxEfficiency *float64
	CurrentType   *string
	Limit         int
	Offset        int
}

// StationTypeRepository handles CRUD for the charging_station_types table.
type StationTypeRepository struct {
	db *sql.DB
}

// NewStationTypeRepository returns repository instance.
func NewStationTypeRepository(db *sql.DB) *StationTypeRepository {
	return &StationTypeRepository{db: db}
}

const typeColumns = "id, name, plug_count, efficiency, current_type, created_at, updated_at"

// Create inserts a new charging station type. The id must be set by the caller.
func (r *StationTypeRepository) Create(ctx context.Context, t *models.ChargingStationType) error {
	const query = `
		INSERT INTO charging_station_types (id, name, plug_count, efficiency, current_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.Name, t.PlugCount, t.Efficiency, t.CurrentType).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// List returns types matching the filter in store-default order.
func (r *StationTypeRepository) List(ctx context.Context, filter TypeFilter) ([]models.ChargingStationType, error) {
	query := "SELECT " + typeColumns + " FROM charging_station_types"
	var conds []string
	var args []any

	add := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.Name != nil {
		add("name = $%d", *filter.Name)
	}
	if filter.PlugCount != nil {
		add("plug_count = $%d", *filter.PlugCount)
	}
	if filter.MinEfficiency != nil && filter.MaxEfficiency != nil {
		args = append(args, *filter.MinEfficiency, *filter.MaxEfficiency)
		conds = append(conds, fmt.Sprintf("efficiency BETWEEN $%d AND $%d", len(args)-1, len(args)))
	} else if filter.Efficiency != nil {
		add("efficiency = $%d", *filter.Efficiency)
	}
	if filter.CurrentType != nil {
		add("current_type = $%d", *filter.CurrentType)
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

	var types []models.ChargingStationType
	for rows.Next() {
		var t models.ChargingStationType
		if err := rows.Scan(&t.ID, &t.Name, &t.PlugCount, &t.Efficiency, &t.CurrentType, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}

// GetByID fetches a type by primary key. Malformed ids are reported as
// not found, never as a store failure.
func (r *StationTypeRepository) GetByID(ctx context.Context, id string) (*models.ChargingStationType, error) {
	query := "SELECT " + typeColumns + " FROM charging_station_types WHERE id = $1"
	var t models.ChargingStationType
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.PlugCount, &t.Efficiency, &t.CurrentType, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepr(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// typeUpdateColumns fixes the SET clause order for partial updates.
var typeUpdateColumns = []string{"name", "plug_count", "efficiency", "current_type"}

// Update applies a partial update. Returns ErrNotFound when no row matched.
func (r *StationTypeRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return execPartialUpdate(ctx, r.db, "charging_station_types", typeUpdateColumns, id, fields)
}

// pagination appends LIMIT/OFFSET clauses for positive values.
func pagination(args *[]any, limit, offset int) string {
	var clause string
	if limit > 0 {
		*args = append(*args, limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(*args))
	}
	if offset > 0 {
		*args = append(*args, offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	}
	return clause
}

// execPartialUpdate builds an UPDATE statement from the provided fields,
// keeping column order stable. updated_at is always touched.
func execPartialUpdate(ctx context.Context, db *sql.DB, table string, columns []string, id string, fields map[string]any) error {
	sets := []string{"updated_at = NOW()"}
	var args []any
	for _, col := range columns {
		value, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepr(err) {
			return ErrNotFound
		}
		return mapConstraintError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
