package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltgrid/internal/models"
)

const (
	testConnectorID = "7f4a7a44-3f6e-4ec6-9d9b-9f0d2d9cbe21"
	testStationID   = "0a7e74de-8d5c-4f58-b4a1-6f3a2a2e1d42"
)

func newConnectorRepoMock(t *testing.T) (*ConnectorRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConnectorRepository(db), mock
}

func connectorJoinRows(c models.Connector, s models.ChargingStation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "priority", "charging_station_id", "created_at", "updated_at",
		"id", "name", "device_id", "ip_address", "firmware_version",
		"charging_station_type_id", "created_at", "updated_at",
	}).AddRow(
		c.ID, c.Name, c.Priority, c.StationID, c.CreatedAt, c.UpdatedAt,
		s.ID, s.Name, s.DeviceID, s.IPAddress, s.FirmwareVersion,
		s.TypeID, s.CreatedAt, s.UpdatedAt,
	)
}

func TestConnectorRepoCreate(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO connectors`).
		WithArgs(testConnectorID, "Connector 1", true, testStationID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	connector := &models.Connector{
		ID:        testConnectorID,
		Name:      "Connector 1",
		Priority:  true,
		StationID: testStationID,
	}
	require.NoError(t, repo.Create(context.Background(), connector))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectorRepoCreateMissingStation(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	mock.ExpectQuery(`INSERT INTO connectors`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "connectors_charging_station_id_fkey"})

	err := repo.Create(context.Background(), &models.Connector{ID: testConnectorID, StationID: testStationID})
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestConnectorRepoCreatePriorityIndexViolation(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	// The partial unique index closes the priority race at the store level;
	// the violated constraint name must survive the mapping.
	mock.ExpectQuery(`INSERT INTO connectors`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "connectors_one_priority_per_station"})

	err := repo.Create(context.Background(), &models.Connector{ID: testConnectorID, Priority: true, StationID: testStationID})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.Equal(t, "connectors_one_priority_per_station", ConstraintName(err))
}

func TestConnectorRepoGetByIDEmbedsStation(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	connector := models.Connector{ID: testConnectorID, Name: "Connector 1", Priority: true, StationID: testStationID}
	station := models.ChargingStation{ID: testStationID, Name: "Station A", DeviceID: testTypeID, IPAddress: "10.0.0.5", FirmwareVersion: "1.2.3", TypeID: testTypeID}

	mock.ExpectQuery(`JOIN charging_stations s ON s.id = c.charging_station_id\s+WHERE c.id = \$1`).
		WithArgs(testConnectorID).
		WillReturnRows(connectorJoinRows(connector, station))

	got, err := repo.GetByID(context.Background(), testConnectorID)
	require.NoError(t, err)
	assert.Equal(t, testStationID, got.StationID)
	require.NotNil(t, got.Station)
	assert.Equal(t, "Station A", got.Station.Name)
}

func TestConnectorRepoListFilters(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)
	priority := true
	stationID := testStationID

	mock.ExpectQuery(`WHERE c.priority = \$1 AND c.charging_station_id = \$2`).
		WithArgs(priority, stationID).
		WillReturnRows(connectorJoinRows(
			models.Connector{ID: testConnectorID, StationID: testStationID},
			models.ChargingStation{ID: testStationID},
		))

	connectors, err := repo.List(context.Background(), ConnectorFilter{Priority: &priority, StationID: &stationID})
	require.NoError(t, err)
	require.Len(t, connectors, 1)
	assert.NotNil(t, connectors[0].Station)
}

func TestConnectorRepoCountByStation(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM connectors WHERE charging_station_id = \$1`).
		WithArgs(testStationID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByStation(context.Background(), testStationID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestConnectorRepoHasOtherPriority(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(testStationID, testConnectorID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.HasOtherPriority(context.Background(), testStationID, testConnectorID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestConnectorRepoUpdateMove(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	mock.ExpectExec(`UPDATE connectors SET updated_at = NOW\(\), priority = \$1, charging_station_id = \$2 WHERE id = \$3`).
		WithArgs(false, testStationID, testConnectorID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), testConnectorID, map[string]any{
		"priority":            false,
		"charging_station_id": testStationID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectorRepoUpdateNoRows(t *testing.T) {
	repo, mock := newConnectorRepoMock(t)

	mock.ExpectExec(`UPDATE connectors`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), testConnectorID, map[string]any{"priority": true})
	assert.ErrorIs(t, err, ErrNotFound)
}
