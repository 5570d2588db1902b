package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltgrid/internal/models"
)

func newStationService() (*StationService, *fakeStationRepo, *fakeTypeRepo) {
	stations := newFakeStationRepo()
	types := newFakeTypeRepo()
	return NewStationService(stations, types, zap.NewNop()), stations, types
}

func seedType(t *testing.T, types *fakeTypeRepo, plugCount int) *models.ChargingStationType {
	t.Helper()
	stationType := &models.ChargingStationType{
		ID:          uuid.NewString(),
		Name:        "Type " + uuid.NewString()[:8],
		PlugCount:   plugCount,
		Efficiency:  0.8,
		CurrentType: models.CurrentTypeAC,
	}
	require.NoError(t, types.Create(context.Background(), stationType))
	return stationType
}

func validStation(typeID string) *models.ChargingStation {
	return &models.ChargingStation{
		Name:            "Station " + uuid.NewString()[:8],
		DeviceID:        uuid.NewString(),
		IPAddress:       "10.0.0.5",
		FirmwareVersion: "1.2.3",
		TypeID:          typeID,
	}
}

func TestStationServiceCreate(t *testing.T) {
	svc, repo, types := newStationService()
	stationType := seedType(t, types, 2)

	station := validStation(stationType.ID)
	require.NoError(t, svc.Create(context.Background(), station))

	assert.NotEmpty(t, station.ID)
	assert.Len(t, repo.stations, 1)
}

func TestStationServiceCreateFormatChecks(t *testing.T) {
	svc, repo, types := newStationService()
	stationType := seedType(t, types, 2)
	ctx := context.Background()

	t.Run("malformed device_id", func(t *testing.T) {
		station := validStation(stationType.ID)
		station.DeviceID = "not-a-uuid"
		assert.ErrorIs(t, svc.Create(ctx, station), ErrInvalidUUID)
	})

	t.Run("malformed ip", func(t *testing.T) {
		station := validStation(stationType.ID)
		station.IPAddress = "999.0.0.1"
		assert.ErrorIs(t, svc.Create(ctx, station), ErrInvalidIP)
	})

	t.Run("malformed type id", func(t *testing.T) {
		station := validStation("nope")
		assert.ErrorIs(t, svc.Create(ctx, station), ErrInvalidUUID)
	})

	t.Run("malformed client-supplied id", func(t *testing.T) {
		station := validStation(stationType.ID)
		station.ID = "nope"
		assert.ErrorIs(t, svc.Create(ctx, station), ErrInvalidUUID)
	})

	assert.Empty(t, repo.stations)
}

func TestStationServiceCreateTypeMustExist(t *testing.T) {
	svc, repo, _ := newStationService()

	station := validStation(uuid.NewString())
	err := svc.Create(context.Background(), station)

	assert.ErrorIs(t, err, ErrTypeNotFound)
	assert.Empty(t, repo.stations)
}

func TestStationServiceUpdateWhitelist(t *testing.T) {
	svc, _, types := newStationService()
	stationType := seedType(t, types, 2)
	ctx := context.Background()

	station := validStation(stationType.ID)
	require.NoError(t, svc.Create(ctx, station))

	// name is immutable after creation.
	err := svc.Update(ctx, station.ID, map[string]any{"name": "renamed"})
	assert.ErrorIs(t, err, ErrInvalidFields)

	err = svc.Update(ctx, station.ID, map[string]any{"id": uuid.NewString()})
	assert.ErrorIs(t, err, ErrInvalidFields)
}

func TestStationServiceUpdateTypeMustExist(t *testing.T) {
	svc, repo, types := newStationService()
	stationType := seedType(t, types, 2)
	ctx := context.Background()

	station := validStation(stationType.ID)
	require.NoError(t, svc.Create(ctx, station))

	err := svc.Update(ctx, station.ID, map[string]any{"charging_station_type_id": uuid.NewString()})
	assert.ErrorIs(t, err, ErrTypeNotFound)
	assert.Equal(t, stationType.ID, repo.stations[station.ID].TypeID, "stored row unchanged")
}

func TestStationServiceUpdateApplies(t *testing.T) {
	svc, repo, types := newStationService()
	oldType := seedType(t, types, 2)
	newType := seedType(t, types, 4)
	ctx := context.Background()

	station := validStation(oldType.ID)
	require.NoError(t, svc.Create(ctx, station))

	err := svc.Update(ctx, station.ID, map[string]any{
		"ip_address":               "192.168.1.40",
		"charging_station_type_id": newType.ID,
	})
	require.NoError(t, err)

	stored := repo.stations[station.ID]
	assert.Equal(t, "192.168.1.40", stored.IPAddress)
	assert.Equal(t, newType.ID, stored.TypeID)
}

func TestStationServiceUpdateInvalidIP(t *testing.T) {
	svc, _, types := newStationService()
	stationType := seedType(t, types, 2)
	ctx := context.Background()

	station := validStation(stationType.ID)
	require.NoError(t, svc.Create(ctx, station))

	err := svc.Update(ctx, station.ID, map[string]any{"ip_address": "not-an-ip"})
	assert.ErrorIs(t, err, ErrInvalidIP)
}

func TestStationServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newStationService()

	err := svc.Update(context.Background(), uuid.NewString(), map[string]any{"firmware_version": "2.0"})
	assert.ErrorIs(t, err, ErrNotFound)
}
