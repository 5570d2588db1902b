package service

import (
	"context"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
)

// In-memory repository fakes used across the service tests.

type fakeTypeRepo struct {
	types      map[string]*models.ChargingStationType
	lastFilter repository.TypeFilter
	updates    int
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: make(map[string]*models.ChargingStationType)}
}

func (f *fakeTypeRepo) Create(_ context.Context, t *models.ChargingStationType) error {
	for _, existing := range f.types {
		if existing.ID == t.ID || existing.Name == t.Name {
			return repository.ErrUniqueViolation
		}
	}
	clone := *t
	f.types[t.ID] = &clone
	return nil
}

func (f *fakeTypeRepo) List(_ context.Context, filter repository.TypeFilter) ([]models.ChargingStationType, error) {
	f.lastFilter = filter
	var out []models.ChargingStationType
	for _, t := range f.types {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id string) (*models.ChargingStationType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTypeRepo) Update(_ context.Context, id string, fields map[string]any) error {
	t, ok := f.types[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.updates++
	if name, ok := fields["name"].(string); ok {
		for otherID, other := range f.types {
			if otherID != id && other.Name == name {
				return repository.ErrUniqueViolation
			}
		}
		t.Name = name
	}
	if plugCount, ok := fields["plug_count"].(int); ok {
		t.PlugCount = plugCount
	}
	if efficiency, ok := fields["efficiency"].(float64); ok {
		t.Efficiency = efficiency
	}
	if currentType, ok := fields["current_type"].(string); ok {
		t.CurrentType = currentType
	}
	return nil
}

type fakeStationRepo struct {
	stations   map[string]*models.ChargingStation
	lastFilter repository.StationFilter
	updates    map[string]map[string]any
}

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{
		stations: make(map[string]*models.ChargingStation),
		updates:  make(map[string]map[string]any),
	}
}

func (f *fakeStationRepo) Create(_ context.Context, s *models.ChargingStation) error {
	for _, existing := range f.stations {
		if existing.ID == s.ID || existing.Name == s.Name {
			return repository.ErrUniqueViolation
		}
	}
	clone := *s
	f.stations[s.ID] = &clone
	return nil
}

func (f *fakeStationRepo) List(_ context.Context, filter repository.StationFilter) ([]models.ChargingStation, error) {
	f.lastFilter = filter
	var out []models.ChargingStation
	for _, s := range f.stations {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStationRepo) GetByID(_ context.Context, id string) (*models.ChargingStation, error) {
	s, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStationRepo) Update(_ context.Context, id string, fields map[string]any) error {
	s, ok := f.stations[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.updates[id] = fields
	if deviceID, ok := fields["device_id"].(string); ok {
		s.DeviceID = deviceID
	}
	if ip, ok := fields["ip_address"].(string); ok {
		s.IPAddress = ip
	}
	if firmware, ok := fields["firmware_version"].(string); ok {
		s.FirmwareVersion = firmware
	}
	if typeID, ok := fields["charging_station_type_id"].(string); ok {
		s.TypeID = typeID
	}
	return nil
}

type fakeConnectorRepo struct {
	connectors map[string]*models.Connector
	lastFilter repository.ConnectorFilter
}

func newFakeConnectorRepo() *fakeConnectorRepo {
	return &fakeConnectorRepo{connectors: make(map[string]*models.Connector)}
}

func (f *fakeConnectorRepo) Create(_ context.Context, c *models.Connector) error {
	for _, existing := range f.connectors {
		if existing.ID == c.ID || existing.Name == c.Name {
			return repository.ErrUniqueViolation
		}
	}
	clone := *c
	f.connectors[c.ID] = &clone
	return nil
}

func (f *fakeConnectorRepo) List(_ context.Context, filter repository.ConnectorFilter) ([]models.Connector, error) {
	f.lastFilter = filter
	var out []models.Connector
	for _, c := range f.connectors {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeConnectorRepo) GetByID(_ context.Context, id string) (*models.Connector, error) {
	c, ok := f.connectors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeConnectorRepo) Update(_ context.Context, id string, fields map[string]any) error {
	c, ok := f.connectors[id]
	if !ok {
		return repository.ErrNotFound
	}
	if priority, ok := fields["priority"].(bool); ok {
		c.Priority = priority
	}
	if stationID, ok := fields["charging_station_id"].(string); ok {
		c.StationID = stationID
	}
	return nil
}

func (f *fakeConnectorRepo) CountByStation(_ context.Context, stationID string) (int, error) {
	count := 0
	for _, c := range f.connectors {
		if c.StationID == stationID {
			count++
		}
	}
	return count, nil
}

func (f *fakeConnectorRepo) HasOtherPriority(_ context.Context, stationID, excludeID string) (bool, error) {
	for _, c := range f.connectors {
		if c.StationID == stationID && c.Priority && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
