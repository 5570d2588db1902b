package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
	"voltgrid/internal/validation"
)

// StationRepository defines the storage contract used by StationService
// and ConnectorService.
type StationRepository interface {
	Create(ctx context.Context, s *models.ChargingStation) error
	List(ctx context.Context, filter repository.StationFilter) ([]models.ChargingStation, error)
	GetByID(ctx context.Context, id string) (*models.ChargingStation, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// stationMutableFields is the PATCH whitelist; id and name are immutable
// after creation.
var stationMutableFields = []string{"device_id", "ip_address", "firmware_version", "charging_station_type_id"}

// StationService implements create/list/get/update for charging stations,
// including the type-existence check on every write that sets the type.
type StationService struct {
	repo   StationRepository
	types  TypeRepository
	logger *zap.Logger
}

// NewStationService builds StationService.
func NewStationService(repo StationRepository, types TypeRepository, logger *zap.Logger) *StationService {
	return &StationService{repo: repo, types: types, logger: logger}
}

// Create persists a new station. Format checks run first, then the
// referenced type must exist.
func (s *StationService) Create(ctx context.Context, station *models.ChargingStation) error {
	if station.ID != "" && !validation.IsUUID(station.ID) {
		return ErrInvalidUUID
	}
	if !validation.IsUUID(station.DeviceID) || !validation.IsUUID(station.TypeID) {
		return ErrInvalidUUID
	}
	if !validation.IsIP(station.IPAddress) {
		return ErrInvalidIP
	}
	if station.ID == "" {
		station.ID = uuid.NewString()
	}

	if _, err := s.types.GetByID(ctx, station.TypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTypeNotFound
		}
		return err
	}

	if err := s.repo.Create(ctx, station); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return ErrDuplicate
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrTypeNotFound
		}
		return err
	}

	s.logger.Info("charging station created", zap.String("id", station.ID), zap.String("name", station.Name))
	return nil
}

// List returns stations matching the filter with their type embedded.
func (s *StationService) List(ctx context.Context, filter repository.StationFilter) ([]models.ChargingStation, error) {
	return s.repo.List(ctx, filter)
}

// GetByID returns a single station; missing or malformed ids yield ErrNotFound.
func (s *StationService) GetByID(ctx context.Context, id string) (*models.ChargingStation, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return station, nil
}

// Update applies a partial update. The field whitelist is checked first;
// a new charging_station_type_id must reference an existing type.
func (s *StationService) Update(ctx context.Context, id string, fields map[string]any) error {
	if unknown := validation.UnknownFields(stationMutableFields, fields); len(unknown) > 0 {
		return ErrInvalidFields
	}

	normalized := make(map[string]any, len(fields))

	if deviceID, present, ok := stringField(fields, "device_id"); present {
		if !ok || !validation.IsUUID(deviceID) {
			return ErrInvalidUUID
		}
		normalized["device_id"] = deviceID
	}
	if ip, present, ok := stringField(fields, "ip_address"); present {
		if !ok || !validation.IsIP(ip) {
			return ErrInvalidIP
		}
		normalized["ip_address"] = ip
	}
	if firmware, present, ok := stringField(fields, "firmware_version"); present {
		if !ok || firmware == "" {
			return ErrInvalidFields
		}
		normalized["firmware_version"] = firmware
	}
	if typeID, present, ok := stringField(fields, "charging_station_type_id"); present {
		if !ok || !validation.IsUUID(typeID) {
			return ErrInvalidUUID
		}
		if _, err := s.types.GetByID(ctx, typeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTypeNotFound
			}
			return err
		}
		normalized["charging_station_type_id"] = typeID
	}

	if err := s.repo.Update(ctx, id, normalized); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrUniqueViolation):
			return ErrDuplicate
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrTypeNotFound
		}
		return err
	}

	s.logger.Info("charging station updated", zap.String("id", id))
	return nil
}
