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

// ConnectorRepository defines the storage contract used by ConnectorService.
type ConnectorRepository interface {
	Create(ctx context.Context, c *models.Connector) error
	List(ctx context.Context, filter repository.ConnectorFilter) ([]models.Connector, error)
	GetByID(ctx context.Context, id string) (*models.Connector, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	CountByStation(ctx context.Context, stationID string) (int, error)
	HasOtherPriority(ctx context.Context, stationID, excludeID string) (bool, error)
}

// connectorMutableFields is the PATCH whitelist; id and name are
// immutable after creation.
var connectorMutableFields = []string{"priority", "charging_station_id"}

// priorityIndexName is the partial unique index closing the
// priority check-then-insert race at the storage level.
const priorityIndexName = "connectors_one_priority_per_station"

// ConnectorService implements create/list/get/update for connectors and
// enforces the per-station priority and capacity invariants.
//
// The capacity check is a non-atomic check-then-act: two concurrent
// creates targeting the same station right at the plug_count boundary can
// both pass and both insert. The priority invariant does not share this
// window because the partial unique index rejects the loser.
type ConnectorService struct {
	repo     ConnectorRepository
	stations StationRepository
	logger   *zap.Logger
}

// NewConnectorService builds ConnectorService.
func NewConnectorService(repo ConnectorRepository, stations StationRepository, logger *zap.Logger) *ConnectorService {
	return &ConnectorService{repo: repo, stations: stations, logger: logger}
}

// Create persists a new connector. Checks run in fixed order: format,
// station existence, priority invariant, capacity invariant; each
// short-circuits.
func (s *ConnectorService) Create(ctx context.Context, c *models.Connector) error {
	if c.ID != "" && !validation.IsUUID(c.ID) {
		return ErrInvalidUUID
	}
	if !validation.IsUUID(c.StationID) {
		return ErrInvalidUUID
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	station, err := s.stations.GetByID(ctx, c.StationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStationNotFound
		}
		return err
	}

	if c.Priority {
		taken, err := s.repo.HasOtherPriority(ctx, c.StationID, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrPriorityTaken
		}
	}

	count, err := s.repo.CountByStation(ctx, c.StationID)
	if err != nil {
		return err
	}
	if count >= station.Type.PlugCount {
		return ErrCapacityReached
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return s.mapWriteError(err)
	}

	s.logger.Info("connector created",
		zap.String("id", c.ID),
		zap.String("charging_station_id", c.StationID),
		zap.Bool("priority", c.Priority))
	return nil
}

// List returns connectors matching the filter with their station embedded.
func (s *ConnectorService) List(ctx context.Context, filter repository.ConnectorFilter) ([]models.Connector, error) {
	return s.repo.List(ctx, filter)
}

// GetByID returns a single connector; missing or malformed ids yield ErrNotFound.
func (s *ConnectorService) GetByID(ctx context.Context, id string) (*models.Connector, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update applies a partial update. When the payload changes priority or
// moves the connector, the invariants are re-run against the effective
// target station: the one from the payload if present, otherwise the
// connector's current station.
func (s *ConnectorService) Update(ctx context.Context, id string, fields map[string]any) error {
	if unknown := validation.UnknownFields(connectorMutableFields, fields); len(unknown) > 0 {
		return ErrInvalidFields
	}

	priority, priorityPresent, ok := boolField(fields, "priority")
	if !ok {
		return ErrInvalidFields
	}
	stationID, stationPresent, ok := stringField(fields, "charging_station_id")
	if !ok {
		return ErrInvalidFields
	}
	if stationPresent && !validation.IsUUID(stationID) {
		return ErrInvalidUUID
	}

	normalized := make(map[string]any, len(fields))

	if priorityPresent || stationPresent {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		targetStationID := current.StationID
		if stationPresent {
			targetStationID = stationID
		}
		effectivePriority := current.Priority
		if priorityPresent {
			effectivePriority = priority
		}

		station, err := s.stations.GetByID(ctx, targetStationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStationNotFound
			}
			return err
		}

		if effectivePriority {
			taken, err := s.repo.HasOtherPriority(ctx, targetStationID, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrPriorityTaken
			}
		}

		// Capacity only changes when the connector actually moves.
		if stationPresent && targetStationID != current.StationID {
			count, err := s.repo.CountByStation(ctx, targetStationID)
			if err != nil {
				return err
			}
			if count >= station.Type.PlugCount {
				return ErrCapacityReached
			}
		}
	}

	if priorityPresent {
		normalized["priority"] = priority
	}
	if stationPresent {
		normalized["charging_station_id"] = stationID
	}

	if err := s.repo.Update(ctx, id, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return s.mapWriteError(err)
	}

	s.logger.Info("connector updated", zap.String("id", id))
	return nil
}

func (s *ConnectorService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		if repository.ConstraintName(err) == priorityIndexName {
			return ErrPriorityTaken
		}
		return ErrDuplicate
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrStationNotFound
	}
	return err
}
