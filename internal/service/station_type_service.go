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

// TypeRepository defines the storage contract used by TypeService.
type TypeRepository interface {
	Create(ctx context.Context, t *models.ChargingStationType) error
	List(ctx context.Context, filter repository.TypeFilter) ([]models.ChargingStationType, error)
	GetByID(ctx context.Context, id string) (*models.ChargingStationType, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// typeMutableFields is the PATCH whitelist; id is never mutable.
var typeMutableFields = []string{"name", "plug_count", "efficiency", "current_type"}

// TypeService implements create/list/get/update for charging station types.
type TypeService struct {
	repo   TypeRepository
	logger *zap.Logger
}

// NewTypeService builds TypeService.
func NewTypeService(repo TypeRepository, logger *zap.Logger) *TypeService {
	return &TypeService{repo: repo, logger: logger}
}

// Create persists a new type. A client-supplied id must be a valid UUID;
// an absent one is generated.
func (s *TypeService) Create(ctx context.Context, t *models.ChargingStationType) error {
	if t.ID != "" && !validation.IsUUID(t.ID) {
		return ErrInvalidUUID
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return ErrDuplicate
		}
		return err
	}

	s.logger.Info("charging station type created", zap.String("id", t.ID), zap.String("name", t.Name))
	return nil
}

// List returns types matching the filter.
func (s *TypeService) List(ctx context.Context, filter repository.TypeFilter) ([]models.ChargingStationType, error) {
	return s.repo.List(ctx, filter)
}

// GetByID returns a single type; missing or malformed ids yield ErrNotFound.
func (s *TypeService) GetByID(ctx context.Context, id string) (*models.ChargingStationType, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies a partial update. The field whitelist is checked before
// anything else.
func (s *TypeService) Update(ctx context.Context, id string, fields map[string]any) error {
	if unknown := validation.UnknownFields(typeMutableFields, fields); len(unknown) > 0 {
		return ErrInvalidFields
	}

	normalized := make(map[string]any, len(fields))

	if name, present, ok := stringField(fields, "name"); present {
		if !ok || name == "" {
			return ErrInvalidFields
		}
		normalized["name"] = name
	}
	if plugCount, present, ok := intField(fields, "plug_count"); present {
		if !ok || plugCount < 0 {
			return ErrInvalidFields
		}
		normalized["plug_count"] = plugCount
	}
	if efficiency, present, ok := floatField(fields, "efficiency"); present {
		if !ok {
			return ErrInvalidFields
		}
		normalized["efficiency"] = efficiency
	}
	if currentType, present, ok := stringField(fields, "current_type"); present {
		if !ok || (currentType != models.CurrentTypeAC && currentType != models.CurrentTypeDC) {
			return ErrInvalidFields
		}
		normalized["current_type"] = currentType
	}

	if err := s.repo.Update(ctx, id, normalized); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrUniqueViolation):
			return ErrDuplicate
		}
		return err
	}

	s.logger.Info("charging station type updated", zap.String("id", id))
	return nil
}
