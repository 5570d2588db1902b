package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/jellydator/validation"
	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
	"voltgrid/internal/service"
)

// ConnectorHandlers serves the /connector routes.
type ConnectorHandlers struct {
	svc    *service.ConnectorService
	logger *zap.Logger
}

// NewConnectorHandlers builds ConnectorHandlers.
func NewConnectorHandlers(svc *service.ConnectorService, logger *zap.Logger) *ConnectorHandlers {
	return &ConnectorHandlers{svc: svc, logger: logger}
}

type createConnectorRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Priority  *bool  `json:"priority"`
	StationID string `json:"charging_station_id"`
}

// Validate checks required fields; UUID formats get their dedicated
// error message from the service.
func (r *createConnectorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Priority, validation.NotNil),
		validation.Field(&r.StationID, validation.Required),
	)
}

// Create handles POST /connector.
func (h *ConnectorHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createConnectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.logFailure(r, req, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	connector := &models.Connector{
		ID:        req.ID,
		Name:      req.Name,
		Priority:  *req.Priority,
		StationID: req.StationID,
	}

	if err := h.svc.Create(r.Context(), connector); err != nil {
		h.logFailure(r, req, err)
		switch {
		case errors.Is(err, service.ErrInvalidUUID):
			writeError(w, http.StatusBadRequest, "Given UUID is invalid")
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusUnprocessableEntity, "Given UUID does not exist")
		case errors.Is(err, service.ErrPriorityTaken):
			writeError(w, http.StatusBadRequest, "Only 1 priority connector is possible per charging station")
		case errors.Is(err, service.ErrCapacityReached):
			writeError(w, http.StatusBadRequest, "Unable to add more connectors to the charging station")
		case errors.Is(err, service.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "Unique constraint violation.")
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeEmpty(w, http.StatusCreated)
}

// List handles GET /connector. Responses embed the charging station and
// omit the raw foreign key.
func (h *ConnectorHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.ConnectorFilter{
		Name:      queryString(query, "name"),
		StationID: queryString(query, "charging_station_id"),
		Limit:     queryInt(query, "limit"),
		Offset:    queryInt(query, "offset"),
	}

	if raw := queryString(query, "priority"); raw != nil {
		priority, err := strconv.ParseBool(*raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		filter.Priority = &priority
	}

	connectors, err := h.svc.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if connectors == nil {
		connectors = []models.Connector{}
	}
	writeJSON(w, http.StatusOK, connectors)
}

// Get handles GET /connector/{id}.
func (h *ConnectorHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	connector, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeEmpty(w, http.StatusNotFound)
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, connector)
}

// Update handles PATCH /connector/{id}.
func (h *ConnectorHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.Update(r.Context(), id, fields); err != nil {
		h.logFailure(r, fields, err)
		switch {
		case errors.Is(err, service.ErrInvalidFields):
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
		case errors.Is(err, service.ErrInvalidUUID):
			writeError(w, http.StatusBadRequest, "Given UUID is invalid")
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusUnprocessableEntity, "Given UUID does not exist")
		case errors.Is(err, service.ErrPriorityTaken):
			writeError(w, http.StatusBadRequest, "Only 1 priority connector is possible per charging station")
		case errors.Is(err, service.ErrCapacityReached):
			writeError(w, http.StatusBadRequest, "Unable to add more connectors to the charging station")
		case errors.Is(err, service.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "Unique constraint violation.")
		case errors.Is(err, service.ErrNotFound):
			writeEmpty(w, http.StatusNotFound)
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeEmpty(w, http.StatusOK)
}

func (h *ConnectorHandlers) logFailure(r *http.Request, payload any, err error) {
	h.logger.Error("connector request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Any("payload", payload),
		zap.Error(err))
}
