package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/jellydator/validation"
	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
	"voltgrid/internal/service"
)

// StationHandlers serves the /cs routes.
type StationHandlers struct {
	svc    *service.StationService
	logger *zap.Logger
}

// NewStationHandlers builds StationHandlers.
func NewStationHandlers(svc *service.StationService, logger *zap.Logger) *StationHandlers {
	return &StationHandlers{svc: svc, logger: logger}
}

type createStationRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DeviceID        string `json:"device_id"`
	IPAddress       string `json:"ip_address"`
	FirmwareVersion string `json:"firmware_version"`
	TypeID          string `json:"charging_station_type_id"`
}

// Validate checks required fields; formats are verified by the service
// so malformed UUIDs and IPs get their dedicated error messages.
func (r *createStationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.DeviceID, validation.Required),
		validation.Field(&r.IPAddress, validation.Required),
		validation.Field(&r.FirmwareVersion, validation.Required),
		validation.Field(&r.TypeID, validation.Required),
	)
}

// Create handles POST /cs.
func (h *StationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.logFailure(r, req, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	station := &models.ChargingStation{
		ID:              req.ID,
		Name:            req.Name,
		DeviceID:        req.DeviceID,
		IPAddress:       req.IPAddress,
		FirmwareVersion: req.FirmwareVersion,
		TypeID:          req.TypeID,
	}

	if err := h.svc.Create(r.Context(), station); err != nil {
		h.logFailure(r, req, err)
		switch {
		case errors.Is(err, service.ErrInvalidUUID):
			writeError(w, http.StatusBadRequest, "Given UUID is invalid")
		case errors.Is(err, service.ErrInvalidIP):
			writeError(w, http.StatusBadRequest, "Given ip_address is invalid")
		case errors.Is(err, service.ErrTypeNotFound):
			writeError(w, http.StatusUnprocessableEntity, "Given UUID does not exist")
		case errors.Is(err, service.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "Unique constraint violation.")
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeEmpty(w, http.StatusCreated)
}

// List handles GET /cs. Responses embed the charging station type and
// omit the raw foreign key.
func (h *StationHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.StationFilter{
		Name:            queryString(query, "name"),
		DeviceID:        queryString(query, "device_id"),
		IPAddress:       queryString(query, "ip_address"),
		FirmwareVersion: queryString(query, "firmware_version"),
		TypeID:          queryString(query, "charging_station_type_id"),
		Limit:           queryInt(query, "limit"),
		Offset:          queryInt(query, "offset"),
	}

	stations, err := h.svc.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if stations == nil {
		stations = []models.ChargingStation{}
	}
	writeJSON(w, http.StatusOK, stations)
}

// Get handles GET /cs/{id}.
func (h *StationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	station, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeEmpty(w, http.StatusNotFound)
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Update handles PATCH /cs/{id}.
func (h *StationHandlers) Update(w http.ResponseWriter, r *http.Request) {
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
		case errors.Is(err, service.ErrInvalidIP):
			writeError(w, http.StatusBadRequest, "Given ip_address is invalid")
		case errors.Is(err, service.ErrTypeNotFound):
			writeError(w, http.StatusUnprocessableEntity, "Given UUID does not exist")
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

func (h *StationHandlers) logFailure(r *http.Request, payload any, err error) {
	h.logger.Error("charging station request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Any("payload", payload),
		zap.Error(err))
}
