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

// TypeHandlers serves the /cstype routes.
type TypeHandlers struct {
	svc    *service.TypeService
	logger *zap.Logger
}

// NewTypeHandlers builds TypeHandlers.
func NewTypeHandlers(svc *service.TypeService, logger *zap.Logger) *TypeHandlers {
	return &TypeHandlers{svc: svc, logger: logger}
}

type createTypeRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	PlugCount   *int     `json:"plug_count"`
	Efficiency  *float64 `json:"efficiency"`
	CurrentType string   `json:"current_type"`
}

// Validate checks required fields and formats before any store access.
func (r *createTypeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.PlugCount, validation.NotNil, validation.Min(0)),
		validation.Field(&r.Efficiency, validation.NotNil),
		validation.Field(&r.CurrentType, validation.Required, validation.In(models.CurrentTypeAC, models.CurrentTypeDC)),
	)
}

// Create handles POST /cstype.
func (h *TypeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.logFailure(r, req, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stationType := &models.ChargingStationType{
		ID:          req.ID,
		Name:        req.Name,
		PlugCount:   *req.PlugCount,
		Efficiency:  *req.Efficiency,
		CurrentType: req.CurrentType,
	}

	if err := h.svc.Create(r.Context(), stationType); err != nil {
		h.logFailure(r, req, err)
		switch {
		case errors.Is(err, service.ErrInvalidUUID):
			writeError(w, http.StatusBadRequest, "Given UUID is invalid")
		case errors.Is(err, service.ErrDuplicate):
			writeError(w, http.StatusBadRequest, "Unique constraint violation.")
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeEmpty(w, http.StatusCreated)
}

// List handles GET /cstype.
func (h *TypeHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.TypeFilter{
		Name:        queryString(query, "name"),
		CurrentType: queryString(query, "current_type"),
		Limit:       queryInt(query, "limit"),
		Offset:      queryInt(query, "offset"),
	}

	if raw := queryString(query, "plug_count"); raw != nil {
		n, err := strconv.Atoi(*raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		filter.PlugCount = &n
	}
	for key, target := range map[string]**float64{
		"efficiency":    &filter.Efficiency,
		"minEfficiency": &filter.MinEfficiency,
		"maxEfficiency": &filter.MaxEfficiency,
	} {
		raw := queryString(query, key)
		if raw == nil {
			continue
		}
		f, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		*target = &f
	}

	types, err := h.svc.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Given fields are invalid")
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if types == nil {
		types = []models.ChargingStationType{}
	}
	writeJSON(w, http.StatusOK, types)
}

// Get handles GET /cstype/{id}.
func (h *TypeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stationType, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeEmpty(w, http.StatusNotFound)
			return
		}
		h.logFailure(r, nil, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, stationType)
}

// Update handles PATCH /cstype/{id}.
func (h *TypeHandlers) Update(w http.ResponseWriter, r *http.Request) {
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

func (h *TypeHandlers) logFailure(r *http.Request, payload any, err error) {
	h.logger.Error("charging station type request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Any("payload", payload),
		zap.Error(err))
}
