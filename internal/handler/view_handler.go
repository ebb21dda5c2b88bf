package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/catalog"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/response"
	"github.com/stemsi/placement-dashboard/internal/service"
	"github.com/stemsi/placement-dashboard/internal/validator"
)

// ViewHandler manages mounted dashboard views over plain HTTP.
type ViewHandler struct {
	viewService *service.ViewService
	log         zerolog.Logger
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(viewService *service.ViewService, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		viewService: viewService,
		log:         log.With().Str("component", "view_handler").Logger(),
	}
}

// CreateView godoc
// POST /api/v1/dashboard/views
// Mounts a new view. Its state list starts loading immediately.
func (h *ViewHandler) CreateView(c *gin.Context) {
	view, err := h.viewService.Create(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"view": view})
}

// GetView godoc
// GET /api/v1/dashboard/views/:id
// Returns the view's lists, selection and rescaled charts.
func (h *ViewHandler) GetView(c *gin.Context) {
	id, ok := parseViewID(c)
	if !ok {
		return
	}

	view, err := h.viewService.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": view})
}

// SelectState godoc
// PUT /api/v1/dashboard/views/:id/state
// Sets the state filter, clears the city and starts loading the state's cities.
// An empty state clears both filters.
func (h *ViewHandler) SelectState(c *gin.Context) {
	id, ok := parseViewID(c)
	if !ok {
		return
	}

	var req model.SelectStateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.viewService.SelectState(c.Request.Context(), id, req.State)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": view})
}

// SelectCity godoc
// PUT /api/v1/dashboard/views/:id/city
// Sets the city filter. The city must belong to the loaded city list.
func (h *ViewHandler) SelectCity(c *gin.Context) {
	id, ok := parseViewID(c)
	if !ok {
		return
	}

	var req model.SelectCityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.viewService.SelectCity(c.Request.Context(), id, req.City)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": view})
}

// ClearFilters godoc
// DELETE /api/v1/dashboard/views/:id/filters
// Drops the state and city filters.
func (h *ViewHandler) ClearFilters(c *gin.Context) {
	id, ok := parseViewID(c)
	if !ok {
		return
	}

	view, err := h.viewService.ClearFilters(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": view})
}

// CloseView godoc
// DELETE /api/v1/dashboard/views/:id
// Unmounts the view. Fetches still in flight are discarded.
func (h *ViewHandler) CloseView(c *gin.Context) {
	id, ok := parseViewID(c)
	if !ok {
		return
	}

	if err := h.viewService.Close(id); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "view closed successfully"})
}

// fail maps view and catalog errors onto response codes.
func (h *ViewHandler) fail(c *gin.Context, err error) {
	status, code := viewErrorCode(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("View request failed")
	}
	response.Fail(c, status, code)
}

func viewErrorCode(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrViewNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, catalog.ErrClosed):
		return http.StatusGone, response.ErrViewClosed
	case errors.Is(err, catalog.ErrStateNotAvailable):
		return http.StatusUnprocessableEntity, response.ErrStateNotAvailable
	case errors.Is(err, catalog.ErrCityNotAvailable):
		return http.StatusUnprocessableEntity, response.ErrCityNotAvailable
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func parseViewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
