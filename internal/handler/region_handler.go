package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/response"
	"github.com/stemsi/placement-dashboard/internal/service"
	"github.com/stemsi/placement-dashboard/internal/validator"
)

// RegionHandler exposes the geography lists to clients that do not mount a view.
type RegionHandler struct {
	regionService *service.RegionService
}

// NewRegionHandler creates a new RegionHandler.
func NewRegionHandler(regionService *service.RegionService) *RegionHandler {
	return &RegionHandler{regionService: regionService}
}

// ListStates godoc
// GET /api/v1/regions/states
// Lists the configured country's states in lexicographic order.
func (h *RegionHandler) ListStates(c *gin.Context) {
	states, err := h.regionService.ListStates(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusBadGateway, response.ErrGeoUnavailable)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"states": states})
}

// ListCities godoc
// GET /api/v1/regions/cities?state=
// Lists the cities of one state in lexicographic order.
func (h *RegionHandler) ListCities(c *gin.Context) {
	var q model.CitiesQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cities, err := h.regionService.ListCities(c.Request.Context(), q.State)
	if err != nil {
		response.Fail(c, http.StatusBadGateway, response.ErrGeoUnavailable)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": q.State, "cities": cities})
}
