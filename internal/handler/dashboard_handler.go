package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/placement-dashboard/internal/model"
	"github.com/stemsi/placement-dashboard/internal/response"
	"github.com/stemsi/placement-dashboard/internal/service"
	"github.com/stemsi/placement-dashboard/internal/validator"
)

// DashboardHandler serves stateless dashboard projections.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// GET /api/v1/dashboard?state=&city=
// Returns the charts rescaled to the given region. An unknown city falls back
// to the state total; an unknown state returns the unscaled baseline.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var q model.DashboardQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	data, err := h.dashboardService.GetDashboard(c.Request.Context(), model.Selection{State: q.State, City: q.City})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// GetBaseline godoc
// GET /api/v1/dashboard/baseline
// Returns the raw region table and the unscaled chart shapes.
func (h *DashboardHandler) GetBaseline(c *gin.Context) {
	data, err := h.dashboardService.GetBaseline(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}
