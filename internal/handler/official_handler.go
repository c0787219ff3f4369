package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/models"
	"github.com/noah-isme/ref-assign-api/internal/service"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
	"github.com/noah-isme/ref-assign-api/pkg/response"
)

// OfficialHandler manages official endpoints.
type OfficialHandler struct {
	service *service.OfficialService
}

// NewOfficialHandler constructs handler.
func NewOfficialHandler(svc *service.OfficialService) *OfficialHandler {
	return &OfficialHandler{service: svc}
}

// List godoc
// @Summary List officials
// @Tags Officials
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param minLevel query int false "Minimum certification level"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /officials [get]
func (h *OfficialHandler) List(c *gin.Context) {
	var filter models.OfficialFilter
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if minLevel, err := strconv.Atoi(c.DefaultQuery("minLevel", "0")); err == nil {
		filter.MinLevel = minLevel
	}
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	officials, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, officials, pagination)
}

// Get godoc
// @Summary Get an official
// @Tags Officials
// @Produce json
// @Param id path string true "Official ID"
// @Success 200 {object} response.Envelope
// @Router /officials/{id} [get]
func (h *OfficialHandler) Get(c *gin.Context) {
	official, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, official, nil)
}

// Create godoc
// @Summary Register an official
// @Tags Officials
// @Accept json
// @Produce json
// @Param payload body dto.CreateOfficialRequest true "Official"
// @Success 201 {object} response.Envelope
// @Router /officials [post]
func (h *OfficialHandler) Create(c *gin.Context) {
	var req dto.CreateOfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	official, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, official)
}

// Deactivate godoc
// @Summary Deactivate an official
// @Tags Officials
// @Param id path string true "Official ID"
// @Success 204
// @Router /officials/{id} [delete]
func (h *OfficialHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Windows godoc
// @Summary List an official's availability windows
// @Tags Officials
// @Produce json
// @Param id path string true "Official ID"
// @Success 200 {object} response.Envelope
// @Router /officials/{id}/windows [get]
func (h *OfficialHandler) Windows(c *gin.Context) {
	windows, err := h.service.Windows(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, windows, nil)
}

// SubmitWindow godoc
// @Summary Declare an availability window
// @Tags Officials
// @Accept json
// @Produce json
// @Param id path string true "Official ID"
// @Param payload body dto.SubmitWindowRequest true "Window"
// @Success 201 {object} response.Envelope
// @Router /officials/{id}/windows [post]
func (h *OfficialHandler) SubmitWindow(c *gin.Context) {
	var req dto.SubmitWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	window, err := h.service.SubmitWindow(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// RemoveWindow godoc
// @Summary Delete an availability window
// @Tags Officials
// @Param id path string true "Official ID"
// @Param windowId path string true "Window ID"
// @Success 204
// @Router /officials/{id}/windows/{windowId} [delete]
func (h *OfficialHandler) RemoveWindow(c *gin.Context) {
	if err := h.service.RemoveWindow(c.Request.Context(), c.Param("id"), c.Param("windowId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CheckAvailability godoc
// @Summary Check an official's availability for an interval
// @Tags Officials
// @Accept json
// @Produce json
// @Param id path string true "Official ID"
// @Param payload body dto.CheckAvailabilityRequest true "Interval"
// @Success 200 {object} response.Envelope
// @Router /officials/{id}/availability/check [post]
func (h *OfficialHandler) CheckAvailability(c *gin.Context) {
	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
