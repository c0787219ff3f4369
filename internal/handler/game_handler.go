package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/models"
	"github.com/noah-isme/ref-assign-api/internal/service"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
	"github.com/noah-isme/ref-assign-api/pkg/response"
)

// GameHandler manages game endpoints.
type GameHandler struct {
	service *service.GameService
}

// NewGameHandler constructs handler.
func NewGameHandler(svc *service.GameService) *GameHandler {
	return &GameHandler{service: svc}
}

// List godoc
// @Summary List games
// @Tags Games
// @Produce json
// @Param from query string false "Earliest start time (RFC 3339)"
// @Param to query string false "Latest start time (RFC 3339)"
// @Param minLevel query int false "Minimum required level"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /games [get]
func (h *GameHandler) List(c *gin.Context) {
	var filter models.GameFilter
	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &to
		}
	}
	if minLevel, err := strconv.Atoi(c.DefaultQuery("minLevel", "0")); err == nil {
		filter.MinLevel = minLevel
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortOrder = c.Query("order")

	games, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, games, pagination)
}

// Get godoc
// @Summary Get a game
// @Tags Games
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} response.Envelope
// @Router /games/{id} [get]
func (h *GameHandler) Get(c *gin.Context) {
	game, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, game, nil)
}

// Create godoc
// @Summary Schedule a game
// @Tags Games
// @Accept json
// @Produce json
// @Param payload body dto.CreateGameRequest true "Game"
// @Success 201 {object} response.Envelope
// @Router /games [post]
func (h *GameHandler) Create(c *gin.Context) {
	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	game, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, game)
}
