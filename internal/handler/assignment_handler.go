package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/service"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
	"github.com/noah-isme/ref-assign-api/pkg/jobs"
	"github.com/noah-isme/ref-assign-api/pkg/response"
)

// AssignmentHandler manages assignment run endpoints.
type AssignmentHandler struct {
	service *service.AssignmentRunService
	queue   *jobs.Queue[dto.RunAssignmentsRequest]
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(svc *service.AssignmentRunService, queue *jobs.Queue[dto.RunAssignmentsRequest]) *AssignmentHandler {
	return &AssignmentHandler{service: svc, queue: queue}
}

// Run godoc
// @Summary Run the assignment engine over a date range
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.RunAssignmentsRequest true "Run parameters"
// @Success 200 {object} response.Envelope
// @Router /assignments/run [post]
func (h *AssignmentHandler) Run(c *gin.Context) {
	var req dto.RunAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.service.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RunAsync godoc
// @Summary Queue an assignment run for background execution
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.RunAssignmentsRequest true "Run parameters"
// @Success 202 {object} response.Envelope
// @Router /assignments/run/async [post]
func (h *AssignmentHandler) RunAsync(c *gin.Context) {
	if h.queue == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "background runs are disabled"))
		return
	}

	var req dto.RunAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	jobID := uuid.NewString()
	err := h.queue.Enqueue(jobs.Job[dto.RunAssignmentsRequest]{
		ID:      jobID,
		Payload: req,
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue run"))
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"jobId": jobID, "queuedAt": time.Now().UTC()}, nil)
}

// LatestReport godoc
// @Summary Fetch the most recent run report
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/report [get]
func (h *AssignmentHandler) LatestReport(c *gin.Context) {
	report, err := h.service.LatestReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ListByGame godoc
// @Summary List persisted assignments for a game
// @Tags Assignments
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} response.Envelope
// @Router /games/{id}/assignments [get]
func (h *AssignmentHandler) ListByGame(c *gin.Context) {
	assignments, err := h.service.ListByGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// ListByOfficial godoc
// @Summary List assignments held by an official
// @Tags Assignments
// @Produce json
// @Param id path string true "Official ID"
// @Success 200 {object} response.Envelope
// @Router /officials/{id}/assignments [get]
func (h *AssignmentHandler) ListByOfficial(c *gin.Context) {
	assignments, err := h.service.ListByOfficial(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Export godoc
// @Summary Export the latest run report as CSV or PDF
// @Tags Assignments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /assignments/report/export [get]
func (h *AssignmentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportLatest(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if format == "pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("assignment-report-%s.%s", time.Now().UTC().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
