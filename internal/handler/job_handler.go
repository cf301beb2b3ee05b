// internal/handler/job_handler.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// JobHandler handles stored decode job requests
type JobHandler struct {
	decodeService *service.DecodeService
	logger        *utils.ServiceLogger
}

// NewJobHandler creates a new job handler
func NewJobHandler(decodeService *service.DecodeService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		decodeService: decodeService,
		logger:        utils.NewServiceLogger(logger, "job-handler"),
	}
}

// ListJobs lists stored jobs with filtering and pagination
// @Summary List jobs
// @Description Get stored decode jobs with filtering and pagination support
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param source query string false "Filter by source name"
// @Param source_type query string false "Filter by source type" Enums(API, SERIAL, TCP, USB)
// @Param status query string false "Filter by status" Enums(DECODED, PARTIAL, EMPTY)
// @Param start_date query string false "Created at or after (RFC3339)"
// @Param end_date query string false "Created at or before (RFC3339)"
// @Param sort_order query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {object} utils.APIResponse{data=object{jobs=[]model.DecodeJob,pagination=service.PaginationResult}} "Jobs retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := parseJobFilter(c)

	jobs, pagination, err := h.decodeService.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}

	utils.ListResponse(c, "Jobs retrieved successfully", "jobs", jobs, pagination)
}

// GetJob gets a stored job by id
// @Summary Get job
// @Description Get a stored decode job by its id
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse{data=model.DecodeJob} "Job retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid job id"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	job, err := h.decodeService.GetJob(c.Request.Context(), id)
	if err != nil {
		h.jobError(c, "Failed to get job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job retrieved successfully", job)
}

// GetJobRaw downloads the original bytes of a job
// @Summary Download job bytes
// @Description Download the original byte stream of a stored job
// @Tags Jobs
// @Produce octet-stream
// @Param id path string true "Job ID"
// @Success 200 {file} binary "Job bytes"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{id}/raw [get]
func (h *JobHandler) GetJobRaw(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	raw, err := h.decodeService.GetRaw(c.Request.Context(), id)
	if err != nil {
		h.jobError(c, "Failed to get job bytes", err)
		return
	}
	if len(raw) == 0 {
		utils.ErrorResponse(c, http.StatusNotFound, "Job has no stored bytes", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.bin"`, id))
	c.Data(http.StatusOK, "application/octet-stream", raw)
}

// RedecodeJob decodes a stored job again
// @Summary Re-decode job
// @Description Run the stored bytes of a job through the decoder again, optionally against another table
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Param table query string false "Command table"
// @Success 200 {object} utils.APIResponse{data=model.DecodeResult} "Job decoded"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{id}/redecode [post]
func (h *JobHandler) RedecodeJob(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.decodeService.Redecode(c.Request.Context(), id, c.Query("table"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownTable) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Unknown command table", err)
			return
		}
		h.jobError(c, "Failed to re-decode job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job decoded successfully", result)
}

// DeleteJob deletes a stored job
// @Summary Delete job
// @Description Delete a stored decode job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse "Job deleted successfully"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.decodeService.DeleteJob(c.Request.Context(), id); err != nil {
		h.jobError(c, "Failed to delete job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job deleted successfully", nil)
}

// GetJobStats aggregates stored jobs
// @Summary Job statistics
// @Description Get job counts by status and source
// @Tags Jobs
// @Produce json
// @Param source query string false "Filter by source name"
// @Param start_date query string false "Created at or after (RFC3339)"
// @Param end_date query string false "Created at or before (RFC3339)"
// @Success 200 {object} utils.APIResponse{data=repository.JobStats} "Statistics retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /jobs/stats [get]
func (h *JobHandler) GetJobStats(c *gin.Context) {
	stats, err := h.decodeService.GetStats(c.Request.Context(), parseJobFilter(c))
	if err != nil {
		h.logger.Error("Failed to get job stats", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get job statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// ListEvents lists the newest journal events
// @Summary List events
// @Description Get the most recent job and capture events
// @Tags Jobs
// @Produce json
// @Param limit query int false "Maximum events" default(50)
// @Success 200 {object} utils.APIResponse{data=[]model.JobEvent} "Events retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /events [get]
func (h *JobHandler) ListEvents(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	events, err := h.decodeService.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Events retrieved successfully", events)
}

func (h *JobHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid job ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *JobHandler) jobError(c *gin.Context, message string, err error) {
	if errors.Is(err, repository.ErrJobNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "Job not found", err)
		return
	}
	h.logger.Error(message, zap.Error(err))
	utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
}

// parseJobFilter reads listing filters from the query string
func parseJobFilter(c *gin.Context) *repository.JobFilter {
	filter := &repository.JobFilter{
		Page:      1,
		PerPage:   20,
		SortOrder: "desc",
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if perPage := c.Query("per_page"); perPage != "" {
		if pp, err := strconv.Atoi(perPage); err == nil && pp > 0 && pp <= 100 {
			filter.PerPage = pp
		}
	}

	if source := c.Query("source"); source != "" {
		filter.Source = &source
	}
	if sourceType := c.Query("source_type"); sourceType != "" {
		st := model.SourceType(sourceType)
		filter.SourceType = &st
	}
	if status := c.Query("status"); status != "" {
		s := model.JobStatus(status)
		filter.Status = &s
	}

	if startDate := c.Query("start_date"); startDate != "" {
		if date, err := time.Parse(time.RFC3339, startDate); err == nil {
			filter.StartDate = &date
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if date, err := time.Parse(time.RFC3339, endDate); err == nil {
			filter.EndDate = &date
		}
	}
	if sortOrder := c.Query("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	return filter
}
