package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/service"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
	"github.com/schoolsync/school-admin-api/pkg/response"
)

// ResultHandler wires result services to HTTP routes.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs a new ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// List godoc
// @Summary List results
// @Description Rows are filtered to the caller's visibility scope
// @Tags Results
// @Produce json
// @Param search query string false "Search by student or assessment title"
// @Param studentId query string false "Filter by student"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	filter := models.ResultFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		StudentID: strings.TrimSpace(c.Query("studentId")),
		Page:      pageQuery(c),
	}

	results, pagination, err := h.results.List(c.Request.Context(), filter, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Get godoc
// @Summary Get result detail
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} response.Envelope
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.results.Get(c.Request.Context(), id, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export results
// @Description Download the caller-visible result rows as CSV or PDF
// @Tags Results
// @Produce octet-stream
// @Param search query string false "Search by student or assessment title"
// @Param studentId query string false "Filter by student"
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} byte
// @Router /results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	filter := models.ResultFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		StudentID: strings.TrimSpace(c.Query("studentId")),
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))

	data, contentType, err := h.results.Export(c.Request.Context(), filter, callerFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("results-%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// Create godoc
// @Summary Create result
// @Description Scores exactly one assessment, an exam or an assignment
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body models.ResultRequest true "Result payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.results.Create(c.Request.Context(), req, callerFromContext(c))
	response.Action(c, http.StatusCreated, result, err)
}

// Update godoc
// @Summary Update result
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "Result ID"
// @Param payload body models.ResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /results/{id} [put]
func (h *ResultHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid result payload"))
		return
	}
	result, err := h.results.Update(c.Request.Context(), id, req, callerFromContext(c))
	response.Action(c, http.StatusOK, result, err)
}

// Delete godoc
// @Summary Delete result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	err = h.results.Delete(c.Request.Context(), id, callerFromContext(c))
	response.Action(c, http.StatusOK, nil, err)
}
