package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/service"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
	"github.com/schoolsync/school-admin-api/pkg/response"
)

// ExamHandler wires exam services to HTTP routes.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs a new ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List godoc
// @Summary List exams
// @Description Rows are filtered to the caller's visibility scope
// @Tags Exams
// @Produce json
// @Param search query string false "Search by subject name"
// @Param classId query int false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	filter := models.ExamFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		TeacherID: strings.TrimSpace(c.Query("teacherId")),
		Page:      pageQuery(c),
	}
	classID, err := intQuery(c, "classId")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.ClassID = classID

	exams, pagination, err := h.exams.List(c.Request.Context(), filter, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, pagination)
}

// Get godoc
// @Summary Get exam detail
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	exam, err := h.exams.Get(c.Request.Context(), id, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// Create godoc
// @Summary Create exam
// @Description Teachers may only schedule exams on their own lessons
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body models.ExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req models.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam payload"))
		return
	}
	exam, err := h.exams.Create(c.Request.Context(), req, callerFromContext(c))
	response.Action(c, http.StatusCreated, exam, err)
}

// Update godoc
// @Summary Update exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body models.ExamRequest true "Exam payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /exams/{id} [put]
func (h *ExamHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam payload"))
		return
	}
	exam, err := h.exams.Update(c.Request.Context(), id, req, callerFromContext(c))
	response.Action(c, http.StatusOK, exam, err)
}

// Delete godoc
// @Summary Delete exam
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	err = h.exams.Delete(c.Request.Context(), id, callerFromContext(c))
	response.Action(c, http.StatusOK, nil, err)
}
