package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/models"
	"github.com/maarif-dev/school-ops-api/internal/service"
	"github.com/maarif-dev/school-ops-api/pkg/response"
)

// RosterHandler serves the student and teacher read surfaces.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

func parseActiveQuery(c *gin.Context) *bool {
	raw := c.Query("active")
	if raw == "" {
		return nil
	}
	active, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &active
}

// ListStudents godoc
// @Summary List students
// @Tags Rosters
// @Produce json
// @Param search query string false "Search by name"
// @Param classLabel query string false "Filter by class label"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) ListStudents(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = c.Query("search")
	filter.ClassLabel = c.Query("classLabel")
	filter.Active = parseActiveQuery(c)
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.service.ListStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Rosters
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *RosterHandler) ListTeachers(c *gin.Context) {
	var filter models.TeacherFilter
	filter.Search = c.Query("search")
	filter.Active = parseActiveQuery(c)
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	teachers, pagination, err := h.service.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}
