package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/models"
	"github.com/maarif-dev/school-ops-api/internal/service"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/response"
)

// AttendanceHandler manages daily attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

func parseDateQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date query parameter required (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return date, nil
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param studentId query string false "Filter by student"
// @Param status query string false "Filter by attendance status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	var filter models.AttendanceFilter
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
			return
		}
		filter.Date = &date
	}
	filter.StudentID = c.Query("studentId")
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status"))
			return
		}
		filter.Status = &status
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// ApplyFieldEdit godoc
// @Summary Edit one field of a student's daily record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.FieldEditRequest true "Field edit payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/records [patch]
func (h *AttendanceHandler) ApplyFieldEdit(c *gin.Context) {
	var req service.FieldEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.ApplyFieldEdit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// DaySheet godoc
// @Summary Day sheet for a slot
// @Tags Attendance
// @Produce json
// @Param id path string true "Slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id}/day-sheet [get]
func (h *AttendanceHandler) DaySheet(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.service.DaySheet(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// SaveDaySheet godoc
// @Summary Save a whole day sheet
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.SaveDaySheetRequest true "Day sheet payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/day-sheet [post]
func (h *AttendanceHandler) SaveDaySheet(c *gin.Context) {
	var req service.SaveDaySheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	records, err := h.service.SaveDaySheet(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
