package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/service"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/response"
)

// ReportHandler exposes the bulk day-sheet report action.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// SendBulkReport godoc
// @Summary Send the class day-sheet report for a slot
// @Tags Reports
// @Produce application/octet-stream
// @Param id path string true "Slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "Report format (pdf or csv)" default(pdf)
// @Success 200 {file} binary
// @Failure 412 {object} response.Envelope
// @Router /schedule/{id}/report [post]
func (h *ReportHandler) SendBulkReport(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", "pdf")

	rendered, receipt, err := h.service.SendBulkReport(c.Request.Context(), c.Param("id"), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	contentType := "application/pdf"
	if receipt.Format == "csv" {
		contentType = "text/csv"
	}
	filename := fmt.Sprintf("day-sheet_%s_%s.%s", receipt.SlotID, date.Format("2006-01-02"), receipt.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Report-Students", fmt.Sprintf("%d", receipt.Students))
	if receipt.DownloadToken != "" {
		c.Header("X-Report-Download-Token", receipt.DownloadToken)
	}
	c.Data(http.StatusOK, contentType, rendered)
}

// Download godoc
// @Summary Download an archived report by signed token
// @Tags Reports
// @Produce application/octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}
	data, relPath, err := h.service.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	contentType := "application/pdf"
	if strings.HasSuffix(relPath, ".csv") {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Data(http.StatusOK, contentType, data)
}
