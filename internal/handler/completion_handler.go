package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/service"
	"github.com/maarif-dev/school-ops-api/pkg/response"
)

// CompletionHandler exposes derived session completion.
type CompletionHandler struct {
	service *service.CompletionService
}

// NewCompletionHandler constructs handler.
func NewCompletionHandler(svc *service.CompletionService) *CompletionHandler {
	return &CompletionHandler{service: svc}
}

// CompletedSet godoc
// @Summary Completed slot ids for a date
// @Tags Completion
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /completion [get]
func (h *CompletionHandler) CompletedSet(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	set, err := h.service.CompletedSet(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, set, nil)
}

// SlotCompletion godoc
// @Summary Roster coverage for one slot on a date
// @Tags Completion
// @Produce json
// @Param id path string true "Slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id}/completion [get]
func (h *CompletionHandler) SlotCompletion(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	completion, err := h.service.SlotCompletion(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, completion, nil)
}
