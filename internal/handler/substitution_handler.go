package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/service"
	appErrors "github.com/maarif-dev/school-ops-api/pkg/errors"
	"github.com/maarif-dev/school-ops-api/pkg/response"
)

// SubstitutionHandler manages substitute-teacher endpoints.
type SubstitutionHandler struct {
	service *service.SubstitutionService
}

// NewSubstitutionHandler constructs handler.
func NewSubstitutionHandler(svc *service.SubstitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: svc}
}

type assignSubstituteRequest struct {
	Teacher string `json:"teacher" binding:"required"`
}

// Assign godoc
// @Summary Assign substitute teacher
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body assignSubstituteRequest true "Substitute payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id}/substitute [post]
func (h *SubstitutionHandler) Assign(c *gin.Context) {
	var req assignSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.Assign(c.Request.Context(), c.Param("id"), req.Teacher)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Remove godoc
// @Summary Remove substitute teacher
// @Tags Substitutions
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id}/substitute [delete]
func (h *SubstitutionHandler) Remove(c *gin.Context) {
	slot, err := h.service.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Candidates godoc
// @Summary List substitute candidates for a slot
// @Tags Substitutions
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id}/substitute/candidates [get]
func (h *SubstitutionHandler) Candidates(c *gin.Context) {
	candidates, err := h.service.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}
