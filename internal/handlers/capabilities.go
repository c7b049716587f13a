package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Generation capabilities
// @Description  Which model backends were detected at startup and the order strategies are tried in.
// @Tags         system
// @Produce      json
// @Success      200  {object}  service.CapabilityReport
// @Router       /api/capabilities [get]
func (h *Handler) getCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Describe())
}
