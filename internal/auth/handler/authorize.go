package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authorize checks the Authorization header against the identity's
// stored token and returns the sanitized record. The header carries the
// raw token, no scheme prefix.
func (h *Handler) Authorize(c *gin.Context) {
	id := c.Param("id")
	presented := c.GetHeader("Authorization")

	ident, cErr := h.coordinator.Authorize(c.Request.Context(), id, presented)
	if cErr != nil {
		respondError(c, cErr)
		return
	}

	c.JSON(http.StatusOK, ident)
}
