package handler

import (
	"strconv"

	"github.com/colony/backend/internal/domain/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler lists the recorded domain events
type AuditHandler struct {
	BaseHandler
	repo audit.Repository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(repo audit.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Latest returns the newest entries; ?limit= is clamped to audit.MaxLimit
func (h *AuditHandler) Latest(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.repo.Latest(c.Request.Context(), audit.ClampLimit(limit))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
