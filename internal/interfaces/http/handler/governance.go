package handler

import (
	governanceapp "github.com/colony/backend/internal/application/governance"
	"github.com/gin-gonic/gin"
)

// GovernanceHandler serves the office-bearer registry
type GovernanceHandler struct {
	BaseHandler
	registry *governanceapp.BearerRegistryService
}

// NewGovernanceHandler creates a new GovernanceHandler
func NewGovernanceHandler(registry *governanceapp.BearerRegistryService) *GovernanceHandler {
	return &GovernanceHandler{registry: registry}
}

// Roles returns the role catalog
func (h *GovernanceHandler) Roles(c *gin.Context) {
	h.Success(c, h.registry.Catalog())
}

// Roster returns every role with its active holders
func (h *GovernanceHandler) Roster(c *gin.Context) {
	roster, err := h.registry.Roster(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roster)
}

// Appoint records a new office bearer, archiving the previous holder of a
// single-seat role
func (h *GovernanceHandler) Appoint(c *gin.Context) {
	var req governanceapp.AppointRequest
	if !h.BindJSON(c, &req) {
		return
	}

	appointment, err := h.registry.Appoint(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appointment)
}

// Remove archives an active office bearer
func (h *GovernanceHandler) Remove(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	bearer, err := h.registry.Remove(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bearer)
}

// Active returns the holder of a single-seat role; data is null while the
// seat is vacant
func (h *GovernanceHandler) Active(c *gin.Context) {
	bearer, err := h.registry.ActiveFor(c.Request.Context(), c.Param("role"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if bearer == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, bearer)
}

// Members returns the active holders of a role
func (h *GovernanceHandler) Members(c *gin.Context) {
	members, err := h.registry.ActiveMultiSeat(c.Request.Context(), c.Param("role"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// Tenure returns the full history of a role, newest first
func (h *GovernanceHandler) Tenure(c *gin.Context) {
	records, err := h.registry.Tenure(c.Request.Context(), c.Param("role"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}
