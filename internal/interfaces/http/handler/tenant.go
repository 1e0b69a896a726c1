package handler

import (
	residencyapp "github.com/colony/backend/internal/application/residency"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler serves tenant account provisioning
type TenantHandler struct {
	BaseHandler
	provisioner *residencyapp.TenantProvisioningService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(provisioner *residencyapp.TenantProvisioningService) *TenantHandler {
	return &TenantHandler{provisioner: provisioner}
}

// Provision creates the shadow identity and tenant profile. A metadata sync
// failure still answers 201 with a warning code in the body.
func (h *TenantHandler) Provision(c *gin.Context) {
	var req residencyapp.ProvisionTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.provisioner.Provision(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List returns tenant accounts, optionally for one house (?house_id=)
func (h *TenantHandler) List(c *gin.Context) {
	var houseID *uuid.UUID
	if raw := c.Query("house_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid house_id format")
			return
		}
		houseID = &id
	}

	accounts, err := h.provisioner.List(c.Request.Context(), houseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}
