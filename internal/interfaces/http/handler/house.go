package handler

import (
	housingapp "github.com/colony/backend/internal/application/housing"
	"github.com/gin-gonic/gin"
)

// HouseHandler serves the portion ledger
type HouseHandler struct {
	BaseHandler
	houseService *housingapp.HouseService
}

// NewHouseHandler creates a new HouseHandler
func NewHouseHandler(houseService *housingapp.HouseService) *HouseHandler {
	return &HouseHandler{houseService: houseService}
}

// List returns houses ordered by house number, optionally filtered by ?search=
func (h *HouseHandler) List(c *gin.Context) {
	houses, err := h.houseService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, houses)
}

// Summary returns the colony-wide portion totals
func (h *HouseHandler) Summary(c *gin.Context) {
	summary, err := h.houseService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Create registers a house
func (h *HouseHandler) Create(c *gin.Context) {
	var req housingapp.CreateHouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	house, err := h.houseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, house)
}

// GetByID returns one house
func (h *HouseHandler) GetByID(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	house, err := h.houseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, house)
}

// Update merges the supplied fields into a house
func (h *HouseHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req housingapp.UpdateHouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	house, err := h.houseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, house)
}

// Delete removes a house that no tenant references
func (h *HouseHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.houseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
