package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-service/internal/geo"
	"room-service/internal/middleware"
	"room-service/internal/registerroom"
	"room-service/internal/service"
)

// DraftHandler serves the server-held registration forms.
type DraftHandler struct {
	Service *service.DraftService
}

func (h *DraftHandler) RegisterRoutes(protected *gin.RouterGroup) {
	drafts := protected.Group("/register/drafts")
	drafts.POST("", h.CreateDraft)
	drafts.GET("/:id", h.GetDraft)
	drafts.DELETE("/:id", h.DeleteDraft)
	drafts.POST("/:id/actions", h.ApplyAction)
	drafts.GET("/:id/steps/:step", h.GetStep)
	drafts.POST("/:id/building/large-type", h.SelectLargeBuildingType)
	drafts.POST("/:id/location/current", h.UseCurrentLocation)
	drafts.POST("/:id/submit", h.Submit)
}

type largeTypeRequest struct {
	LargeBuildingType string `json:"largeBuildingType"`
}

func host(c *gin.Context) (int64, bool) {
	id, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no host"})
	}
	return id, ok
}

func (h *DraftHandler) CreateDraft(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	d, err := h.Service.Create(c.Request.Context(), hostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	d, err := h.Service.Get(c.Request.Context(), hostID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), hostID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/register/drafts/:id/actions {"type": "...", "payload": ...}
func (h *DraftHandler) ApplyAction(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	var wa registerroom.WireAction
	if err := c.ShouldBindJSON(&wa); err != nil {
		badRequest(c, "invalid action")
		return
	}
	d, err := h.Service.Apply(c.Request.Context(), hostID, c.Param("id"), wa)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) GetStep(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	status, err := h.Service.Step(c.Request.Context(), hostID, c.Param("id"), c.Param("step"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *DraftHandler) SelectLargeBuildingType(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	var req largeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	d, err := h.Service.SelectLargeBuildingType(c.Request.Context(), hostID, c.Param("id"), req.LargeBuildingType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/register/drafts/:id/location/current {"latitude": .., "longitude": ..}
func (h *DraftHandler) UseCurrentLocation(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	var at geo.Coordinates
	if err := c.ShouldBindJSON(&at); err != nil {
		badRequest(c, "invalid coordinates")
		return
	}
	d, err := h.Service.UseCurrentLocation(c.Request.Context(), hostID, c.Param("id"), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) Submit(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	room, err := h.Service.Submit(c.Request.Context(), hostID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}
