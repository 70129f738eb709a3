package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-service/internal/geo"
)

// MapHandler proxies the map service so API keys stay on the server.
type MapHandler struct {
	Maps geo.Service
}

func (h *MapHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/maps/search", h.SearchPlaces)
	rg.GET("/maps/place", h.GetPlace)
	rg.GET("/maps/location", h.GetLocationInfo)
}

// GET /api/maps/search?keyword=...
func (h *MapHandler) SearchPlaces(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusOK, []geo.Prediction{})
		return
	}
	predictions, err := h.Maps.SearchPlaces(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, err)
		return
	}
	if predictions == nil {
		predictions = []geo.Prediction{}
	}
	c.JSON(http.StatusOK, predictions)
}

// GET /api/maps/place?placeId=...
func (h *MapHandler) GetPlace(c *gin.Context) {
	placeID := c.Query("placeId")
	if placeID == "" {
		badRequest(c, "placeId is required")
		return
	}
	place, err := h.Maps.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// GET /api/maps/location?latitude=...&longitude=...
func (h *MapHandler) GetLocationInfo(c *gin.Context) {
	var at geo.Coordinates
	if err := c.ShouldBindQuery(&at); err != nil || c.Query("latitude") == "" || c.Query("longitude") == "" {
		badRequest(c, "latitude and longitude are required")
		return
	}
	info, err := h.Maps.GetLocationInfo(c.Request.Context(), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
