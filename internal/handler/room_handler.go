package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"room-service/internal/middleware"
	"room-service/internal/model"
	"room-service/internal/service"
)

type RoomHandler struct {
	Service *service.RoomService
}

func (h *RoomHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/rooms", h.ListRooms)
	public.GET("/rooms/:id", h.GetRoom)
	protected.POST("/rooms", h.RegisterRoom)
}

// POST /api/rooms
func (h *RoomHandler) RegisterRoom(c *gin.Context) {
	var req model.RegisterRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	hostID, ok := middleware.HostID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no host"})
		return
	}

	room, err := h.Service.Register(c.Request.Context(), hostID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GET /api/rooms?location=...&latitude=...&longitude=...&guests=...&limit=...&offset=...
func (h *RoomHandler) ListRooms(c *gin.Context) {
	f := model.RoomFilter{Location: c.Query("location")}
	if v := c.Query("latitude"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			f.Latitude = &lat
		}
	}
	if v := c.Query("longitude"); v != "" {
		if lng, err := strconv.ParseFloat(v, 64); err == nil {
			f.Longitude = &lng
		}
	}
	f.Guests, _ = strconv.Atoi(c.Query("guests"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	rooms, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}
