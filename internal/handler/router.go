package handler

import (
	"github.com/gin-gonic/gin"

	"room-service/internal/middleware"
)

// Handlers groups the API handlers. Photos and Maps may be nil when their
// backends are not configured.
type Handlers struct {
	Rooms  *RoomHandler
	Drafts *DraftHandler
	Auth   *AuthHandler
	Maps   *MapHandler
	Photos *PhotoHandler
}

func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	api := r.Group("/api")
	protected := api.Group("/")
	protected.Use(middleware.JWTAuthMiddleware(jwtSecret))

	h.Rooms.RegisterRoutes(api, protected)
	h.Drafts.RegisterRoutes(protected)
	h.Auth.RegisterRoutes(api)
	if h.Maps != nil {
		h.Maps.RegisterRoutes(api)
	}
	if h.Photos != nil {
		h.Photos.RegisterRoutes(api, protected)
	}
	return r
}
