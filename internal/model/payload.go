package model

import (
	"time"

	"room-service/internal/registerroom"
)

// RegisterRoomRequest is the body of POST /api/rooms: the whole
// registration form plus the host it belongs to.
type RegisterRoomRequest struct {
	registerroom.State
	HostID int64 `json:"hostId"`
}

// Draft is a registration form kept on the server between wizard screens.
type Draft struct {
	ID        string             `json:"id"`
	HostID    int64              `json:"hostId"`
	State     registerroom.State `json:"state"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
