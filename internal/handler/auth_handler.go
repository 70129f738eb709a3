package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-service/internal/model"
	"room-service/internal/password"
	"room-service/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/password-check", h.CheckPassword)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	resp, err := h.Service.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	resp, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type passwordCheckRequest struct {
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// CheckPassword returns the rule hints for a password being typed.
func (h *AuthHandler) CheckPassword(c *gin.Context) {
	var req passwordCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	warnings := password.Check(req.Password, req.Name, req.Email)
	c.JSON(http.StatusOK, gin.H{"warnings": warnings, "valid": password.Valid(warnings)})
}
