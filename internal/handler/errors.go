package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"room-service/internal/geo"
	"room-service/internal/registerroom"
	"room-service/internal/repository"
	"room-service/internal/service"
	"room-service/internal/wizard"
)

var statusOf = []struct {
	err    error
	status int
}{
	{repository.ErrNotFound, http.StatusNotFound},
	{repository.ErrDraftNotFound, http.StatusNotFound},
	{service.ErrUnknownStep, http.StatusNotFound},
	{geo.ErrNoResults, http.StatusNotFound},
	{service.ErrHostMismatch, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{registerroom.ErrUnknownAction, http.StatusBadRequest},
	{registerroom.ErrInvalidPayload, http.StatusBadRequest},
	{wizard.ErrStepInvalid, http.StatusUnprocessableEntity},
	{service.ErrInvalidForm, http.StatusUnprocessableEntity},
	{service.ErrUnknownOption, http.StatusUnprocessableEntity},
	{service.ErrWeakPassword, http.StatusUnprocessableEntity},
	{geo.ErrLocationUnavailable, http.StatusUnprocessableEntity},
}

// respondError writes err as {"error": ...}. Unknown errors become a 500
// without their details.
func respondError(c *gin.Context, err error) {
	for _, s := range statusOf {
		if errors.Is(err, s.err) {
			c.JSON(s.status, gin.H{"error": err.Error()})
			return
		}
	}
	_ = c.Error(err)
	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
