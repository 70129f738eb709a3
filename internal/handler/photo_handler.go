package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"room-service/internal/repository"
)

const maxPhotoSize = 10 << 20

// PhotoStore is implemented by repository.PhotoRepository.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, file io.Reader, filename, contentType string, hostID int64) (string, error)
	DownloadPhoto(ctx context.Context, photoID string) (*repository.Photo, error)
}

type PhotoHandler struct {
	Repo PhotoStore
}

func (h *PhotoHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	protected.POST("/register/photos", h.UploadPhoto)
	public.GET("/photos/:id", h.DownloadPhoto)
}

// POST /api/register/photos (multipart "file"). The returned url goes into
// the form's photos field.
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	hostID, ok := host(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only images are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
		return
	}
	defer file.Close()

	photoID, err := h.Repo.UploadPhoto(c.Request.Context(), file, path.Base(fileHeader.Filename), contentType, hostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": photoID, "url": "/api/photos/" + photoID})
}

// GET /api/photos/:id
func (h *PhotoHandler) DownloadPhoto(c *gin.Context) {
	photo, err := h.Repo.DownloadPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if photo.Filename != "" {
		c.Header("Content-Disposition", "inline; filename="+photo.Filename)
	}
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}
