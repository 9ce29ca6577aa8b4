package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/media"
	"github.com/marmushop/booking-api/internal/models"
)

// maxUploadBytes caps gallery uploads at 10 MB before re-encoding.
const maxUploadBytes = 10 << 20

type GalleryHandler struct {
	gallery *media.Gallery
}

func NewGalleryHandler(gallery *media.Gallery) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// ======================================================
// LIST (public)
// ======================================================

// List serves the showcase for both services in one response.
func (h *GalleryHandler) List(c *gin.Context) {
	haircuts, err := h.gallery.List(c.Request.Context(), models.ServiceHaircut)
	if err != nil {
		httperr.Internal(c, "gallery_unavailable", "Could not load gallery.")
		return
	}

	tattoos, err := h.gallery.List(c.Request.Context(), models.ServiceTattoo)
	if err != nil {
		httperr.Internal(c, "gallery_unavailable", "Could not load gallery.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"haircuts": haircuts,
		"tattoos":  tattoos,
	})
}

// ======================================================
// UPLOAD (admin)
// ======================================================

// Upload accepts a multipart image and stores it under the service
// prefix as WebP.
func (h *GalleryHandler) Upload(c *gin.Context) {
	service := strings.ToLower(strings.TrimSpace(c.PostForm("service")))
	if service != models.ServiceHaircut && service != models.ServiceTattoo {
		httperr.BadRequest(c, "invalid_service", "Service must be haircut or tattoo.")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "An image file is required.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Image must be 10 MB or less.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not read the uploaded file.")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not read the uploaded file.")
		return
	}

	url, err := h.gallery.Upload(c.Request.Context(), service, fileHeader.Filename, raw)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not store the image.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully!",
		"url":     url,
	})
}
