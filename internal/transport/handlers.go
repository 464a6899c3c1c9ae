package transport

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/ds124wfegd/pasphoto/internal/service"
	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	service service.PhotoService
}

func NewPhotoHandler(service service.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// processForm mirrors the upload form; defaults match its initial values.
type processForm struct {
	RemoveBackground bool `form:"remove_background"`
	TargetWidth      int  `form:"target_width,default=800" binding:"min=100,max=4000"`
	TargetHeight     int  `form:"target_height,default=600" binding:"min=100,max=4000"`
	TargetSizeKB     int  `form:"target_size_kb,default=100" binding:"min=10,max=5000"`
}

func (f processForm) config() entity.ProcessingConfig {
	return entity.ProcessingConfig{
		RemoveBackground: f.RemoveBackground,
		TargetWidth:      f.TargetWidth,
		TargetHeight:     f.TargetHeight,
		TargetSizeKB:     f.TargetSizeKB,
	}
}

func isValidImageType(filename string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
	return validTypes[strings.ToLower(filepath.Ext(filename))]
}

// errorStatus maps domain errors to HTTP codes; anything unknown is a 500.
func errorStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidOptions),
		errors.Is(err, entity.ErrUnsupportedFormat),
		errors.Is(err, entity.ErrDecodeImage):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrResultNotReady):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError hides internal error text behind a generic message.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	_ = c.Error(err)

	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "Failed to process image"
	case http.StatusGatewayTimeout:
		msg = "Processing timed out"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
