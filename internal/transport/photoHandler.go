package transport

import (
	_ "embed"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/pasphoto/internal/entity"
	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexHTML []byte

func (h *PhotoHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// readUpload binds the form fields and opens the uploaded image.
func readUpload(c *gin.Context) (multipart.File, entity.ProcessingConfig, error) {
	var form processForm
	if err := c.ShouldBind(&form); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, entity.ProcessingConfig{}, err
		}
		return nil, entity.ProcessingConfig{}, fmt.Errorf("%w: %v", entity.ErrInvalidOptions, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, entity.ProcessingConfig{}, fmt.Errorf("%w: no image file provided", entity.ErrInvalidOptions)
	}

	// Проверка типа файла
	if !isValidImageType(file.Filename) {
		return nil, entity.ProcessingConfig{}, fmt.Errorf("%w: supported: jpg, jpeg, png", entity.ErrUnsupportedFormat)
	}

	src, err := file.Open()
	if err != nil {
		return nil, entity.ProcessingConfig{}, err
	}
	return src, form.config(), nil
}

func (h *PhotoHandler) ProcessPhoto(c *gin.Context) {
	src, cfg, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	result, err := h.service.Process(c.Request.Context(), src, cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Jpeg-Quality", strconv.Itoa(result.Quality))
	c.Header("X-Compress-Fallback", strconv.FormatBool(result.Fallback))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entity.ResultFileName))
	c.Data(http.StatusOK, entity.ResultMimeType, result.Data)
}

func (h *PhotoHandler) SubmitJob(c *gin.Context) {
	src, cfg, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	job, err := h.service.Submit(c.Request.Context(), src, cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, entity.SubmitResponse{
		ID:     job.ID,
		Status: job.Status,
	})
}

func (h *PhotoHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *PhotoHandler) DownloadResult(c *gin.Context) {
	rc, job, err := h.service.OpenResult(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, int64(job.ResultSize), entity.ResultMimeType, rc, map[string]string{
		"X-Jpeg-Quality":      strconv.Itoa(job.Quality),
		"X-Compress-Fallback": strconv.FormatBool(job.Fallback),
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", entity.ResultFileName),
	})
}

func (h *PhotoHandler) DeleteJob(c *gin.Context) {
	if err := h.service.DeleteJob(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
