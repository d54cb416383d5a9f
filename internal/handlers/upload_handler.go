package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"flymedia_backend/internal/services"
	"flymedia_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxSize       int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		maxSize:       maxSize,
	}
}

// ============================================
// ROUTES
// ============================================

// RegisterRoutes mounts the relay at the root, where the dashboard expects it.
func (h *UploadHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/files", h.ListFiles)
	r.POST("/upload", h.UploadFile)
	r.DELETE("/files/:name", h.DeleteFile)
	r.GET(services.UploadsPath+"/:name", h.ServeFile)
	r.HEAD(services.UploadsPath+"/:name", h.ServeFile)
}

// ============================================
// HANDLERS
// ============================================

func (h *UploadHandler) UploadFile(c *gin.Context) {
	if h.maxSize > 0 {
		// Leave headroom for the multipart envelope; the exact check runs on the part size.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperrors.HandleError(c, apperrors.ErrFileTooLarge(h.maxSize))
			return
		}
		apperrors.HandleError(c, apperrors.ErrFileMissing)
		return
	}

	resp, err := h.uploadService.Upload(c.Request.Context(), fh)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UploadHandler) ListFiles(c *gin.Context) {
	names, err := h.uploadService.ListFiles(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *UploadHandler) ServeFile(c *gin.Context) {
	rc, meta, err := h.uploadService.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer rc.Close()

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{
		"Cache-Control": "public, max-age=3600",
	}
	if meta.Size >= 0 {
		headers["X-File-Size"] = strconv.FormatInt(meta.Size, 10)
	}
	c.DataFromReader(http.StatusOK, meta.Size, contentType, rc, headers)
}

func (h *UploadHandler) DeleteFile(c *gin.Context) {
	if err := h.uploadService.DeleteFile(c.Request.Context(), c.Param("name")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
