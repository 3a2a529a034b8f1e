package handler

import (
	"fmt"
	"io"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/infrastructure/storage"
	"github.com/marealta/backend/internal/interfaces/http/middleware"
)

// maxUploadSize caps attachment uploads at 10 MiB
const maxUploadSize = 10 << 20

// UploadHandler stores order attachments (photos, invoices, reports)
type UploadHandler struct {
	BaseHandler
	store storage.Storage
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

// RegisterRoutes registers attachment routes
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	attachments := rg.Group("/attachments")
	attachments.GET("/:key", h.Download)

	write := attachments.Group("", middleware.RequireWriteRole())
	write.POST("", h.Upload)
	write.DELETE("/:key", h.Delete)
}

// tenantKey prefixes a stored object key with the tenant so one tenant
// can never address another tenant's files
func tenantKey(c *gin.Context, name string) (string, bool) {
	tenantID := logger.GetTenantID(c.Request.Context())
	if tenantID == uuid.Nil {
		return "", false
	}
	return fmt.Sprintf("%s/%s", tenantID, path.Base(name)), true
}

// Upload stores a multipart file and returns its key
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = newLimitedBody(c, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file")
		return
	}

	key, ok := tenantKey(c, uuid.NewString()+path.Ext(file.Filename))
	if !ok {
		h.BadRequest(c, "No active tenant")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if err := h.store.Put(c.Request.Context(), key, contentType, src); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{"key": key, "filename": file.Filename, "size": file.Size})
}

// Download streams a stored file back to the client
func (h *UploadHandler) Download(c *gin.Context) {
	key, ok := tenantKey(c, c.Param("key"))
	if !ok {
		h.BadRequest(c, "No active tenant")
		return
	}

	body, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer body.Close()

	c.Status(200)
	_, _ = io.Copy(c.Writer, body)
}

// Delete removes a stored file
func (h *UploadHandler) Delete(c *gin.Context) {
	key, ok := tenantKey(c, c.Param("key"))
	if !ok {
		h.BadRequest(c, "No active tenant")
		return
	}

	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func newLimitedBody(c *gin.Context, limit int64) io.ReadCloser {
	return readCloser{Reader: io.LimitReader(c.Request.Body, limit), Closer: c.Request.Body}
}

type readCloser struct {
	io.Reader
	io.Closer
}
