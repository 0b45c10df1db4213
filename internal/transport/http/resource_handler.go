package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nusantara-culture-service/internal/app"
	"nusantara-culture-service/internal/domain"
	"nusantara-culture-service/internal/logger"
)

type ResourceHandler struct {
	log      *logger.Logger
	service  *app.ResourceService
	maxBytes int64
}

func NewResourceHandler(log *logger.Logger, service *app.ResourceService, maxBytes int64) *ResourceHandler {
	return &ResourceHandler{log: log.With("handler", "ResourceHandler"), service: service, maxBytes: maxBytes}
}

type createResourceRequest struct {
	ProvinceSlug string            `json:"provinceSlug" binding:"required"`
	Kind         string            `json:"kind" binding:"required"`
	Name         string            `json:"name" binding:"required"`
	Fields       map[string]string `json:"fields"`
}

// POST /resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	resource, err := h.service.CreateResource(c.Request.Context(), app.CreateResourceInput{
		ProvinceSlug: req.ProvinceSlug,
		Kind:         domain.ResourceKind(req.Kind),
		Name:         req.Name,
		Fields:       req.Fields,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resource)
}

// GET /resources/:resourceId
func (h *ResourceHandler) Get(c *gin.Context) {
	resource, err := h.service.GetResource(c.Request.Context(), c.Param("resourceId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, resource)
}

const multipartOverhead = 1 << 20

// PUT /resources/:resourceId/:slot
// multipart form, file field "file"
func (h *ResourceHandler) ReplaceAsset(c *gin.Context) {
	// Room for the multipart envelope around a file at the size limit.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.log, domain.Invalid("file", "multipart field \"file\" is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, h.log, domain.Invalid("file", "unreadable upload"))
		return
	}
	defer f.Close()

	// one byte past the limit is enough for the size check
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		respondError(c, h.log, domain.Invalid("file", "unreadable upload"))
		return
	}

	ref, err := h.service.ReplaceAsset(c.Request.Context(), c.Param("resourceId"), domain.Slot(c.Param("slot")), domain.Blob{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, ref)
}
