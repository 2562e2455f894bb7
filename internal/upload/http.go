package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karagol/memorywall/internal/fault"
	"github.com/karagol/memorywall/internal/metrics"
)

// RegisterRoutes mounts upload operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/upload-url", handler.prepareUpload)
	group.POST("/upload", handler.pushUpload)
}

type httpHandler struct {
	service *Service
}

type prepareUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	FileHash    string `json:"fileHash"`
}

func (h *httpHandler) prepareUpload(c *gin.Context) {
	var req prepareUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	ticket, err := h.service.PrepareUpload(c.Request.Context(), Request{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        req.Size,
		FileHash:    req.FileHash,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if ticket.Skipped {
		metrics.UploadsSkipped.Inc()
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"skipped":   true,
			"objectKey": ticket.ObjectKey,
			"message":   "file already uploaded",
		})
		return
	}

	metrics.UploadURLsIssued.Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"uploadUrl": ticket.UploadURL,
		"objectKey": ticket.ObjectKey,
		"expiresIn": ticket.ExpiresIn,
	})
}

func (h *httpHandler) pushUpload(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable request body"})
		return
	}

	stored, err := h.service.IngestPush(c.Request.Context(), body, c.GetHeader("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.PushFilesStored.Add(float64(len(stored)))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "upload complete",
		"files":   stored,
	})
}

func writeError(c *gin.Context, err error) {
	c.JSON(fault.HTTPStatus(err), gin.H{"success": false, "error": fault.Message(err)})
}
