package gallery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karagol/memorywall/internal/fault"
	"github.com/karagol/memorywall/internal/metrics"
)

// RegisterRoutes mounts gallery operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/photos", handler.listPhotos)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) listPhotos(c *gin.Context) {
	metrics.GalleryRequests.Inc()

	items, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(fault.HTTPStatus(err), gin.H{"success": false, "error": fault.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"photos":  items,
		"total":   len(items),
	})
}
