package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadURLsIssued counts write credentials handed out.
	UploadURLsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memorywall_upload_urls_issued_total",
		Help: "Write credentials issued for direct-to-storage uploads.",
	})

	// UploadsSkipped counts hash-addressed uploads deduplicated away.
	UploadsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memorywall_uploads_skipped_total",
		Help: "Uploads skipped because the content hash was already stored.",
	})

	// PushFilesStored counts files written through the push-ingestion path.
	PushFilesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memorywall_push_files_total",
		Help: "Files written to storage via push ingestion.",
	})

	// GalleryRequests counts gallery listing requests.
	GalleryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memorywall_gallery_requests_total",
		Help: "Gallery listing requests received.",
	})
)

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
