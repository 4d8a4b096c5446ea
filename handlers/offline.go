package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tripmate-backend/cache"
	"tripmate-backend/utils"
)

// OfflineGateway fronts the app shell: every request not claimed by an API
// route is classified and served by the cache controller, so the shell
// keeps working when the upstream (or the network) is gone.
func OfflineGateway(ctrl *cache.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &cache.Request{
			URL: ctrl.Origin.ResolveReference(&url.URL{
				Path:     c.Request.URL.Path,
				RawQuery: c.Request.URL.RawQuery,
			}),
			Method:      c.Request.Method,
			Destination: c.GetHeader("Sec-Fetch-Dest"),
			Mode:        c.GetHeader("Sec-Fetch-Mode"),
			Accept:      c.GetHeader("Accept"),
		}

		entry := ctrl.Handle(c.Request.Context(), req)

		for key, values := range entry.Header {
			if key == "Content-Length" || key == "Content-Type" {
				continue
			}
			for _, value := range values {
				c.Writer.Header().Add(key, value)
			}
		}

		contentType := entry.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(entry.Status, contentType, entry.Body)
	}
}

// OfflineStatus reports the active cache version and its buckets.
// GET /api/offline/status
func OfflineStatus(ctrl *cache.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		buckets, err := ctrl.Store.Buckets(c.Request.Context())
		if err != nil {
			utils.InternalError(c, "Failed to list cache buckets")
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", gin.H{
			"version":        ctrl.Version,
			"static_bucket":  ctrl.StaticBucket(),
			"dynamic_bucket": ctrl.DynamicBucket(),
			"buckets":        buckets,
		})
	}
}
