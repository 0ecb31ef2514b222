package observability

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PrometheusHandler adapts the promhttp handler for the gin router. A nil
// handler means telemetry was never initialized; that is reported rather
// than served as an empty scrape page.
func PrometheusHandler(handler http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if handler == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "telemetry not initialized",
			})
			return
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
