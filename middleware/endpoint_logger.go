package middleware

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ariebrainware/practice-records/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs each HTTP request as a single event line.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      status,
			"duration_ms": duration.Milliseconds(),
		}
		// Query values may carry patient data; only the names are logged.
		if keys := queryKeys(c.Request.URL.Query()); keys != "" {
			details["query_keys"] = keys
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.String()
		}

		util.LogEvent(util.Event{
			Type:      util.EventEndpointCall,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}

func queryKeys(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
