package middleware

import (
	"time"

	"github.com/ariebrainware/practice-records/metrics"
	"github.com/ariebrainware/practice-records/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	storeKey    = "store"
	recorderKey = "metrics_recorder"
)

// CORSMiddleware configures CORS headers for incoming requests.
// A "*" entry in origins allows every origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "X-Requested-With", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 || containsWildcard(origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// DatabaseMiddleware makes the store available to handlers.
func DatabaseMiddleware(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if st != nil {
			c.Set(storeKey, st)
		}
		c.Next()
	}
}

// GetStore returns the store injected by DatabaseMiddleware, or nil.
func GetStore(c *gin.Context) *store.Store {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil
	}
	st, _ := v.(*store.Store)
	return st
}

// MetricsMiddleware makes a metrics recorder available to handlers.
func MetricsMiddleware(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec != nil {
			c.Set(recorderKey, rec)
		}
		c.Next()
	}
}

// GetRecorder returns the injected recorder, or a no-op one.
func GetRecorder(c *gin.Context) metrics.Recorder {
	if v, ok := c.Get(recorderKey); ok {
		if rec, ok := v.(metrics.Recorder); ok {
			return rec
		}
	}
	return metrics.Nop{}
}
