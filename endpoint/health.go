package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ariebrainware/practice-records/middleware"
	"github.com/gin-gonic/gin"
)

const maxHealthCollections = 10

// Index returns the service banner.
func Index(appName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", appName),
			"service": appName,
		})
	}
}

// HealthCheck godoc
// @Summary      Store health
// @Description  Reports the driver, connection status and up to ten table names
// @Tags         Health
// @Produce      json
// @Success      200 {object} object "Health report"
// @Router       /test [get]
func HealthCheck(c *gin.Context) {
	report := gin.H{
		"backend":           "running",
		"database":          "not available",
		"driver":            "",
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	st := middleware.GetStore(c)
	if st == nil {
		c.JSON(http.StatusOK, report)
		return
	}
	report["driver"] = st.Dialect()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		report["database"] = fmt.Sprintf("error: %s", truncate(err.Error(), 50))
		c.JSON(http.StatusOK, report)
		return
	}
	report["connection_status"] = "Connected"

	names, err := st.CollectionNames()
	if err != nil {
		report["database"] = fmt.Sprintf("connected but error: %s", truncate(err.Error(), 50))
		c.JSON(http.StatusOK, report)
		return
	}
	if len(names) > maxHealthCollections {
		names = names[:maxHealthCollections]
	}
	report["collections"] = names
	report["database"] = "connected"
	c.JSON(http.StatusOK, report)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
