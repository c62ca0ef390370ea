package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Couple-App/internal/metrics"
)

// HealthChecker 依存先の疎通確認
type HealthChecker func() error

// NewRouter ルーティングを設定したginエンジンを返す
func NewRouter(gps *GPSHandler, checks map[string]HealthChecker) *gin.Engine {
	r := gin.Default()

	r.GET("/api/health", healthHandler(checks))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	g := r.Group("/gps")
	{
		g.POST("", gps.PostLocation)
		g.GET("/check-nearby", gps.CheckNearby)
		g.GET("/couples", gps.GetClusters)
		g.GET("/couples/dates/:yearMonth", gps.GetDates)
		g.GET("/couples/trail", gps.GetTrail)
		g.GET("/user", gps.GetUserLocations)
	}

	return r
}

func healthHandler(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		details := gin.H{}
		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				details[name] = err.Error()
				continue
			}
			details[name] = "ok"
		}
		body := gin.H{"status": "healthy", "service": "Couple-App", "checks": details}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}
