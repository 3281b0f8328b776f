package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jjatencia/cashflow/internal/infra"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the sales-API breaker state;
// the breaker being open degrades the payload but not the status code, since
// the service keeps working with zeroed suggested totals.
func Health(db *gorm.DB, rdb *redis.Client, sales *infra.SalesAPIClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		salesStatus := "disabled"
		if sales != nil {
			salesStatus = sales.Breaker().State().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":        status == http.StatusOK,
			"db":        dbStatus,
			"redis":     redisStatus,
			"sales_api": salesStatus,
		})
	}
}
