package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "relay"
	serviceVersion = "1.0.0"
)

// returns the server health status with live session counts
func Handler(counter Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{
			Status:            "healthy",
			Service:           serviceName,
			Version:           serviceVersion,
			ActiveSessions:    counter.SessionCount(),
			ActiveConnections: counter.ConnectionCount(),
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
