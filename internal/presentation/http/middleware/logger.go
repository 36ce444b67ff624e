package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("http")

// LoggerMiddleware logs one line per request with the employee and register that sent it
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID if not present
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		short := requestID
		if len(short) > 8 {
			short = short[:8]
		}

		who := "-"
		if employeeID := GetEmployeeID(c); employeeID != uuid.Nil {
			who = employeeID.String()[:8]
			if register := c.GetString(RegisterIDKey); register != "" {
				who += "@" + register
			}
		}
		if c.Writer.Header().Get(IdempotencyReplayedHeader) != "" {
			path += " (replayed)"
		}

		switch {
		case statusCode >= 500:
			log.Errorf("[%s] %s | %d | %v | %s | %s", short, c.Request.Method, statusCode, latency, who, path)
		case statusCode >= 400:
			log.Warningf("[%s] %s | %d | %v | %s | %s", short, c.Request.Method, statusCode, latency, who, path)
		default:
			log.Infof("[%s] %s | %d | %v | %s | %s", short, c.Request.Method, statusCode, latency, who, path)
		}

		for _, e := range c.Errors {
			log.Errorf("[%s] Error: %v", short, e.Err)
		}
	}
}
