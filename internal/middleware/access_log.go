// Package middleware contains the HTTP middlewares shared by the showcase
// server: access logging, CORS and Prometheus metrics.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/log"
)

// AccessLog returns a middleware that logs one structured line per request
func AccessLog(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := []log.Field{
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.Int("status", c.Writer.Status()),
			log.Duration("duration", time.Since(start)),
			log.String("client_ip", c.ClientIP()),
			log.Int("response_size", c.Writer.Size()),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, log.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
