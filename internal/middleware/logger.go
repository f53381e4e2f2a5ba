package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an X-Request-ID, minting one when the
// caller did not send its own. The id is echoed in the response header and
// stored under "request_id" for handlers and the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one access-log line per request, in the same
// component-prefixed format the services log with.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		id, _ := c.Get("request_id")
		log.Printf("middleware.Logger: [%v] %s %s %d %s",
			id,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
