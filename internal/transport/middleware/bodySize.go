package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BodySizeLimit rejects requests declaring a larger body and caps the
// reader for the rest.
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			logrus.WithFields(logrus.Fields{
				"content_length": c.Request.ContentLength,
				"max_size":       maxSize,
				"path":           c.Request.URL.Path,
			}).Warn("Request body too large")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":    "Request body too large",
				"max_size": maxSize,
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
