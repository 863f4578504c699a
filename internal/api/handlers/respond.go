package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"bucket-browser/internal/browser"
)

var uploadedBytes = prometheus.NewCounter(
	prometheus.CounterOpts{Name: "browser_uploaded_bytes_total", Help: "Bytes accepted by the upload route"},
)

func RegisterMetrics() {
	prometheus.MustRegister(uploadedBytes)
}

// fail maps a browser error to a response. Callers pass the fixed message
// the client sees; the cause only goes to the server log.
func fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, browser.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
	case errors.Is(err, browser.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
	default:
		slog.Error(msg, "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
