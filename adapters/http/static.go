package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SPAFallback serves the prebuilt frontend. Unmatched paths that are not API
// routes and carry no file extension fall back to index.html so client-side
// routing keeps working after a page reload.
func SPAFallback(staticDir string) gin.HandlerFunc {
	indexPath := filepath.Join(staticDir, "index.html")

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/api/") || path == "/webhook" || strings.HasPrefix(path, "/uploads/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		requested := filepath.Join(staticDir, filepath.Clean("/"+path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			c.File(requested)
			return
		}

		if strings.Contains(filepath.Base(path), ".") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.File(indexPath)
	}
}
