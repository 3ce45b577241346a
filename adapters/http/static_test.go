package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0o644))

	router := gin.New()
	router.NoRoute(SPAFallback(dir))

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := serve("/profile")
	require.Equal(t, http.StatusOK, w.Code, "client-side routes reload to index.html")
	assert.Contains(t, w.Body.String(), "app")

	w = serve("/logo.svg")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "svg")

	w = serve("/missing.js")
	assert.Equal(t, http.StatusNotFound, w.Code, "missing assets must not fall back to index.html")

	w = serve("/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown API routes stay JSON 404s")
}
