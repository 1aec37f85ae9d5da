package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func perform(t *testing.T, allowed []string, origin, method string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New(allowed))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCORSGrantsCredentialsOnlyToListedOrigin(t *testing.T) {
	allowed := []string{"https://admin.school.example"}

	w := perform(t, allowed, "https://admin.school.example", http.MethodGet)
	assert.Equal(t, "https://admin.school.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = perform(t, allowed, "https://evil.example", http.MethodGet)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardNeverGrantsCredentials(t *testing.T) {
	w := perform(t, nil, "https://anywhere.example", http.MethodGet)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSExposesDownloadHeaders(t *testing.T) {
	w := perform(t, nil, "https://anywhere.example", http.MethodGet)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	w := perform(t, nil, "https://anywhere.example", http.MethodOptions)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
