package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCacheHitStampsMetaAndHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, hit := range []bool{true, false} {
		var meta map[string]interface{}
		router := gin.New()
		router.Use(WithResponseMeta())
		router.GET("/announcements", func(c *gin.Context) {
			SetCacheHit(c, hit)
			meta = ExtractMeta(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/announcements", nil))

		require.NotNil(t, meta)
		assert.Equal(t, hit, meta["cache_hit"])
		want := "MISS"
		if hit {
			want = "HIT"
		}
		assert.Equal(t, want, w.Header().Get("X-Cache"))
	}
}

func TestWithResponseMetaRecordsProcessingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/events", func(c *gin.Context) {
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, meta)
	_, ok := meta["processing_time_ms"]
	assert.True(t, ok)
}
