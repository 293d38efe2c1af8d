package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestExtractUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success sets the validated user id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-applications", nil)
		c.Set("user_id", "user-1")

		middleware.ExtractUserID()(c)

		assert.False(t, c.IsAborted())
		assert.Equal(t, "user-1", c.GetString("user_id_validated"))
	})

	t.Run("negative missing user id aborts unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-applications", nil)

		middleware.ExtractUserID()(c)

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotencyKeyIsScopedToUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, redisMock := redismock.NewClientMock()

	cacheKey := "idemp:/leave-applications/:id/recall:user-1:key-1"
	lockKey := cacheKey + ":lock"
	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

	r := gin.New()
	r.POST("/leave-applications/:id/recall",
		func(c *gin.Context) { c.Set("user_id", "user-1") },
		middleware.ExtractUserID(),
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			assert.Equal(t, cacheKey, c.GetString("idempotency_cache_key"))
			assert.Equal(t, lockKey, c.GetString("idempotency_lock_key"))
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leave-applications/abc/recall", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
