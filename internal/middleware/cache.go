package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/cache"
)

const CacheHeader = "X-Cache"

// bodyRecorder tees the response body so it can be stored after the handler runs.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves GET responses from store and fills it on a miss.
//
// Behavior:
//   - The key combines the current generation of each entity, the path and the
//     canonical query string, so Invalidate on any entity retires the entry.
//   - Only successful JSON responses without attached errors are stored.
//   - When a generation cannot be read the store is bypassed entirely.
//   - Sets X-Cache to HIT or MISS.
//
// Returns:
//   - gin.HandlerFunc: a no-op for non-GET requests.
func Cache(store cache.Store, ttl time.Duration, entities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := cache.Key(ctx, store, entities, c.Request.URL.Path, c.Request.URL.Query())
		if key == "" {
			c.Header(CacheHeader, "MISS")
			c.Next()
			return
		}

		if body, ok := store.Get(ctx, key); ok {
			c.Header(CacheHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if len(c.Errors) > 0 || rec.Status() != http.StatusOK || rec.buf.Len() == 0 {
			return
		}
		store.Set(ctx, key, rec.buf.Bytes(), ttl)
	}
}
