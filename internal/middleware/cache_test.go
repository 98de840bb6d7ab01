package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-booking/internal/config"
)

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestCacheKeyStable(t *testing.T) {
	k1 := CacheKey("cache", "/api/events/:id", "page=1")
	k2 := CacheKey("cache", "/api/events/:id", "page=1")
	k3 := CacheKey("cache", "/api/events/:id", "page=2")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "cache:")
}

func TestCacheDisabledPassthrough(t *testing.T) {
	cfg := cacheCfg()
	cfg.Enabled = false
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "fresh") })
	require.NoError(t, h(c))

	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheMissStoresResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := CacheKey("cache", "/api/events", "")

	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSetEx(key, `.*`, 30*time.Second).SetVal("OK")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/events")

	h := NewRedisCache(cacheCfg(), rdb)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"items": []string{}})
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitServesStoredResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := CacheKey("cache", "/api/events", "")

	stored, err := encodePayload(http.StatusOK, http.Header{
		"Content-Type": {"application/json; charset=UTF-8"},
	}, []byte(`{"items":["cached"]}`))
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(stored))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/events")

	handlerRan := false
	h := NewRedisCache(cacheCfg(), rdb)(func(c echo.Context) error {
		handlerRan = true
		return c.String(http.StatusOK, "fresh")
	})
	require.NoError(t, h(c))

	assert.False(t, handlerRan, "hit must short-circuit the handler")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"items":["cached"]}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=UTF-8", rec.Header().Get("Content-Type"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsNonConfiguredMethods(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/book", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/book")

	h := NewRedisCache(cacheCfg(), rdb)(func(c echo.Context) error {
		return c.String(http.StatusOK, "booked")
	})
	require.NoError(t, h(c))

	assert.Equal(t, "booked", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet()) // no redis calls at all
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/plain"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte("hello"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/plain", gotHdr.Get("Content-Type"))
	assert.Equal(t, "hello", string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	assert.False(t, ok)
}
