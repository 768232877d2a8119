package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistaro/checkout-gateway/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "catalog",
		MaxBodyBytes: 1 << 20,
	}
}

func runRequest(t *testing.T, mw echo.MiddlewareFunc, method, target string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)
	require.NoError(t, mw(handler)(c))
	return rec
}

func TestCacheMissStoresResponse(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/events/1")
	key := cacheKeyFrom(cfg, c)

	body := `{"eventId":1,"title":"Interstellar"}` + "\n"
	payload, err := json.Marshal(cachedResponse{
		Status:      http.StatusOK,
		ContentType: "application/json; charset=UTF-8",
		Body:        []byte(body),
	})
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetEx(key, payload, cfg.TTL).SetVal("OK")

	mw := NewRedisCache(cfg, rdb)
	rec := runRequest(t, mw, http.MethodGet, "/v1/events/1", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"eventId": 1, "title": "Interstellar"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, body, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitSkipsHandler(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/events/1")
	key := cacheKeyFrom(cfg, c)

	stored, err := json.Marshal(cachedResponse{
		Status:      http.StatusOK,
		ContentType: "application/json; charset=UTF-8",
		Body:        []byte(`{"eventId":1}`),
	})
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(stored))

	called := false
	mw := NewRedisCache(cfg, rdb)
	rec := runRequest(t, mw, http.MethodGet, "/v1/events/1", func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusInternalServerError)
	})

	assert.False(t, called, "handler must not run on a cache hit")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"eventId":1}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsNonCacheableMethod(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	mw := NewRedisCache(cfg, rdb)
	rec := runRequest(t, mw, http.MethodPost, "/v1/checkout", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheErrorStatusNotStored(t *testing.T) {
	cfg := cacheTestConfig()
	rdb, mock := redismock.NewClientMock()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/9", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/events/9")
	mock.ExpectGet(cacheKeyFrom(cfg, c)).RedisNil()

	mw := NewRedisCache(cfg, rdb)
	rec := runRequest(t, mw, http.MethodGet, "/v1/events/9", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "event not found"})
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	// No SetEx was expected, so a stored 404 would fail this check.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false

	mw := NewRedisCache(cfg, nil)
	rec := runRequest(t, mw, http.MethodGet, "/v1/events/1", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
