package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/rovel/ticket-express/internal/config"
)

func cacheCtx(t *testing.T, target string, uid interface{}) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	// Mimic the router: all ticket reads share one route template.
	c.SetPath("/v1/tickets/:id")
	if uid != nil {
		c.Set(CtxUserID, uid)
	}
	return c
}

func TestCacheKeyDistinguishesTicketIDs(t *testing.T) {
	k1 := cacheKey("cache", cacheCtx(t, "/v1/tickets/1", float64(7)))
	k2 := cacheKey("cache", cacheCtx(t, "/v1/tickets/2", float64(7)))
	assert.NotEqual(t, k1, k2)
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	k1 := cacheKey("cache", cacheCtx(t, "/v1/tickets/1", float64(7)))
	k2 := cacheKey("cache", cacheCtx(t, "/v1/tickets/1", float64(7)))
	assert.Equal(t, k1, k2)
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	k1 := cacheKey("cache", cacheCtx(t, "/v1/tickets", float64(7)))
	k2 := cacheKey("cache", cacheCtx(t, "/v1/tickets", float64(8)))
	assert.NotEqual(t, k1, k2)

	guest := cacheKey("cache", cacheCtx(t, "/v1/tickets", nil))
	assert.NotEqual(t, k1, guest)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	k1 := cacheKey("cache", cacheCtx(t, "/v1/tickets?page=1", float64(7)))
	k2 := cacheKey("cache", cacheCtx(t, "/v1/tickets?page=2", float64(7)))
	assert.NotEqual(t, k1, k2)
}

func TestResponseCacheDisabledIsPassthrough(t *testing.T) {
	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)
	c := cacheCtx(t, "/v1/tickets", float64(7))
	assert.NoError(t, mw(next)(c))
	assert.True(t, called)
}
