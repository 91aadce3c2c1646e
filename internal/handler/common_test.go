package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovel/ticket-express/internal/middleware"
	"github.com/rovel/ticket-express/internal/model"
)

func ctxWith(t *testing.T, key string, v interface{}) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if v != nil {
		c.Set(key, v)
	}
	return c
}

func TestGetUserIDConversions(t *testing.T) {
	for _, v := range []interface{}{uint64(9), int(9), int64(9), float64(9), "9"} {
		id, err := getUserID(ctxWith(t, middleware.CtxUserID, v))
		require.NoError(t, err, "value %#v", v)
		assert.Equal(t, uint64(9), id)
	}
	_, err := getUserID(ctxWith(t, middleware.CtxUserID, nil))
	assert.Error(t, err)
	_, err = getUserID(ctxWith(t, middleware.CtxUserID, "abc"))
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, isAdmin(ctxWith(t, middleware.CtxRole, model.RoleAdmin)))
	assert.False(t, isAdmin(ctxWith(t, middleware.CtxRole, model.RoleAgent)))
	assert.False(t, isAdmin(ctxWith(t, middleware.CtxRole, nil)))
}

func TestParseID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("15")
	id, ok := parseID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(15), id)

	c.SetParamValues("0")
	_, ok = parseID(c)
	assert.False(t, ok)

	c.SetParamValues("abc")
	_, ok = parseID(c)
	assert.False(t, ok)
}

func TestValidateRegistration(t *testing.T) {
	assert.Nil(t, validateRegistration("Jean", "jean@example.com", "secret1"))

	fields := validateRegistration("J", "broken", "123")
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}
