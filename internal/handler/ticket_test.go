package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovel/ticket-express/internal/issuance"
	"github.com/rovel/ticket-express/internal/middleware"
)

type stubIssuer struct {
	res issuance.Result
	err error
}

func (s *stubIssuer) Issue(_ context.Context, _ string, _ issuance.Request) (issuance.Result, error) {
	return s.res, s.err
}

func issueRequest(t *testing.T, issuer Issuer) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	body := `{"agency":"Gare","mode":"BUS","name":"Jean","email":"jean@example.com",
		"date":"2026-09-15","departureTime":"08:30","totalAmount":5000,
		"class":"VIP","from":"Douala","to":"Yaoundé"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxEmail, "agent@rovel.cm")
	c.Set(middleware.CtxUserID, float64(7))
	c.Set(middleware.CtxRole, "AGENT")

	h := NewTicketHandler(nil, issuer)
	require.NoError(t, h.Create(c))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestTicketCreateSuccess(t *testing.T) {
	rec, out := issueRequest(t, &stubIssuer{res: issuance.Result{TicketID: 12, Delivered: true}})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ticket généré et envoyé avec succès", out["message"])
	assert.Equal(t, float64(12), out["ticketId"])
}

func TestTicketCreateValidationFailure(t *testing.T) {
	rec, out := issueRequest(t, &stubIssuer{
		err: &issuance.ValidationError{Fields: map[string]string{"email": "Format d'email invalide."}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := out["errors"].(map[string]interface{})
	assert.Equal(t, "Format d'email invalide.", fields["email"])
}

func TestTicketCreateUnknownAgent(t *testing.T) {
	rec, _ := issueRequest(t, &stubIssuer{err: issuance.ErrUserNotFound})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTicketCreatePostPersistFailure(t *testing.T) {
	rec, out := issueRequest(t, &stubIssuer{
		res: issuance.Result{TicketID: 12},
		err: &issuance.PostPersistError{TicketID: 12, Stage: "deliver", Err: errors.New("relay refused")},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, float64(12), out["ticketId"])
	assert.NotEmpty(t, out["error"])
}

func TestTicketCreateInternalFailure(t *testing.T) {
	rec, _ := issueRequest(t, &stubIssuer{err: errors.New("insert ticket: timeout")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTicketCreateMissingEmailClaim(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewTicketHandler(nil, &stubIssuer{})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
