package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rovel/ticket-express/internal/issuance"
	"github.com/rovel/ticket-express/internal/logger"
	"github.com/rovel/ticket-express/internal/repository"
)

// Issuer runs the issuance pipeline.  *issuance.Pipeline satisfies it.
type Issuer interface {
	Issue(ctx context.Context, agentEmail string, req issuance.Request) (issuance.Result, error)
}

// TicketHandler serves the ticket CRUD routes and the issuance endpoint.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Issuer  Issuer
}

func NewTicketHandler(t *repository.TicketRepo, i Issuer) *TicketHandler {
	return &TicketHandler{Tickets: t, Issuer: i}
}

// Create handles POST /v1/tickets: the full issuance pipeline.  The
// mail delivery can take several seconds, hence the longer timeout.
func (h *TicketHandler) Create(c echo.Context) error {
	var req issuance.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email, ok := getEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Issuer.Issue(ctx, email, req)
	if err != nil {
		var vErr *issuance.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": vErr.Fields})
		}
		if errors.Is(err, issuance.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "utilisateur introuvable"})
		}
		var pErr *issuance.PostPersistError
		if errors.As(err, &pErr) {
			// The ticket row exists; report the id so the client does not
			// retry and create a duplicate.
			log := logger.With("ticket")
			log.Error().Err(err).Uint64("ticket_id", pErr.TicketID).Msg("issuance failed after insert")
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":    "Le ticket a été créé mais l'envoi a échoué.",
				"ticketId": pErr.TicketID,
			})
		}
		log := logger.With("ticket")
		log.Error().Err(err).Msg("issuance failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue ticket failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Ticket généré et envoyé avec succès",
		"ticketId": res.TicketID,
	})
}

// List handles GET /v1/tickets.  Agents see their own tickets;
// administrators see everything.
func (h *TicketHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var tickets interface{}
	if isAdmin(c) {
		tickets, err = h.Tickets.ListAll(ctx)
	} else {
		tickets, err = h.Tickets.ListByUser(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var t interface{}
	if isAdmin(c) {
		t, err = h.Tickets.GetByID(ctx, id)
	} else {
		t, err = h.Tickets.GetByIDForUser(ctx, id, uid)
	}
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PUT /v1/tickets/:id.  The replacement payload goes
// through the same schema as issuance; no re-issue happens, only the
// stored fields change.
func (h *TicketHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req issuance.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, fields := issuance.Validate(req)
	if fields != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
	}
	t.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.UpdateForUser(ctx, &t, uid); err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket updated"})
}

// Delete handles DELETE /v1/tickets/:id.  Owner-scoped; administrators
// may delete any ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tickets.DeleteForUser(ctx, id, uid, isAdmin(c)); err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
