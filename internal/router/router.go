package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/rovel/ticket-express/internal/handler"
	"github.com/rovel/ticket-express/internal/middleware"
	"github.com/rovel/ticket-express/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a fresh pair is returned.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates that token.  No JWT is required; possession of the
	// refresh token is the credential.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAgent, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterTickets registers the ticket CRUD and issuance endpoints under
// /v1.  All routes require a valid JWT; both roles may issue tickets.
// The optional rate limiter guards the issuance endpoint, and the
// optional cache middleware accelerates the list and read endpoints.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, jwtSecret string, cacheMW, rateMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/tickets",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAgent, model.RoleAdmin),
	)

	create := []echo.MiddlewareFunc{}
	if rateMW != nil {
		create = append(create, rateMW)
	}
	g.POST("", h.Create, create...)

	read := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		read = append(read, cacheMW)
	}
	g.GET("", h.List, read...)
	g.GET("/:id", h.Get, read...)

	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterAdmin registers administrator-only endpoints: the agent
// directory CRUD and the reservation statistics report.
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, s *handler.StatsHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", u.List)
	g.GET("/users/:id", u.Get)
	g.POST("/users", u.Create)
	g.PUT("/users/:id", u.Update)
	g.DELETE("/users/:id", u.Delete)

	if cacheMW != nil {
		g.GET("/reservation-stats", s.GetReservationStats, cacheMW)
	} else {
		g.GET("/reservation-stats", s.GetReservationStats)
	}
}
