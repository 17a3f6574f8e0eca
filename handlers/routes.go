package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/swimtimes/middleware"
)

// Routes registers the public sign-in route and the JWT-protected swim API.
func (h *Handler) Routes(e *echo.Echo) {
	// Public
	e.POST("/swim/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	g := e.Group("/swim", mw.JWT(h.JWTKey))
	g.GET("/table", h.Table)
	g.GET("/roster", h.Roster)
	g.POST("/roster", h.SetRoster)
	g.POST("/batches", h.ImportBatches)
	g.POST("/manual", h.Manual)
	g.GET("/search", h.Search)
	g.POST("/relay/ideal", h.IdealRelay)
	g.POST("/relay/estimate", h.EstimateRelay)
}
