package handlers

import (
	"github.com/uptrace/bun"

	"github.com/padraicbc/swimtimes/table"
	"github.com/padraicbc/swimtimes/tracker"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	JWTKey []byte

	svc *tracker.Service
	// decider answers reconciliation questions; requests cannot prompt.
	decider table.Decider
}

// New creates a Handler. db backs sign-in; svc serves the swim routes.
func New(db *bun.DB, jwtKey []byte, svc *tracker.Service, decider table.Decider) *Handler {
	if decider == nil {
		decider = table.Always(table.Default)
	}
	return &Handler{db: db, JWTKey: jwtKey, svc: svc, decider: decider}
}
