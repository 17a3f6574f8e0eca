package models

import "github.com/uptrace/bun"

// RosterEntry is one active swimmer with their division code.
type RosterEntry struct {
	bun.BaseModel `bun:"table:roster,alias:ro"`

	Position int    `bun:"position,pk" json:"position"`
	Name     string `bun:"name,notnull" json:"name"`
	Division string `bun:"division,notnull" json:"division"`
}
