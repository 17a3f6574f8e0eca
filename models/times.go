package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MasterTime is one swimmer row of the master best-time table. Times are
// canonical HH:MM:SS.cc strings; an empty string means no time.
type MasterTime struct {
	bun.BaseModel `bun:"table:master_times,alias:mt"`

	Position int    `bun:"position,pk" json:"position"`
	Name     string `bun:"name,notnull" json:"name"`
	Division string `bun:"division,notnull" json:"division"`

	IM100 string `bun:"im_100,notnull,default:''" json:"100IM"`
	IM200 string `bun:"im_200,notnull,default:''" json:"200IM"`
	FL50  string `bun:"fl_50,notnull,default:''" json:"50FL"`
	FL100 string `bun:"fl_100,notnull,default:''" json:"100FL"`
	BK50  string `bun:"bk_50,notnull,default:''" json:"50BK"`
	BK100 string `bun:"bk_100,notnull,default:''" json:"100BK"`
	BR50  string `bun:"br_50,notnull,default:''" json:"50BR"`
	BR100 string `bun:"br_100,notnull,default:''" json:"100BR"`
	FR50  string `bun:"fr_50,notnull,default:''" json:"50FR"`
	FR100 string `bun:"fr_100,notnull,default:''" json:"100FR"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
