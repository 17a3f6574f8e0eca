package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a coach allowed to edit the time table. Passwords are bcrypt
// hashes salted with the username.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Username     string    `bun:"username,notnull,unique" json:"username"`
	Password     string    `bun:"password,notnull" json:"-"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	LastSigninAt time.Time `bun:"last_signin_at,nullzero" json:"lastSigninAt,omitempty"`
}
