// cmd/adduser/main.go
// Creates or updates an API user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username coach -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/swimtimes/config"
	bundb "github.com/padraicbc/swimtimes/db"
	"github.com/padraicbc/swimtimes/handlers"
	"github.com/padraicbc/swimtimes/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal("both -username and -password are required: ", err)
	}

	ctx := context.Background()
	cfg := config.Load()
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: *username,
		Password: hash,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", *username)
}
