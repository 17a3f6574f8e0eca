package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/swimtimes/config"
	"github.com/padraicbc/swimtimes/models"
)

// Setup opens a PostgreSQL connection using the provided config and checks
// that it answers.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// CreateTables creates every table the application uses.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.MasterTime)(nil),
		(*models.RosterEntry)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	if _, err := db.NewCreateIndex().Model((*models.MasterTime)(nil)).
		Index("master_times_name_idx").IfNotExists().Column("name").Exec(ctx); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	return nil
}
