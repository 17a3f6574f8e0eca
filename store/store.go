// Package store persists the master table and the roster. The CSV backend
// keeps the two files a coach edits by hand; Postgres and Google Sheets
// hold the same grid for shared use.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/config"
	bundb "github.com/padraicbc/swimtimes/db"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// ErrUnknownBackend is returned by Open for an unsupported STORE value.
var ErrUnknownBackend = errors.New("store: unknown backend")

// Store loads and saves the master table and roster.
type Store interface {
	LoadTable(ctx context.Context) (*table.Table, error)
	SaveTable(ctx context.Context, t *table.Table) error
	LoadRoster(ctx context.Context) ([]swimmer.Swimmer, error)
	SaveRoster(ctx context.Context, roster []swimmer.Swimmer) error
	Close() error
}

// Open returns the backend selected by cfg.Store.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreCSV:
		return NewCSV(cfg.MasterCSV, cfg.RosterCSV, log), nil
	case config.StorePostgres:
		db, err := bundb.Setup(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := bundb.CreateTables(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewPostgres(db), nil
	case config.StoreSheets:
		return NewSheets(ctx, cfg.SheetsCredentials, cfg.SpreadsheetID, cfg.SheetsMasterTab, cfg.SheetsRosterTab)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Store)
}

// rosterHeader is the first row of a roster grid.
var rosterHeader = []string{"Name", "Div."}

// rosterFromRecords skips the header row and every record without both a
// name and a division.
func rosterFromRecords(records [][]string) []swimmer.Swimmer {
	var out []swimmer.Swimmer
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		s := swimmer.Swimmer{Name: trim(rec[0]), Division: trim(rec[1])}
		if s.Name == "" || s.Division == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func rosterRecords(roster []swimmer.Swimmer) [][]string {
	out := make([][]string, 0, len(roster)+1)
	out = append(out, append([]string(nil), rosterHeader...))
	for _, s := range roster {
		out = append(out, []string{s.Name, s.Division})
	}
	return out
}
