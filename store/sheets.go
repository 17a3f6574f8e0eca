package store

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// Sheets keeps the table and roster on two tabs of a Google spreadsheet.
type Sheets struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	masterTab     string
	rosterTab     string
}

// NewSheets authenticates with a service account JSON key file.
func NewSheets(ctx context.Context, serviceAccountJSONPath, spreadsheetID, masterTab, rosterTab string) (*Sheets, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &Sheets{srv: srv, spreadsheetID: spreadsheetID, masterTab: masterTab, rosterTab: rosterTab}, nil
}

func (s *Sheets) readAll(ctx context.Context, tab string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, tab+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tab, err)
	}
	return cellsToRecords(resp.Values), nil
}

// replace clears the tab and writes records from A1.
func (s *Sheets) replace(ctx context.Context, tab string, records [][]string) error {
	if _, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, tab+"!A:Z", &sheetsv4.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}
	vr := &sheetsv4.ValueRange{Values: recordsToCells(records)}
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", tab, err)
	}
	return nil
}

func (s *Sheets) LoadTable(ctx context.Context) (*table.Table, error) {
	records, err := s.readAll(ctx, s.masterTab)
	if err != nil {
		return nil, err
	}
	return table.FromRecords(records), nil
}

func (s *Sheets) SaveTable(ctx context.Context, t *table.Table) error {
	return s.replace(ctx, s.masterTab, t.Records())
}

func (s *Sheets) LoadRoster(ctx context.Context) ([]swimmer.Swimmer, error) {
	records, err := s.readAll(ctx, s.rosterTab)
	if err != nil {
		return nil, err
	}
	return rosterFromRecords(records), nil
}

func (s *Sheets) SaveRoster(ctx context.Context, roster []swimmer.Swimmer) error {
	return s.replace(ctx, s.rosterTab, rosterRecords(roster))
}

func (s *Sheets) Close() error { return nil }

// cellsToRecords turns the API's ragged interface grid into strings. The
// API omits trailing empty cells.
func cellsToRecords(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		rec := make([]string, len(row))
		for j := range row {
			rec[j] = get(row, j)
		}
		out[i] = rec
	}
	return out
}

func recordsToCells(records [][]string) [][]interface{} {
	out := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		out[i] = row
	}
	return out
}

func get(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return fmt.Sprint(row[idx])
}
