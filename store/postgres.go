package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/swimtimes/models"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

const batchSize = 500

// Postgres keeps the grid in the master_times and roster tables. Saves
// replace the whole table inside one transaction.
type Postgres struct {
	db *bun.DB
}

// NewPostgres wraps an open connection. Tables must exist (db.CreateTables).
func NewPostgres(db *bun.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) LoadTable(ctx context.Context) (*table.Table, error) {
	var rows []models.MasterTime
	if err := p.db.NewSelect().Model(&rows).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load master times: %w", err)
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, table.Header)
	for _, r := range rows {
		records = append(records, MasterRecord(r))
	}
	return table.FromRecords(records), nil
}

func (p *Postgres) SaveTable(ctx context.Context, t *table.Table) error {
	records := t.Records()[1:]
	rows := make([]models.MasterTime, len(records))
	for i, rec := range records {
		rows[i] = MasterTimeFromRecord(i+1, rec)
	}
	return replaceAll(ctx, p.db, (*models.MasterTime)(nil), rows)
}

func (p *Postgres) LoadRoster(ctx context.Context) ([]swimmer.Swimmer, error) {
	var rows []models.RosterEntry
	if err := p.db.NewSelect().Model(&rows).Order("position ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	out := make([]swimmer.Swimmer, 0, len(rows))
	for _, r := range rows {
		out = append(out, swimmer.Swimmer{Name: r.Name, Division: r.Division})
	}
	return out, nil
}

func (p *Postgres) SaveRoster(ctx context.Context, roster []swimmer.Swimmer) error {
	rows := make([]models.RosterEntry, len(roster))
	for i, s := range roster {
		rows[i] = models.RosterEntry{Position: i + 1, Name: s.Name, Division: s.Division}
	}
	return replaceAll(ctx, p.db, (*models.RosterEntry)(nil), rows)
}

func (p *Postgres) Close() error { return p.db.Close() }

// replaceAll deletes every row of model's table and inserts rows in batches.
func replaceAll[T any](ctx context.Context, db *bun.DB, model interface{}, rows []T) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.NewDelete().Model(model).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("clear %T: %w", model, err)
	}
	for start := 0; start < len(rows); start += batchSize {
		chunk := rows[start:min(start+batchSize, len(rows))]
		if _, err := tx.NewInsert().Model(&chunk).Exec(ctx); err != nil {
			return fmt.Errorf("insert %T: %w", model, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// MasterRecord flattens a row into table.Header column order.
func MasterRecord(m models.MasterTime) []string {
	return []string{
		m.Name, m.Division,
		m.IM100, m.IM200,
		m.FL50, m.FL100,
		m.BK50, m.BK100,
		m.BR50, m.BR100,
		m.FR50, m.FR100,
	}
}

// MasterTimeFromRecord is the inverse of MasterRecord. Columns past the
// header width are dropped.
func MasterTimeFromRecord(position int, rec []string) models.MasterTime {
	get := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	return models.MasterTime{
		Position: position,
		Name:     get(0),
		Division: get(1),
		IM100:    get(2),
		IM200:    get(3),
		FL50:     get(4),
		FL100:    get(5),
		BK50:     get(6),
		BK100:    get(7),
		BR50:     get(8),
		BR100:    get(9),
		FR50:     get(10),
		FR100:    get(11),
	}
}
