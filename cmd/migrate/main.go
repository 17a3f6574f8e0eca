// cmd/migrate/main.go
// Copies the master table and roster into PostgreSQL, either from the CSV
// files (default) or from a legacy MySQL database. Re-runs are idempotent.
//
// Usage:
//
//	DB_PASS="pgpass" go run ./cmd/migrate -master master_times.csv -roster swim_info.csv
//	MYSQL_DSN="user:pass@tcp(host:3306)/swim" DB_PASS="pgpass" go run ./cmd/migrate -from mysql
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/swimtimes/config"
	bundb "github.com/padraicbc/swimtimes/db"
	"github.com/padraicbc/swimtimes/models"
	"github.com/padraicbc/swimtimes/store"
)

const batchSize = 500

func main() {
	from := flag.String("from", "csv", "source: csv or mysql")
	master := flag.String("master", "", "master times CSV (default MASTER_CSV)")
	roster := flag.String("roster", "", "roster CSV (default ROSTER_CSV)")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()
	if !cfg.HasPostgres() {
		log.Fatal("DATABASE_URL or DB_PASS required")
	}

	// --- PostgreSQL ---
	pgDB, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	type step struct {
		name string
		fn   func() (int, error)
	}
	var steps []step

	switch *from {
	case "csv":
		if *master == "" {
			*master = cfg.MasterCSV
		}
		if *roster == "" {
			*roster = cfg.RosterCSV
		}
		src := store.NewCSV(*master, *roster, nil)
		steps = []step{
			{"master_times", func() (int, error) { return copyMasterFromCSV(ctx, src, pgDB) }},
			{"roster", func() (int, error) { return copyRosterFromCSV(ctx, src, pgDB) }},
		}

	case "mysql":
		if cfg.MySQLDSN == "" {
			log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/swim")
		}
		myDB, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("open mysql: %v", err)
		}
		defer myDB.Close()
		myDB.SetMaxOpenConns(4)
		if err := myDB.PingContext(ctx); err != nil {
			log.Fatalf("ping mysql: %v", err)
		}
		log.Println("connected to MySQL")

		steps = []step{
			{"users", func() (int, error) { return migrateUsers(ctx, myDB, pgDB) }},
			{"master_times", func() (int, error) { return migrateMaster(ctx, myDB, pgDB) }},
			{"roster", func() (int, error) { return migrateRoster(ctx, myDB, pgDB) }},
		}

	default:
		log.Fatalf("unknown source %q (csv or mysql)", *from)
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	if *from == "mysql" {
		resetUserSequence(ctx, pgDB)
	}
	log.Println("migration complete")
}

// bulkInsert inserts rows in batches, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	for start := 0; start < len(rows); start += batchSize {
		chunk := rows[start:min(start+batchSize, len(rows))]
		if _, err := pgDB.NewInsert().Model(&chunk).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// --- CSV source ---

func copyMasterFromCSV(ctx context.Context, src *store.CSV, pgDB *bun.DB) (int, error) {
	t, err := src.LoadTable(ctx)
	if err != nil {
		return 0, err
	}
	records := t.Records()[1:]
	rows := make([]models.MasterTime, len(records))
	for i, rec := range records {
		rows[i] = store.MasterTimeFromRecord(i+1, rec)
	}
	return len(rows), bulkInsert(ctx, pgDB, rows)
}

func copyRosterFromCSV(ctx context.Context, src *store.CSV, pgDB *bun.DB) (int, error) {
	roster, err := src.LoadRoster(ctx)
	if err != nil {
		return 0, err
	}
	rows := make([]models.RosterEntry, len(roster))
	for i, s := range roster {
		rows[i] = models.RosterEntry{Position: i + 1, Name: s.Name, Division: s.Division}
	}
	return len(rows), bulkInsert(ctx, pgDB, rows)
}

// --- MySQL source ---

func migrateUsers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, password FROM users")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.User
	for rows.Next() {
		var r models.User
		if err := rows.Scan(&r.ID, &r.Username, &r.Password); err != nil {
			return 0, err
		}
		batch = append(batch, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(batch), bulkInsert(ctx, pgDB, batch)
}

func migrateMaster(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, `SELECT name, division,
		im_100, im_200, fl_50, fl_100, bk_50, bk_100, br_50, br_100, fr_50, fr_100
		FROM master_times ORDER BY name`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.MasterTime
	for rows.Next() {
		var cols [12]sql.NullString
		dest := make([]any, len(cols))
		for i := range cols {
			dest[i] = &cols[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return 0, err
		}
		rec := make([]string, len(cols))
		for i, c := range cols {
			rec[i] = c.String
		}
		batch = append(batch, store.MasterTimeFromRecord(len(batch)+1, rec))
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(batch), bulkInsert(ctx, pgDB, batch)
}

func migrateRoster(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT name, division FROM swim_info ORDER BY name")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.RosterEntry
	for rows.Next() {
		r := models.RosterEntry{Position: len(batch) + 1}
		if err := rows.Scan(&r.Name, &r.Division); err != nil {
			return 0, err
		}
		batch = append(batch, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(batch), bulkInsert(ctx, pgDB, batch)
}

// resetUserSequence advances the users id sequence to MAX(id) so new inserts don't conflict.
func resetUserSequence(ctx context.Context, pgDB *bun.DB) {
	const q = "SELECT setval('users_id_seq', COALESCE((SELECT MAX(id) FROM users), 1))"
	if _, err := pgDB.ExecContext(ctx, q); err != nil {
		log.Printf("reset seq users_id_seq: %v", err)
		return
	}
	log.Println("sequences reset")
}
