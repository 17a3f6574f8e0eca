package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

const masterFixture = "Name,Div.,100IM,200IM,50FL,100FL,50BK,100BK,50BR,100BR,50FR,100FR\r\n" +
	"Ann Lee,3G,,,,,,,,,00:00:31.20,\r\n" +
	"Bob Ray,4B,,,,,,,,,,00:01:05.00\r\n"

func newCSV(t *testing.T) (*CSV, string, string) {
	t.Helper()
	dir := t.TempDir()
	master := filepath.Join(dir, "master_times.csv")
	roster := filepath.Join(dir, "swim_info.csv")
	return NewCSV(master, roster, nil), master, roster
}

func TestCSV_MissingFilesAreEmpty(t *testing.T) {
	s, _, _ := newCSV(t)
	ctx := context.Background()

	tbl, err := s.LoadTable(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, [][]string{table.Header}, tbl.Records())

	roster, err := s.LoadRoster(ctx)
	require.NoError(t, err)
	require.Empty(t, roster)
}

func TestCSV_TableRoundTripIsByteIdentical(t *testing.T) {
	s, master, _ := newCSV(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(master, []byte(masterFixture), 0o644))

	tbl, err := s.LoadTable(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	other := filepath.Join(filepath.Dir(master), "copy.csv")
	require.NoError(t, NewCSV(other, "", nil).SaveTable(ctx, tbl))

	got, err := os.ReadFile(other)
	require.NoError(t, err)
	require.Equal(t, masterFixture, string(got))
}

func TestCSV_SaveSkipsUnchangedTable(t *testing.T) {
	s, master, _ := newCSV(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(master, []byte(masterFixture), 0o644))

	tbl, err := s.LoadTable(ctx)
	require.NoError(t, err)

	// a hand edit after load must survive a no-op save
	require.NoError(t, os.WriteFile(master, []byte("edited\r\n"), 0o644))
	require.NoError(t, s.SaveTable(ctx, tbl))
	got, err := os.ReadFile(master)
	require.NoError(t, err)
	require.Equal(t, "edited\r\n", string(got))

	require.True(t, tbl.AddSwimmer(swimmer.Swimmer{Name: "Cy Dee", Division: "2B"}))
	require.NoError(t, s.SaveTable(ctx, tbl))
	got, err = os.ReadFile(master)
	require.NoError(t, err)
	require.Contains(t, string(got), "Cy Dee,2B,")
}

func TestCSV_KeepsLineEndings(t *testing.T) {
	s, master, roster := newCSV(t)
	ctx := context.Background()
	lf := strings.ReplaceAll(masterFixture, "\r\n", "\n")
	require.NoError(t, os.WriteFile(master, []byte(lf), 0o644))
	require.NoError(t, os.WriteFile(roster, []byte("Name,Div.\nAnn Lee,3G\n"), 0o644))

	tbl, err := s.LoadTable(ctx)
	require.NoError(t, err)
	require.True(t, tbl.AddSwimmer(swimmer.Swimmer{Name: "Cy Dee", Division: "2B"}))
	require.NoError(t, s.SaveTable(ctx, tbl))

	got, err := os.ReadFile(master)
	require.NoError(t, err)
	require.NotContains(t, string(got), "\r")
	require.True(t, strings.HasPrefix(string(got), lf[:strings.IndexByte(lf, '\n')+1]))
	require.Contains(t, string(got), "Cy Dee,2B,,,,,,,,,,\n")

	r, err := s.LoadRoster(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveRoster(ctx, append(r, swimmer.Swimmer{Name: "Cy Dee", Division: "2B"})))
	got, err = os.ReadFile(roster)
	require.NoError(t, err)
	require.Equal(t, "Name,Div.\nAnn Lee,3G\nCy Dee,2B\n", string(got))
}

func TestCSV_Roster(t *testing.T) {
	s, _, roster := newCSV(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(roster, []byte("Swimmer,Division\n Ann Lee ,3G\nNoDiv,\n,4B\nBob Ray,4B\n"), 0o644))

	got, err := s.LoadRoster(ctx)
	require.NoError(t, err)
	require.Equal(t, []swimmer.Swimmer{{Name: "Ann Lee", Division: "3G"}, {Name: "Bob Ray", Division: "4B"}}, got)

	got = append(got, swimmer.Swimmer{Name: "Cy Dee", Division: "O1B"})
	require.NoError(t, s.SaveRoster(ctx, got))
	again, err := s.LoadRoster(ctx)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestCSV_BOMIsStripped(t *testing.T) {
	s, _, roster := newCSV(t)
	require.NoError(t, os.WriteFile(roster, []byte("\ufeffName,Div.\nAnn Lee,3G\n"), 0o644))
	got, err := s.LoadRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReadBatch(t *testing.T) {
	in := "Name,Time\nAnn Lee,31.2\n,00:00:40.00\nBob Ray,Div4,1:05.00,CLUB\nshort\n"
	b, err := ReadBatch(strings.NewReader(in), "50FR")
	require.NoError(t, err)
	require.Equal(t, "50FR", b.Event)
	require.Equal(t, []table.Entry{
		{Name: "Ann Lee", Time: "31.2"},
		{Name: "Bob Ray", Time: "1:05.00"},
	}, b.Entries)
}

func TestReadBatchFile_EventFromName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "M_100_FR.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ann Lee,1:02.00\n"), 0o644))

	b, err := ReadBatchFile(path, "")
	require.NoError(t, err)
	require.Equal(t, "100FR", b.Event)
	require.Len(t, b.Entries, 1)

	b, err = ReadBatchFile(path, "100IM")
	require.NoError(t, err)
	require.Equal(t, "100IM", b.Event)
}

func TestMasterRecordMatchesHeader(t *testing.T) {
	rec := make([]string, len(table.Header))
	for i, h := range table.Header {
		rec[i] = "v" + h
	}
	m := MasterTimeFromRecord(3, rec)
	require.Equal(t, 3, m.Position)
	require.Equal(t, "v50BK", m.BK50)
	require.Equal(t, "v200IM", m.IM200)
	require.Equal(t, rec, MasterRecord(m))

	short := MasterTimeFromRecord(1, []string{"Ann Lee"})
	require.Equal(t, "Ann Lee", short.Name)
	require.Empty(t, short.FR100)
}

func TestCellsToRecords(t *testing.T) {
	got := cellsToRecords([][]interface{}{{"Name", "Div."}, {"Ann Lee", nil, 31.2}, {}})
	require.Equal(t, [][]string{{"Name", "Div."}, {"Ann Lee", "", "31.2"}, {}}, got)
	require.Equal(t, [][]interface{}{{"a", "b"}}, recordsToCells([][]string{{"a", "b"}}))
}
