package table_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

func cell(t *testing.T, tb *table.Table, name, event string) string {
	t.Helper()
	v, err := tb.Cell(name, event)
	require.NoError(t, err)
	return v
}

func TestApplyBatch_NewAndUpdated(t *testing.T) {
	tb := fixture()
	b := table.Batch{Event: "50FR", Entries: []table.Entry{
		{Name: "Ann Lee", Time: "30.95"},
		{Name: "Bob Ray", Time: "2899"},
	}}
	res, err := table.NewReconciler(nil, nil).ApplyBatch(tb, b)
	require.NoError(t, err)
	require.Equal(t, 1, res.New)
	require.Equal(t, 1, res.Updated)
	require.Equal(t, "00:00:30.95", cell(t, tb, "Ann Lee", "50FR"))
	require.Equal(t, "00:00:28.99", cell(t, tb, "Bob Ray", "50FR"))
	require.True(t, res.Changed())
}

func TestApplyBatch_Idempotent(t *testing.T) {
	tb := fixture()
	rec := table.NewReconciler(nil, nil)
	b := table.Batch{Event: "100FR", Entries: []table.Entry{
		{Name: "Ann Lee", Time: "1:10.00"},
		{Name: "Bob Ray", Time: "1:04.50"},
	}}
	_, err := rec.ApplyBatch(tb, b)
	require.NoError(t, err)
	once := tb.Records()

	res, err := rec.ApplyBatch(tb, b)
	require.NoError(t, err)
	require.Zero(t, res.New)
	require.Zero(t, res.Updated)
	require.Equal(t, 2, res.Unchanged)
	require.False(t, res.Changed())
	require.Equal(t, once, tb.Records())
}

func TestApplyBatch_StrictImprovement(t *testing.T) {
	tb := table.FromRecords([][]string{table.Header, row("Ann Lee", "3G", "100BK", "00:01:00.00")})
	rec := table.NewReconciler(nil, nil)

	res, err := rec.ApplyBatch(tb, table.Batch{Event: "100BK", Entries: []table.Entry{{Name: "Ann Lee", Time: "00:01:00.01"}}})
	require.NoError(t, err)
	require.Zero(t, res.Updated)
	require.Equal(t, "00:01:00.00", cell(t, tb, "Ann Lee", "100BK"))

	res, err = rec.ApplyBatch(tb, table.Batch{Event: "100BK", Entries: []table.Entry{{Name: "Ann Lee", Time: "00:01:00.00"}}})
	require.NoError(t, err)
	require.Zero(t, res.Updated, "equal time is not an improvement")

	res, err = rec.ApplyBatch(tb, table.Batch{Event: "100BK", Entries: []table.Entry{{Name: "Ann Lee", Time: "00:00:59.99"}}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Updated)
	require.Equal(t, "00:00:59.99", cell(t, tb, "Ann Lee", "100BK"))
}

func TestApplyBatch_Force(t *testing.T) {
	tb := table.FromRecords([][]string{table.Header, row("Ann Lee", "3G", "100BK", "00:01:00.00")})
	res, err := table.NewReconciler(nil, nil).ApplyBatch(tb,
		table.Batch{Event: "100BK", Entries: []table.Entry{{Name: "Ann Lee", Time: "00:01:00.01"}}},
		table.WithForce())
	require.NoError(t, err)
	require.Equal(t, 1, res.Updated)
	require.Equal(t, "00:01:00.01", cell(t, tb, "Ann Lee", "100BK"))
}

func TestApplyBatch_UnknownEvent(t *testing.T) {
	tb := fixture()
	before := tb.Records()
	_, err := table.NewReconciler(nil, nil).ApplyBatch(tb, table.Batch{Event: "50IM", Entries: []table.Entry{{Name: "Ann Lee", Time: "3000"}}})
	require.ErrorIs(t, err, table.ErrUnknownEvent)
	require.Equal(t, before, tb.Records())
}

func TestApplyBatch_MissContinues(t *testing.T) {
	tb := fixture()
	var asked []table.Question
	d := table.DeciderFunc(func(q table.Question) (table.Decision, error) {
		asked = append(asked, q)
		return table.Default, nil
	})
	res, err := table.NewReconciler(d, nil).ApplyBatch(tb, table.Batch{Event: "50BR", Entries: []table.Entry{
		{Name: "Ghost", Time: "4000"},
		{Name: "Ann Lee", Time: "4100"},
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"Ghost"}, res.Misses)
	require.Equal(t, 1, res.New)
	require.Len(t, asked, 1)
	require.Equal(t, table.ContinueOnMiss, asked[0].Kind)
	require.Equal(t, "50BR", asked[0].Event)
}

func TestApplyBatch_MissAbortLeavesTableUntouched(t *testing.T) {
	tb := fixture()
	before := tb.Records()
	_, err := table.NewReconciler(table.Always(table.No), nil).ApplyBatch(tb, table.Batch{Event: "50BR", Entries: []table.Entry{
		{Name: "Ann Lee", Time: "4100"},
		{Name: "Ghost", Time: "4000"},
	}})
	require.ErrorIs(t, err, table.ErrMissingSwimmer)
	require.Equal(t, before, tb.Records())
}

func TestApplyBatch_InvalidEntriesDoNotAbort(t *testing.T) {
	tb := fixture()
	res, err := table.NewReconciler(nil, nil).ApplyBatch(tb, table.Batch{Event: "50FL", Entries: []table.Entry{
		{Name: "Ann Lee", Time: "DQ"},
		{Name: "Bob Ray", Time: "0"},
		{Name: "Bob Ray", Time: "3301"},
	}})
	require.NoError(t, err)
	require.Len(t, res.Invalid, 2)
	require.ErrorIs(t, res.Invalid[0], duration.ErrFormat)
	require.ErrorIs(t, res.Invalid[1], duration.ErrInvalidInput)
	require.Equal(t, 1, res.New)
	require.Equal(t, "", cell(t, tb, "Ann Lee", "50FL"))
	require.Equal(t, "00:00:33.01", cell(t, tb, "Bob Ray", "50FL"))
}

func TestBatch_FilterRoster(t *testing.T) {
	b := table.Batch{Event: "50FR", Entries: []table.Entry{
		{Name: "Ann Lee", Time: "3000"},
		{Name: "Stranger", Time: "2900"},
	}}
	kept, dropped := b.FilterRoster([]swimmer.Swimmer{{Name: "Ann Lee", Division: "3G"}})
	require.Equal(t, "50FR", kept.Event)
	require.Equal(t, []table.Entry{{Name: "Ann Lee", Time: "3000"}}, kept.Entries)
	require.Equal(t, []table.Entry{{Name: "Stranger", Time: "2900"}}, dropped)
}
