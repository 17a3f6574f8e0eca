package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/store"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
	"github.com/padraicbc/swimtimes/tracker"
)

func fixture() *table.Table {
	header := table.Header
	row := func(name, div, event, t string) []string {
		r := make([]string, len(header))
		r[0], r[1] = name, div
		for i, h := range header {
			if h == event {
				r[i] = t
			}
		}
		return r
	}
	return table.FromRecords([][]string{
		header,
		row("Ann Lee", "3G", "50FL", "00:00:35.00"),
		row("Anna Kim", "3G", "50FL", "00:00:34.00"),
		row("Bob Ray", "3B", "50FR", "00:00:33.00"),
	})
}

// relayFixture gives five swimmers a 50 free time.
func relayFixture() *table.Table {
	rec := func(name, div, t string) []string {
		r := make([]string, len(table.Header))
		r[0], r[1] = name, div
		for i, h := range table.Header {
			if h == "50FR" {
				r[i] = t
			}
		}
		return r
	}
	return table.FromRecords([][]string{
		table.Header,
		rec("Ann Lee", "3G", "00:00:31.20"),
		rec("Anna Kim", "3G", "00:00:32.00"),
		rec("Bob Ray", "3B", "00:00:33.00"),
		rec("Cy Dee", "3G", "00:00:34.00"),
		rec("Dan Orr", "4B", "00:00:30.00"),
	})
}

func newTestApp(t *testing.T, input string) (*app, *store.Memory, *bytes.Buffer) {
	t.Helper()
	return newTestAppWith(t, fixture(), input)
}

func newTestAppWith(t *testing.T, tbl *table.Table, input string) (*app, *store.Memory, *bytes.Buffer) {
	t.Helper()
	mem := store.NewMemory(tbl, tbl.Swimmers())
	out := &bytes.Buffer{}
	a := &app{out: out, log: zap.NewNop(), store: mem}
	a.con = newConsole(strings.NewReader(input), out)
	d, err := a.con.decider("prompt", "prompt")
	require.NoError(t, err)
	a.decider = d
	a.svc = tracker.New(mem, tracker.WithLogger(a.log))
	return a, mem, out
}

func cell(t *testing.T, mem *store.Memory, name, event string) string {
	t.Helper()
	tbl, err := mem.LoadTable(context.Background())
	require.NoError(t, err)
	c, err := tbl.Cell(name, event)
	require.NoError(t, err)
	return c
}

func TestConsoleHidesMissesAfterAnswer(t *testing.T) {
	out := &bytes.Buffer{}
	c := newConsole(strings.NewReader("y\ny\n"), out)
	q := table.Question{Kind: table.ContinueOnMiss, Swimmer: swimmer.Swimmer{Name: "Nobody"}, Event: "50FR"}

	d, err := c.Decide(q)
	require.NoError(t, err)
	require.Equal(t, table.Yes, d)
	require.NotNil(t, c.hideMisses)
	require.True(t, *c.hideMisses)

	// No input left: the answer must come from memory.
	d, err = c.Decide(q)
	require.NoError(t, err)
	require.Equal(t, table.Yes, d)
	require.Contains(t, out.String(), "Will NOT prompt")
}

func TestConsoleMissAbort(t *testing.T) {
	c := newConsole(strings.NewReader("n\n"), &bytes.Buffer{})
	d, err := c.Decide(table.Question{Kind: table.ContinueOnMiss})
	require.NoError(t, err)
	require.Equal(t, table.No, d)
	require.Nil(t, c.hideMisses)
}

func TestConsoleEOF(t *testing.T) {
	c := newConsole(strings.NewReader(""), &bytes.Buffer{})
	_, err := c.Decide(table.Question{Kind: table.RemoveSwimmer})
	require.Error(t, err)
}

func TestConsolePolicies(t *testing.T) {
	c := newConsole(strings.NewReader(""), &bytes.Buffer{})
	d, err := c.decider("remove", "abort")
	require.NoError(t, err)

	got, err := d.Decide(table.Question{Kind: table.RemoveSwimmer})
	require.NoError(t, err)
	require.Equal(t, table.Yes, got)

	got, err = d.Decide(table.Question{Kind: table.ContinueOnMiss})
	require.NoError(t, err)
	require.Equal(t, table.No, got)

	_, err = c.decider("sometimes", "prompt")
	require.Error(t, err)
}

func TestPersistent(t *testing.T) {
	out := &bytes.Buffer{}
	c := newConsole(strings.NewReader(""), out)
	var saved string

	_, ok := c.persistent("", &saved, "event")
	require.False(t, ok)
	require.Contains(t, out.String(), "No event provided")

	v, ok := c.persistent("*50FR", &saved, "event")
	require.True(t, ok)
	require.Equal(t, "50FR", v)

	v, ok = c.persistent("", &saved, "event")
	require.True(t, ok)
	require.Equal(t, "50FR", v)

	v, ok = c.persistent("100FR", &saved, "event")
	require.True(t, ok)
	require.Equal(t, "100FR", v)
	require.Equal(t, "50FR", saved)
}

func TestManualLoopPersistentValues(t *testing.T) {
	// Bob Ray 28.50 in 50FR, then the same swimmer and event with a slower
	// time that is declined, then quit.
	a, mem, out := newTestApp(t, "*Bob\n*50FR\n2850\n\n3100\nn\nq\n")

	require.NoError(t, a.manualLoop(context.Background()))
	require.Equal(t, "00:00:28.50", cell(t, mem, "Bob Ray", "50FR"))
	require.Contains(t, out.String(), "Using persistent name: Bob")
	require.Contains(t, out.String(), "Entry skipped.")
	require.Contains(t, out.String(), "Exiting manual entry.")
}

func TestManualLoopAmbiguousPick(t *testing.T) {
	a, mem, out := newTestApp(t, "Ann\n2\n50FL\n3300\nq\n")

	require.NoError(t, a.manualLoop(context.Background()))
	require.Contains(t, out.String(), "Multiple swimmers found:")
	require.Equal(t, "00:00:33.00", cell(t, mem, "Anna Kim", "50FL"))
	require.Equal(t, "00:00:35.00", cell(t, mem, "Ann Lee", "50FL"))
}

func TestManualLoopBadInputContinues(t *testing.T) {
	// Unknown event is reported and the loop carries on; r restarts.
	a, mem, out := newTestApp(t, "Bob Ray\n50XX\n3000\nr\nq\n")

	require.NoError(t, a.manualLoop(context.Background()))
	require.Contains(t, out.String(), "Error:")
	require.Equal(t, "00:00:33.00", cell(t, mem, "Bob Ray", "50FR"))
	require.Zero(t, mem.Saves())
}

func TestChooseNames(t *testing.T) {
	a, _, out := newTestApp(t, "Bob\n\nAnn\n1\nBob Ray\nzzzzzz\n\n")

	names, err := a.chooseNames(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob Ray", "Ann Lee"}, names)
	require.Contains(t, out.String(), "Select at least 2 swimmers.")
	require.Contains(t, out.String(), "Bob Ray is already selected.")
}

func TestChooseNamesStopsAtMax(t *testing.T) {
	a, _, _ := newTestApp(t, "Bob\nAnna\nextra\n")

	names, err := a.chooseNames(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob Ray", "Anna Kim"}, names)
}

func TestRelayIdealDivisionPrompt(t *testing.T) {
	// invalid mode, invalid code and an empty list are all asked again
	a, _, out := newTestAppWith(t, relayFixture(), "x\nd\n3X\n\n3G, 3b\n")
	cmd := a.idealCmd()
	cmd.SetArgs([]string{"--type", "freestyle"})

	require.NoError(t, cmd.Execute())
	got := out.String()
	require.Contains(t, got, "Answer n or d.")
	require.Contains(t, got, "Valid divisions:")
	require.Contains(t, got, "Enter at least one division.")
	require.Contains(t, got, "Total: 00:02:10.20")
	require.NotContains(t, got, "Dan Orr")
	require.Less(t, strings.Index(got, "Anna Kim"), strings.Index(got, "Ann Lee "))
}

func TestRelayIdealNamePrompt(t *testing.T) {
	a, _, out := newTestAppWith(t, relayFixture(), "n\nDan\nAnn Lee\nBob\n\nCy\n\n")
	cmd := a.idealCmd()
	cmd.SetArgs([]string{"-t", "free"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Select at least 4 swimmers.")
	require.Contains(t, out.String(), "Total: 00:02:08.20")
}

func TestRelayEstimatePrompt(t *testing.T) {
	a, _, out := newTestAppWith(t, relayFixture(), "Dan\nAnn Lee\nBob\nBob Ray\nCy\n")
	cmd := a.estimateCmd()
	cmd.SetArgs([]string{"--type", "freestyle"})

	require.NoError(t, cmd.Execute())
	got := out.String()
	require.Contains(t, got, "Bob Ray is already selected.")
	require.Contains(t, got, "Total: 00:02:08.20")
	dan, ann, bob, cy := strings.Index(got, "  FREE   Dan Orr"), strings.Index(got, "  FREE   Ann Lee"),
		strings.Index(got, "  FREE   Bob Ray"), strings.Index(got, "  FREE   Cy Dee")
	require.True(t, dan >= 0 && dan < ann && ann < bob && bob < cy, got)
}

func TestRelayEstimateQuit(t *testing.T) {
	a, _, _ := newTestAppWith(t, relayFixture(), "Dan\nq\n")
	cmd := a.estimateCmd()
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
}
