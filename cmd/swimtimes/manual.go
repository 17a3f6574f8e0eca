package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/tracker"
)

const manualHelp = `Manual entry. Type q to quit or r to restart the current entry.
Prefix a name or event with * to keep it for the following entries; leave
the field blank to reuse it.`

// manualState holds the persistent values between entries.
type manualState struct {
	name  string
	event string
}

func (a *app) manualLoop(ctx context.Context) error {
	fmt.Fprintln(a.out, manualHelp)
	var st manualState
	for {
		err := a.manualEntry(ctx, &st)
		switch {
		case err == nil, errors.Is(err, errRestart):
		case errors.Is(err, errQuit):
			fmt.Fprintln(a.out, "Exiting manual entry.")
			return nil
		default:
			return err
		}
	}
}

// manualEntry runs one entry. Validation problems are printed and the entry
// is abandoned; only input failures are returned.
func (a *app) manualEntry(ctx context.Context, st *manualState) error {
	in, err := a.con.field("\nMANUAL ENTRY - Enter swimmer's name: ")
	if err != nil {
		return err
	}
	name, ok := a.con.persistent(in, &st.name, "name")
	if !ok {
		return errRestart
	}

	name, division, err := a.pickSwimmer(ctx, name)
	if err != nil {
		return err
	}

	prompt := "Enter event (e.g., 50FR): "
	if st.event != "" {
		prompt = fmt.Sprintf("Enter event (E: %s) or time: ", st.event)
	}
	in, err = a.con.field(prompt)
	if err != nil {
		return err
	}
	in = strings.ToUpper(strings.ReplaceAll(in, " ", ""))

	var event, raw string
	if st.event != "" && in != "" && !strings.HasPrefix(in, "*") && !hasLetter(in) {
		// A bare number with an event already set is the time.
		event, raw = st.event, in
	} else {
		if event, ok = a.con.persistent(in, &st.event, "event"); !ok {
			return errRestart
		}
		if raw, err = a.con.field("Enter time (e.g., 14256 or 1:42.56): "); err != nil {
			return err
		}
	}

	res, err := a.svc.RecordManual(ctx, a.decider, tracker.ManualEntry{
		Name:     name,
		Division: division,
		Event:    event,
		Time:     raw,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return nil
	}
	if res.NewSwimmer {
		fmt.Fprintf(a.out, "Added %s to the table and swimmer list.\n", res.Swimmer)
	}
	if res.Written {
		fmt.Fprintf(a.out, "Time %s recorded for %s in %s.\n", res.Time, res.Swimmer.Name, res.Event)
	}
	return nil
}

// pickSwimmer resolves a typed name against the table, asking the user to
// choose between several matches or for a division when nobody matches.
func (a *app) pickSwimmer(ctx context.Context, name string) (string, string, error) {
	matches, err := a.svc.Search(ctx, name)
	if err != nil {
		return "", "", err
	}

	switch len(matches) {
	case 0:
		fmt.Fprintf(a.out, "No swimmer found matching %q.\n", name)
		in, err := a.con.field(fmt.Sprintf("Enter division for new swimmer %s: ", name))
		if err != nil {
			return "", "", err
		}
		d, err := swimmer.ParseDivision(in)
		if err != nil {
			fmt.Fprintf(a.out, "Division not found in valids: %s\n", strings.Join(swimmer.AllDivisionCodes(), ", "))
			return "", "", errRestart
		}
		return name, d.Code, nil
	case 1:
		if matches[0].Name != name {
			fmt.Fprintf(a.out, "Swimmer found: %s (%s)\n", matches[0].Name, matches[0].Meta)
		}
		return matches[0].Name, "", nil
	}

	fmt.Fprintln(a.out, "Multiple swimmers found:")
	for i, m := range matches {
		fmt.Fprintf(a.out, "%d. %s (%s)\n", i+1, m.Name, m.Meta)
	}
	in, err := a.con.field("Select the swimmer by number: ")
	if err != nil {
		return "", "", err
	}
	n, err := strconv.Atoi(in)
	if err != nil || n < 1 || n > len(matches) {
		fmt.Fprintln(a.out, "Invalid selection.")
		return "", "", errRestart
	}
	return matches[n-1].Name, "", nil
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
