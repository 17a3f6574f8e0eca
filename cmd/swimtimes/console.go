package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/padraicbc/swimtimes/table"
)

var (
	errQuit    = errors.New("quit")
	errRestart = errors.New("restart")
)

// console reads answers line by line and answers reconciler questions.
type console struct {
	in  *bufio.Reader
	out io.Writer

	// hideMisses is nil until the user has been asked once whether to stop
	// warning about missing names.
	hideMisses *bool
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: newReader(in), out: out}
}

// ask prints prompt and returns the trimmed line. A final line without a
// newline is returned; reading past the end fails with io.EOF.
func (c *console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *console) yesNo(prompt string) (bool, error) {
	ans, err := c.ask(prompt + " (y/n) ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Decide implements table.Decider.
func (c *console) Decide(q table.Question) (table.Decision, error) {
	if q.Kind == table.ContinueOnMiss {
		return c.decideMiss(q)
	}
	yes, err := c.yesNo(q.Prompt())
	if err != nil {
		return table.Default, err
	}
	if yes {
		return table.Yes, nil
	}
	if q.Kind == table.OverwriteSlower {
		fmt.Fprintln(c.out, "Entry skipped.")
	}
	return table.No, nil
}

func (c *console) decideMiss(q table.Question) (table.Decision, error) {
	if c.hideMisses != nil && *c.hideMisses {
		fmt.Fprintf(c.out, "Entry ignored: %s (%s)\n", q.Swimmer.Name, q.Event)
		return table.Yes, nil
	}
	yes, err := c.yesNo(q.Prompt())
	if err != nil {
		return table.Default, err
	}
	if !yes {
		return table.No, nil
	}
	if c.hideMisses == nil {
		hide, err := c.yesNo("Hide prompt warning for future missing names?")
		if err != nil {
			return table.Default, err
		}
		c.hideMisses = &hide
		if hide {
			fmt.Fprintln(c.out, "Will NOT prompt for any further invalid names.")
		} else {
			fmt.Fprintln(c.out, "Will continue to prompt for further invalid names.")
		}
	}
	fmt.Fprintf(c.out, "Entry ignored: %s (%s)\n", q.Swimmer.Name, q.Event)
	return table.Yes, nil
}

// decider routes questions to the console unless configuration fixes the
// answer.
func (c *console) decider(removal, missing string) (table.Decider, error) {
	r := table.Router{
		table.RemoveSwimmer:   c,
		table.ContinueOnMiss:  c,
		table.OverwriteSlower: c,
	}
	if removal != "prompt" {
		d, err := table.RemovalPolicy(removal)
		if err != nil {
			return nil, err
		}
		r[table.RemoveSwimmer] = d
	}
	if missing != "prompt" {
		d, err := table.MissPolicy(missing)
		if err != nil {
			return nil, err
		}
		r[table.ContinueOnMiss] = d
	}
	return r, nil
}

// field reads one manual entry field, mapping "q" and "r" onto errQuit and
// errRestart.
func (c *console) field(prompt string) (string, error) {
	s, err := c.ask(prompt)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(s) {
	case "q":
		return "", errQuit
	case "r":
		return "", errRestart
	}
	return s, nil
}

// persistent applies the "*value" shortcut: a leading star stores the value
// for later entries and an empty answer reuses it.
func (c *console) persistent(in string, saved *string, what string) (string, bool) {
	if strings.HasPrefix(in, "*") {
		*saved = strings.TrimSpace(in[1:])
		return *saved, *saved != ""
	}
	if in != "" {
		return in, true
	}
	if *saved != "" {
		fmt.Fprintf(c.out, "Using persistent %s: %s\n", what, *saved)
		return *saved, true
	}
	fmt.Fprintf(c.out, "No %s provided and no persistent %s set.\n", what, what)
	return "", false
}
