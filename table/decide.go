package table

import (
	"fmt"
	"strings"

	"github.com/padraicbc/swimtimes/swimmer"
)

// Decision is the answer to a Question.
type Decision int

const (
	// Default lets the asking operation apply its own default.
	Default Decision = iota
	Yes
	No
)

func (d Decision) String() string {
	switch d {
	case Yes:
		return "yes"
	case No:
		return "no"
	}
	return "default"
}

// QuestionKind identifies the decision point.
type QuestionKind int

const (
	// RemoveSwimmer asks whether a row missing from the roster is removed.
	// Yes removes; No and Default keep the row.
	RemoveSwimmer QuestionKind = iota
	// ContinueOnMiss asks whether a batch continues past a name that has no
	// row. Yes and Default continue; No aborts the batch.
	ContinueOnMiss
	// OverwriteSlower asks whether a slower manual time replaces a faster
	// stored one. Yes overwrites; No and Default skip.
	OverwriteSlower
)

func (k QuestionKind) String() string {
	switch k {
	case RemoveSwimmer:
		return "remove-swimmer"
	case ContinueOnMiss:
		return "continue-on-miss"
	case OverwriteSlower:
		return "overwrite-slower"
	}
	return fmt.Sprintf("question(%d)", int(k))
}

// Question carries the context of a decision.
type Question struct {
	Kind    QuestionKind
	Swimmer swimmer.Swimmer
	Event   string
	// Current and Proposed are set for OverwriteSlower.
	Current  string
	Proposed string
}

// Prompt renders the question for a person.
func (q Question) Prompt() string {
	switch q.Kind {
	case RemoveSwimmer:
		return fmt.Sprintf("Swimmer %s not found in swimmer list. Remove from table?", q.Swimmer)
	case ContinueOnMiss:
		return fmt.Sprintf("Unable to find %q in table (%s). Continue with operation?", q.Swimmer.Name, q.Event)
	case OverwriteSlower:
		return fmt.Sprintf("%s's existing time for %s is faster (%s) than new time (%s). Overwrite it?",
			q.Swimmer.Name, q.Event, q.Current, q.Proposed)
	}
	return q.Kind.String()
}

// Decider answers questions raised by the reconciler. Returning an error
// aborts the operation that asked, leaving the table unchanged.
type Decider interface {
	Decide(q Question) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(q Question) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(q Question) (Decision, error) { return f(q) }

// Always answers every question with d.
func Always(d Decision) Decider {
	return DeciderFunc(func(Question) (Decision, error) { return d, nil })
}

// Reject fails every question with ErrRejected.
var Reject Decider = DeciderFunc(func(q Question) (Decision, error) {
	return Default, fmt.Errorf("%w: %s", ErrRejected, q.Prompt())
})

// Router sends each question kind to its own decider. Kinds without an
// entry get Default.
type Router map[QuestionKind]Decider

// Decide dispatches on q.Kind.
func (r Router) Decide(q Question) (Decision, error) {
	if d, ok := r[q.Kind]; ok && d != nil {
		return d.Decide(q)
	}
	return Default, nil
}

// RemovalPolicy maps a config value (keep, remove, reject) onto a decider
// for RemoveSwimmer questions.
func RemovalPolicy(v string) (Decider, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "keep":
		return Always(No), nil
	case "remove":
		return Always(Yes), nil
	case "reject":
		return Reject, nil
	}
	return nil, fmt.Errorf("table: unknown removal policy %q", v)
}

// MissPolicy maps a config value (continue, abort) onto a decider for
// ContinueOnMiss questions.
func MissPolicy(v string) (Decider, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "continue":
		return Always(Yes), nil
	case "abort":
		return Always(No), nil
	}
	return nil, fmt.Errorf("table: unknown missing-name policy %q", v)
}
