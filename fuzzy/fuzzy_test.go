package fuzzy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/swimtimes/fuzzy"
)

func names(cs []fuzzy.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestSearch_ExactShortCircuits(t *testing.T) {
	m := fuzzy.New(fuzzy.ModeWindow, 0)
	pool := fuzzy.Names("Ann Leeds", "Ann Lee", "Joann Leek")
	got := m.Search("ann lee", pool)
	require.Equal(t, []string{"Ann Lee"}, names(got))
}

func TestSearch_SubstringSortedAlphabetically(t *testing.T) {
	m := fuzzy.New(fuzzy.ModeWindow, 0)
	pool := fuzzy.Names("Banner", "Anna Kim", "Ann Lee", "Tom Reed")
	got := m.Search("ann", pool)
	require.Equal(t, []string{"Ann Lee", "Anna Kim", "Banner"}, names(got))

	got = m.Search("ANN", pool)
	require.Equal(t, []string{"Ann Lee", "Anna Kim", "Banner"}, names(got))
}

func TestSearch_SubstringKeepsMeta(t *testing.T) {
	m := fuzzy.New(fuzzy.ModeFlat, 0)
	pool := []fuzzy.Candidate{{Name: "Sam Park", Meta: "4B"}, {Name: "Sam Park", Meta: "2B"}}
	got := m.Search("sam", pool)
	require.Equal(t, []fuzzy.Candidate{{Name: "Sam Park", Meta: "2B"}, {Name: "Sam Park", Meta: "4B"}}, got)
}

func TestSearch_WindowMode(t *testing.T) {
	m := fuzzy.New(fuzzy.ModeWindow, 0)
	pool := fuzzy.Names("Mary Jones", "John Smith", "Jo Ann")
	got := m.Search("jahn", pool)
	require.Equal(t, []string{"John Smith"}, names(got))
}

func TestSearch_DistanceOrder(t *testing.T) {
	pool := fuzzy.Names("Bob Stone", "Joan Smyth", "John Smith")

	for _, mode := range []fuzzy.Mode{fuzzy.ModeFlat, fuzzy.ModeWindow} {
		got := fuzzy.New(mode, 0).Search("jon smith", pool)
		require.Equal(t, []string{"John Smith", "Joan Smyth"}, names(got), mode.String())
	}
}

func TestSearch_ThresholdOverride(t *testing.T) {
	pool := fuzzy.Names("Joan Smyth", "John Smith")
	got := fuzzy.New(fuzzy.ModeFlat, 1).Search("jon smith", pool)
	require.Equal(t, []string{"John Smith"}, names(got))
}

func TestSearch_NoMatch(t *testing.T) {
	m := fuzzy.New(fuzzy.ModeFlat, 0)
	require.Empty(t, m.Search("zzzzzz", fuzzy.Names("Ann Lee", "")))
	require.Empty(t, m.Search("   ", fuzzy.Names("Ann Lee")))
}

func TestParseMode(t *testing.T) {
	m, err := fuzzy.ParseMode("FLAT")
	require.NoError(t, err)
	require.Equal(t, fuzzy.ModeFlat, m)

	m, err = fuzzy.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, fuzzy.ModeWindow, m)

	_, err = fuzzy.ParseMode("soundex")
	require.Error(t, err)
}
