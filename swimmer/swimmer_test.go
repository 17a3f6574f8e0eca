package swimmer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/swimtimes/swimmer"
)

func TestParseDivision(t *testing.T) {
	cases := []struct {
		code       string
		open       bool
		level      int
		restricted bool
	}{
		{"1B", false, 1, false},
		{"3g", false, 3, false},
		{"4G", false, 4, true},
		{"8B", false, 8, true},
		{"O1B", true, 1, false},
		{" o2g ", true, 2, true},
	}
	for _, tc := range cases {
		d, err := swimmer.ParseDivision(tc.code)
		require.NoError(t, err, tc.code)
		require.Equal(t, tc.open, d.Open, tc.code)
		require.Equal(t, tc.level, d.Level, tc.code)
		require.Equal(t, tc.restricted, d.BackBreastRestricted(), tc.code)
	}
}

func TestParseDivision_Invalid(t *testing.T) {
	for _, code := range []string{"", "0B", "9G", "3X", "O3B", "X1B", "O1", "3BB", "Q"} {
		_, err := swimmer.ParseDivision(code)
		require.ErrorIs(t, err, swimmer.ErrInvalidDivision, code)
	}
}

func TestParseDivisions(t *testing.T) {
	ds, err := swimmer.ParseDivisions([]string{"3B", "O2G"})
	require.NoError(t, err)
	require.Len(t, ds, 2)
	require.Equal(t, "O2G", ds[1].Code)

	_, err = swimmer.ParseDivisions([]string{"3B", "9B"})
	require.ErrorIs(t, err, swimmer.ErrInvalidDivision)
}

func TestAllDivisionCodes(t *testing.T) {
	codes := swimmer.AllDivisionCodes()
	require.Len(t, codes, 20)
	for _, c := range codes {
		_, err := swimmer.ParseDivision(c)
		require.NoError(t, err, c)
	}
}
