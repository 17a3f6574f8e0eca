package duration_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/swimtimes/duration"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:01:42.56", 102.56},
		{"00:00:00.00", 0},
		{"00:00:28.09", 28.09},
		{"01:00:00.01", 3600.01},
		{"12:34:56.78", 45296.78},
	}
	for _, tc := range cases {
		got, err := duration.Parse(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"1:42.56",
		"00:01:42.5",
		"00:01:42.567",
		"00-01:42.56",
		"00:01:42:56",
		"00:0a:42.56",
		"0 :01:42.56",
	} {
		_, err := duration.Parse(in)
		require.ErrorIs(t, err, duration.ErrFormat, in)
		require.False(t, duration.Valid(in), in)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.00"},
		{102.56, "00:01:42.56"},
		{28.09, "00:00:28.09"},
		{59.999, "00:01:00.00"},
		{3600.01, "01:00:00.01"},
		{1.125, "00:00:01.13"}, // exact binary half rounds away from zero
		{0.004, "00:00:00.00"},
		{61, "00:01:01.00"},
	}
	for _, tc := range cases {
		got, err := duration.Format(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestFormat_InvalidInput(t *testing.T) {
	for _, in := range []float64{-0.01, -100, 360000} {
		_, err := duration.Format(in)
		require.ErrorIs(t, err, duration.ErrInvalidInput, "%v", in)
	}
}

func TestRoundTrip(t *testing.T) {
	for h := 0; h < 3; h++ {
		for m := 0; m < 60; m += 7 {
			for s := 0; s < 60; s += 11 {
				for cs := 0; cs < 100; cs += 3 {
					d := fmtParts(h, m, s, cs)
					secs, err := duration.Parse(d)
					require.NoError(t, err)
					back, err := duration.Format(secs)
					require.NoError(t, err)
					require.Equal(t, d, back)
				}
			}
		}
	}
}

func fmtParts(h, m, s, cs int) string {
	b := []byte("00:00:00.00")
	put := func(at, v int) {
		b[at] = byte('0' + v/10)
		b[at+1] = byte('0' + v%10)
	}
	put(0, h)
	put(3, m)
	put(6, s)
	put(9, cs)
	return string(b)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"14256", "00:01:42.56"},
		{"3934", "00:00:39.34"},
		{"1:42.56", "00:01:42.56"},
		{"59.99", "00:00:59.99"},
		{"7", "00:00:00.07"},
		{"00:01:42.56", "00:01:42.56"},
		{"1:02:03.04", "01:02:03.04"},
		{" 2834 ", "00:00:28.34"},
		{"123456789", "23:45:67.89"}, // digits above the hour field are dropped
	}
	for _, tc := range cases {
		got, err := duration.Normalize(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	for _, in := range []string{"", "::", "1:4x.56", "abc"} {
		_, err := duration.Normalize(in)
		require.ErrorIs(t, err, duration.ErrFormat, in)
	}
}

func TestIsZero(t *testing.T) {
	require.True(t, duration.IsZero(""))
	require.True(t, duration.IsZero(duration.Zero))
	require.False(t, duration.IsZero("00:00:00.01"))
}
