// Package duration converts between the fixed-width HH:MM:SS.cc text used in
// the master table and a float64 number of seconds.
package duration

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Zero is the canonical zero duration. The table never stores it; a zero
// cell is written as the empty string.
const Zero = "00:00:00.00"

// Len is the length of a canonical duration string.
const Len = len(Zero)

// maxCentis is the first value that no longer fits a two-digit hour field.
const maxCentis = 100 * 3600 * 100

var (
	// ErrFormat is returned for text that is not a well formed duration.
	ErrFormat = errors.New("duration: malformed duration")

	// ErrInvalidInput is returned for seconds values that cannot be formatted.
	ErrInvalidInput = errors.New("duration: invalid seconds value")
)

// centisecond weight per character position; -1 marks a separator.
var weights = [Len]int64{
	3600000, 360000, -1,
	60000, 6000, -1,
	1000, 100, -1,
	10, 1,
}

var separators = [Len]byte{2: ':', 5: ':', 8: '.'}

// Parse converts a canonical HH:MM:SS.cc string into seconds.
func Parse(text string) (float64, error) {
	cs, err := centis(text)
	if err != nil {
		return 0, err
	}
	return float64(cs) / 100, nil
}

// Valid reports whether text has the canonical duration shape.
func Valid(text string) bool {
	_, err := centis(text)
	return err == nil
}

func centis(text string) (int64, error) {
	if len(text) != Len {
		return 0, fmt.Errorf("%w: %q has length %d, want %d", ErrFormat, text, len(text), Len)
	}
	var total int64
	for i := 0; i < Len; i++ {
		ch := text[i]
		if weights[i] < 0 {
			if ch != separators[i] {
				return 0, fmt.Errorf("%w: %q position %d must be %q", ErrFormat, text, i, separators[i])
			}
			continue
		}
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("%w: %q position %d is not a digit", ErrFormat, text, i)
		}
		total += int64(ch-'0') * weights[i]
	}
	return total, nil
}

// Format renders seconds as HH:MM:SS.cc. Values are rounded to the nearest
// centisecond with halves rounded away from zero.
func Format(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, seconds)
	}
	if seconds == 0 {
		return Zero, nil
	}
	cs := int64(math.Round(seconds * 100))
	if cs >= maxCentis {
		return "", fmt.Errorf("%w: %v exceeds 99:59:59.99", ErrInvalidInput, seconds)
	}
	hours := cs / 360000
	cs %= 360000
	minutes := cs / 6000
	cs %= 6000
	secs := cs / 100
	cs %= 100
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, secs, cs), nil
}

// Normalize right-aligns a loosely typed time such as "14256", "1:42.56" or
// "59.99" into the canonical template. The two least significant digits are
// centiseconds; missing fields are zero and digits beyond the hour field are
// dropped. Colons, dots and spaces are ignored.
func Normalize(raw string) (string, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= '0' && ch <= '9':
			digits = append(digits, ch)
		case ch == ':' || ch == '.' || ch == ' ' || ch == '\t':
		default:
			return "", fmt.Errorf("%w: %q contains %q", ErrFormat, raw, ch)
		}
	}
	if len(digits) == 0 {
		return "", fmt.Errorf("%w: %q has no digits", ErrFormat, raw)
	}

	out := []byte(Zero)
	d := len(digits) - 1
	for i := Len - 1; i >= 0 && d >= 0; i-- {
		if weights[i] < 0 {
			continue
		}
		out[i] = digits[d]
		d--
	}
	return string(out), nil
}

// IsZero reports whether text is empty or a zero duration.
func IsZero(text string) bool {
	return strings.TrimSpace(text) == "" || text == Zero
}
