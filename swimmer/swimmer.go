// Package swimmer holds roster identity and the division codes used for
// relay eligibility and selection.
package swimmer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDivision is returned for codes outside <1-8><B|G> and O<1|2><B|G>.
var ErrInvalidDivision = errors.New("swimmer: invalid division code")

// Swimmer is one roster entry.
type Swimmer struct {
	Name     string `json:"name"`
	Division string `json:"division"`
}

func (s Swimmer) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Division)
}

// Division is a parsed division code such as "3B" or "O2G".
type Division struct {
	Code  string
	Open  bool // O-prefixed tier
	Level int  // 1-8, or 1-2 for open tiers
	Sex   byte // 'B' or 'G'
}

// ParseDivision validates and parses a division code. Input is trimmed and
// upper-cased first.
func ParseDivision(code string) (Division, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch len(c) {
	case 2:
		if c[0] < '1' || c[0] > '8' || !validSex(c[1]) {
			break
		}
		return Division{Code: c, Level: int(c[0] - '0'), Sex: c[1]}, nil
	case 3:
		if c[0] != 'O' || (c[1] != '1' && c[1] != '2') || !validSex(c[2]) {
			break
		}
		return Division{Code: c, Open: true, Level: int(c[1] - '0'), Sex: c[2]}, nil
	}
	return Division{}, fmt.Errorf("%w: %q", ErrInvalidDivision, code)
}

// ParseDivisions parses every code, failing on the first invalid one.
func ParseDivisions(codes []string) ([]Division, error) {
	out := make([]Division, 0, len(codes))
	for _, c := range codes {
		d, err := ParseDivision(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func validSex(b byte) bool { return b == 'B' || b == 'G' }

// BackBreastRestricted reports whether swimmers of this division may not
// supply a 50 backstroke or 50 breaststroke time directly: division 4 and
// up, and the O2 tier.
func (d Division) BackBreastRestricted() bool {
	if d.Open {
		return d.Level == 2
	}
	return d.Level >= 4
}

// AllDivisionCodes lists every valid division code.
func AllDivisionCodes() []string {
	codes := make([]string, 0, 20)
	for _, sex := range []string{"B", "G"} {
		for n := 1; n <= 8; n++ {
			codes = append(codes, fmt.Sprintf("%d%s", n, sex))
		}
	}
	return append(codes, "O1B", "O1G", "O2B", "O2G")
}
