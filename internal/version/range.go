package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	dottedPattern = regexp.MustCompile(`^[vV]?\d+(\.\d+)*(\.[xX*])*$`)
	majorPattern  = regexp.MustCompile(`\d+`)
)

// Range is a parsed version request.
//
// A dotted numeric request ("8", "11.0.17", "8.13.14") matches every version
// whose leading segments equal the request; anything else is treated as a
// semver constraint ("^17", ">=11.0.15 <11.0.17") checked against the first
// three segments of a candidate.
type Range struct {
	raw        string
	major      int
	prefix     []int
	constraint *semver.Constraints
}

// ParseRange parses a requested version string.
func ParseRange(s string) (Range, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Range{}, fmt.Errorf("%w: empty version request", ErrInvalid)
	}

	major, err := requestedMajor(raw)
	if err != nil {
		return Range{}, err
	}

	if dottedPattern.MatchString(raw) {
		prefix := make([]int, 0, 4)
		for _, part := range strings.Split(strings.TrimLeft(raw, "vV"), ".") {
			if part == "x" || part == "X" || part == "*" {
				break
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return Range{}, fmt.Errorf("%w %q: %v", ErrInvalid, raw, err)
			}
			prefix = append(prefix, n)
		}
		return Range{raw: raw, major: major, prefix: prefix}, nil
	}

	c, err := semver.NewConstraint(raw)
	if err != nil {
		return Range{}, fmt.Errorf("%w %q: %v", ErrInvalid, raw, err)
	}
	return Range{raw: raw, major: major, constraint: c}, nil
}

// RequestedMajor returns the major component of a version request, which is
// its first run of digits.
func RequestedMajor(s string) (int, error) {
	return requestedMajor(strings.TrimSpace(s))
}

func requestedMajor(s string) (int, error) {
	m := majorPattern.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("%w %q: no major version", ErrInvalid, s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalid, s, err)
	}
	return n, nil
}

// Major returns the requested major version.
func (r Range) Major() int { return r.major }

// String returns the request as it was given.
func (r Range) String() string { return r.raw }

// Contains reports whether v satisfies the range.
func (r Range) Contains(v Version) bool {
	if r.constraint == nil {
		return v.HasPrefix(r.prefix)
	}
	sv := semver.New(uint64(v.Segment(0)), uint64(v.Segment(1)), uint64(v.Segment(2)), "", "")
	return r.constraint.Check(sv)
}
