// Package version parses vendor-qualified JDK version strings such as
// "8.13.14", "11.0.17.13.8" or "17.0.4.0.4+8" into comparable numeric tuples.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned when a string has no leading numeric segment.
var ErrInvalid = errors.New("invalid version")

// Version is the numeric part of an extended version plus whatever vendor
// qualifier followed it.
type Version struct {
	Segments  []int
	Qualifier string
	Original  string
}

// Parse extracts the longest dotted numeric prefix of s. Everything after it
// is kept verbatim as the qualifier.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "v"), "V")

	segments := make([]int, 0, 5)
	rest := trimmed
	for {
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			break
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil {
			return Version{}, fmt.Errorf("%w %q: %v", ErrInvalid, s, err)
		}
		segments = append(segments, n)
		rest = rest[end:]

		// only continue over a dot that is followed by another digit
		if len(rest) < 2 || rest[0] != '.' || rest[1] < '0' || rest[1] > '9' {
			break
		}
		rest = rest[1:]
	}

	if len(segments) == 0 {
		return Version{}, fmt.Errorf("%w %q", ErrInvalid, s)
	}

	return Version{Segments: segments, Qualifier: rest, Original: raw}, nil
}

// Major returns the first segment.
func (v Version) Major() int {
	if len(v.Segments) == 0 {
		return 0
	}
	return v.Segments[0]
}

// Segment returns segment i, or 0 when the version is shorter.
func (v Version) Segment(i int) int {
	if i < len(v.Segments) {
		return v.Segments[i]
	}
	return 0
}

// HasPrefix reports whether the leading segments of v equal prefix.
func (v Version) HasPrefix(prefix []int) bool {
	if len(prefix) > len(v.Segments) {
		return false
	}
	for i, n := range prefix {
		if v.Segments[i] != n {
			return false
		}
	}
	return true
}

// Compare orders versions segment by segment. When one tuple is a prefix of
// the other the longer one is greater. Qualifiers are ignored.
func Compare(a, b Version) int {
	for i := 0; i < len(a.Segments) && i < len(b.Segments); i++ {
		switch {
		case a.Segments[i] < b.Segments[i]:
			return -1
		case a.Segments[i] > b.Segments[i]:
			return 1
		}
	}
	switch {
	case len(a.Segments) < len(b.Segments):
		return -1
	case len(a.Segments) > len(b.Segments):
		return 1
	}
	return 0
}

// String renders the numeric tuple followed by the qualifier.
func (v Version) String() string {
	parts := make([]string, len(v.Segments))
	for i, n := range v.Segments {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".") + v.Qualifier
}
