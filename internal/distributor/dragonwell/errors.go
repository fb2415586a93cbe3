package dragonwell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedMajorVersion is matched by errors for majors outside the support table.
	ErrUnsupportedMajorVersion = errors.New("unsupported major version")
	// ErrNoSatisfyingVersion is matched by errors for requests no release satisfies.
	ErrNoSatisfyingVersion = errors.New("no satisfying version")
)

// UnsupportedMajorVersionError is returned before the manifest is read when
// the requested major is not published at all.
type UnsupportedMajorVersionError struct {
	Requested string
	Supported []int
}

func (e *UnsupportedMajorVersionError) Error() string {
	parts := make([]string, len(e.Supported))
	for i, v := range e.Supported {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("unsupported dragonwell version %q. Support dragonwell versions: %s",
		e.Requested, strings.Join(parts, ", "))
}

func (e *UnsupportedMajorVersionError) Is(target error) bool {
	return target == ErrUnsupportedMajorVersion
}

// NoSatisfyingVersionError is returned when filtering and matching leave no release.
type NoSatisfyingVersionError struct {
	Requested string
}

func (e *NoSatisfyingVersionError) Error() string {
	return fmt.Sprintf("Cannot find satisfied version for %s.", e.Requested)
}

func (e *NoSatisfyingVersionError) Is(target error) bool {
	return target == ErrNoSatisfyingVersion
}
