package dragonwell

import (
	"github.com/rs/zerolog/log"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/version"
)

// TieBreak decides between releases whose versions compare equal.
type TieBreak int

const (
	// TieBreakFirst keeps the release that appears first in the manifest.
	TieBreakFirst TieBreak = iota
	// TieBreakLast keeps the release that appears last in the manifest.
	TieBreakLast
)

// Match returns the candidate with the greatest version satisfying requested.
// Candidates of another major or whose version cannot be parsed are skipped.
func Match(candidates []distributor.Release, requested string, tie TieBreak) (distributor.Release, error) {
	r, err := version.ParseRange(requested)
	if err != nil {
		return distributor.Release{}, &NoSatisfyingVersionError{Requested: requested}
	}

	var (
		best    distributor.Release
		bestVer version.Version
		found   bool
	)
	for _, c := range candidates {
		v, err := version.Parse(c.Version)
		if err != nil {
			log.Debug().Err(err).Str("url", c.URL).Msg("skipping release with unparseable version")
			continue
		}
		if v.Major() != r.Major() || !r.Contains(v) {
			continue
		}
		if found {
			cmp := version.Compare(v, bestVer)
			if cmp < 0 || (cmp == 0 && tie == TieBreakFirst) {
				continue
			}
		}
		best, bestVer, found = c, v, true
	}

	if !found {
		return distributor.Release{}, &NoSatisfyingVersionError{Requested: requested}
	}
	log.Debug().Stringer("range", r).Int("major", r.Major()).Str("version", best.Version).Msg("matched release")
	return best, nil
}
