package dragonwell

import (
	"strings"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/platform"
)

// Filter narrows manifest to the releases relevant for req. Releases are
// checked for package type, major, platform and architecture in that order,
// and must point at the archive type expected for the platform. Manifest
// order is preserved.
//
// The result is empty (never nil) when the matrix does not offer the
// requested major on req.Platform/req.Architecture.
func Filter(manifest []distributor.Release, req distributor.Request, major int, matrix *Matrix) []distributor.Release {
	matched := make([]distributor.Release, 0)
	if !matrix.IsOffered(major, req.Platform, req.Architecture) {
		return matched
	}

	suffix := "." + platform.ArchiveExtension(req.Platform)
	for _, r := range manifest {
		if r.PackageType != req.PackageType {
			continue
		}
		if r.MajorVersion != major {
			continue
		}
		if r.Platform != req.Platform {
			continue
		}
		if r.Architecture != req.Architecture {
			continue
		}
		if !strings.HasSuffix(r.FileName(), suffix) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}
