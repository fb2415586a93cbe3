package distributor

import (
	"context"
	"fmt"
	"strings"
)

// PackageType is the kind of Java package a release ships.
type PackageType string

const (
	PackageJDK PackageType = "jdk"
	PackageJRE PackageType = "jre"
)

// ParsePackageType validates a package type given on the command line or in config
func ParsePackageType(s string) (PackageType, error) {
	switch pt := PackageType(strings.ToLower(strings.TrimSpace(s))); pt {
	case PackageJDK, PackageJRE:
		return pt, nil
	case "":
		return PackageJDK, nil
	default:
		return "", fmt.Errorf("unknown package type %q (expected jdk or jre)", s)
	}
}

// Distributor represents a Java distribution provider
type Distributor interface {
	Name() string
	GetAvailableVersions(ctx context.Context, req Request) ([]Release, error)
	FindPackageForDownload(ctx context.Context, req Request, version string) (Release, error)
}

// Source supplies the release manifest of a distribution
type Source interface {
	Releases(ctx context.Context) ([]Release, error)
}

// StaticSource serves an already materialized manifest
type StaticSource []Release

// Releases returns the manifest as-is
func (s StaticSource) Releases(context.Context) ([]Release, error) {
	return s, nil
}

// Release is one downloadable artifact from a distribution manifest
type Release struct {
	MajorVersion int         `json:"majorVersion" yaml:"majorVersion"`
	Version      string      `json:"version" yaml:"version"`
	Platform     string      `json:"platform" yaml:"platform"`
	Architecture string      `json:"architecture" yaml:"architecture"`
	PackageType  PackageType `json:"packageType" yaml:"packageType"`
	URL          string      `json:"url" yaml:"url"`
	Checksum     string      `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Edition      string      `json:"edition,omitempty" yaml:"edition,omitempty"`
}

// FileName returns the last path element of the download URL
func (r Release) FileName() string {
	name := r.URL
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Request describes what the caller wants resolved
type Request struct {
	Version      string
	Architecture string
	Platform     string
	PackageType  PackageType
	CheckLatest  bool // forces a fresh manifest fetch; ignored by matching
}
