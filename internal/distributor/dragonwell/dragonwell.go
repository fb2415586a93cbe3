// Package dragonwell resolves Alibaba Dragonwell version requests against the
// distribution's release manifest.
package dragonwell

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/version"
)

// Distribution implements distributor.Distributor for Alibaba Dragonwell
type Distribution struct {
	source distributor.Source
	matrix *Matrix
	tie    TieBreak
}

// Option customizes a Distribution
type Option func(*Distribution)

// WithMatrix replaces the embedded support table
func WithMatrix(m *Matrix) Option {
	return func(d *Distribution) { d.matrix = m }
}

// WithTieBreak changes how equal versions are ordered (default TieBreakFirst)
func WithTieBreak(t TieBreak) Option {
	return func(d *Distribution) { d.tie = t }
}

// New creates a Dragonwell distribution reading releases from source
func New(source distributor.Source, opts ...Option) *Distribution {
	d := &Distribution{
		source: source,
		matrix: DefaultMatrix,
		tie:    TieBreakFirst,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the distributor name
func (d *Distribution) Name() string {
	return "Alibaba Dragonwell"
}

// Matrix returns the support table in use
func (d *Distribution) Matrix() *Matrix {
	return d.matrix
}

// GetAvailableVersions returns every manifest release matching req, in
// manifest order. An empty result means nothing is offered for the
// platform/architecture; it is not an error.
func (d *Distribution) GetAvailableVersions(ctx context.Context, req distributor.Request) ([]distributor.Release, error) {
	major, err := d.checkMajor(req.Version)
	if err != nil {
		return nil, err
	}

	manifest, err := d.source.Releases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dragonwell manifest: %w", err)
	}

	releases := Filter(manifest, req, major, d.matrix)
	log.Debug().
		Int("major", major).
		Str("platform", req.Platform).
		Str("arch", req.Architecture).
		Int("count", len(releases)).
		Msg("filtered dragonwell manifest")
	return releases, nil
}

// FindPackageForDownload picks the newest release satisfying requested.
func (d *Distribution) FindPackageForDownload(ctx context.Context, req distributor.Request, requested string) (distributor.Release, error) {
	req.Version = requested
	candidates, err := d.GetAvailableVersions(ctx, req)
	if err != nil {
		return distributor.Release{}, err
	}

	release, err := Match(candidates, requested, d.tie)
	if err != nil {
		return distributor.Release{}, err
	}

	log.Debug().Str("requested", requested).Str("version", release.Version).Str("url", release.URL).Msg("resolved dragonwell release")
	return release, nil
}

func (d *Distribution) checkMajor(requested string) (int, error) {
	major, err := version.RequestedMajor(requested)
	if err != nil || !d.matrix.IsMajorSupported(major) {
		return 0, &UnsupportedMajorVersionError{Requested: requested, Supported: d.matrix.SupportedMajors()}
	}
	return major, nil
}
