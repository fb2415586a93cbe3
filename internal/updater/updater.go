package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog/log"

	"jdkfetch/internal/config"
)

const (
	// CheckInterval is minimum time between background update checks
	CheckInterval = 24 * time.Hour

	// UpdateTimeout is maximum time for update operations
	UpdateTimeout = 5 * time.Minute
)

// ErrNoRepository is returned when update_config.repository is not set
var ErrNoRepository = errors.New("no release repository configured (set update_config.repository or JDKFETCH_UPDATE_CONFIG_REPOSITORY)")

// releaseSource is the part of selfupdate.Updater used to look up releases
type releaseSource interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
}

// Updater checks the configured GitHub repository for newer jdkfetch
// releases and replaces the running binary
type Updater struct {
	cfg     *config.Config
	current string
	source  releaseSource
	now     func() time.Time
}

// NewUpdater creates an Updater for the running version. Assets are
// validated against the release's SHA256SUMS.txt.
func NewUpdater(cfg *config.Config, version string) (*Updater, error) {
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "SHA256SUMS.txt"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		cfg:     cfg,
		current: strings.TrimPrefix(version, "v"),
		source:  su,
		now:     time.Now,
	}, nil
}

// CurrentVersion returns the running version without a "v" prefix
func (u *Updater) CurrentVersion() string {
	return u.current
}

// Repository returns the owner/name slug releases are looked up in
func (u *Updater) Repository() string {
	return u.cfg.UpdateConfig.Repository
}

// Due reports whether a background check should run now. Development
// builds and unconfigured repositories are never checked.
func (u *Updater) Due() bool {
	settings := u.cfg.UpdateConfig
	switch {
	case !settings.Enabled, !settings.AutoCheck:
		return false
	case settings.Repository == "":
		return false
	case u.current == "" || u.current == "dev":
		return false
	}
	return u.now().Sub(settings.LastCheck) >= CheckInterval
}

// Latest returns the newest published release when it is newer than the
// running version and not skipped by the user, nil otherwise.
func (u *Updater) Latest(ctx context.Context) (*selfupdate.Release, error) {
	repo := u.Repository()
	if repo == "" {
		return nil, ErrNoRepository
	}

	release, found, err := u.source.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("failed to query releases of %s: %w", repo, err)
	}
	if !found {
		return nil, fmt.Errorf("no releases published in %s", repo)
	}

	u.cfg.UpdateConfig.LastCheck = u.now()
	if err := u.cfg.Save(); err != nil {
		log.Warn().Err(err).Str("path", u.cfg.Path()).Msg("failed to save config")
	}

	latest := release.Version()
	log.Debug().Str("repository", repo).Str("current", u.current).Str("latest", latest).Msg("update check")
	if !u.offers(latest) {
		return nil, nil
	}
	return release, nil
}

// offers reports whether latest should be proposed to the user
func (u *Updater) offers(latest string) bool {
	if latest == u.cfg.UpdateConfig.SkipVersion {
		return false
	}
	next, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	cur, err := semver.NewVersion(u.current)
	if err != nil {
		// unversioned builds can always move to a release
		return true
	}
	return next.GreaterThan(cur)
}

// Apply downloads release and swaps it in for the running executable
func (u *Updater) Apply(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	return replaceWithBackup(exe, func() error {
		return selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe)
	})
}

// Skip records version as one the user does not want to be offered
func (u *Updater) Skip(version string) error {
	u.cfg.UpdateConfig.SkipVersion = version
	return u.cfg.Save()
}

// replaceWithBackup copies path aside, runs replace and restores the copy
// when replace fails. The copy is removed once replace succeeds.
func replaceWithBackup(path string, replace func() error) error {
	backup := path + ".backup"

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	if err := os.WriteFile(backup, data, 0755); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := replace(); err != nil {
		if rollbackErr := os.Rename(backup, path); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	if err := os.Remove(backup); err != nil {
		log.Warn().Err(err).Str("path", backup).Msg("failed to remove backup")
	}
	return nil
}
