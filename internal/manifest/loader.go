package manifest

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"jdkfetch/internal/distributor"
)

var _ distributor.Source = (*Loader)(nil)

// Loader implements distributor.Source. The manifest is read at most once per
// Loader, from the cache when it is fresh and from the network otherwise.
type Loader struct {
	name    string
	fetcher Fetcher
	cache   *Cache
	refresh bool

	once     sync.Once
	releases []distributor.Release
	err      error
}

// NewLoader creates a loader for the manifest called name. cache may be nil.
// With refresh set the cached copy is ignored and overwritten.
func NewLoader(name string, fetcher Fetcher, cache *Cache, refresh bool) *Loader {
	return &Loader{
		name:    name,
		fetcher: fetcher,
		cache:   cache,
		refresh: refresh,
	}
}

// Releases returns the decoded manifest
func (l *Loader) Releases(ctx context.Context) ([]distributor.Release, error) {
	l.once.Do(func() {
		l.releases, l.err = l.load(ctx)
	})
	return l.releases, l.err
}

func (l *Loader) load(ctx context.Context) ([]distributor.Release, error) {
	if l.cache != nil && !l.refresh {
		data, err := l.cache.Get(l.name)
		if err == nil {
			releases, err := Decode(data)
			if err == nil {
				log.Debug().Str("manifest", l.name).Int("releases", len(releases)).Msg("using cached manifest")
				return releases, nil
			}
			log.Debug().Err(err).Str("manifest", l.name).Msg("discarding unreadable cached manifest")
		} else {
			log.Debug().Err(err).Str("manifest", l.name).Msg("manifest cache miss")
		}
	}

	data, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	releases, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(l.name, data); err != nil {
			log.Debug().Err(err).Msg("failed to cache manifest")
		}
	}
	return releases, nil
}
