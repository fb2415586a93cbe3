// Package manifest fetches, caches and decodes Java distribution release manifests.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/version"
)

// ErrEmptyManifest is returned when the manifest body has no content.
var ErrEmptyManifest = errors.New("empty manifest")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// nestedFile is a leaf of the nested releases.json layout
type nestedFile struct {
	ContentType string `json:"content_type"`
	SHA256      string `json:"sha256"`
	DownloadURL string `json:"download_url"`
}

// major -> version -> platform -> arch -> edition -> file, in file order
type (
	editionMap  = orderedmap.OrderedMap[string, nestedFile]
	archMap     = orderedmap.OrderedMap[string, *editionMap]
	platformMap = orderedmap.OrderedMap[string, *archMap]
	versionMap  = orderedmap.OrderedMap[string, *platformMap]
	majorMap    = orderedmap.OrderedMap[string, *versionMap]
)

// Decode parses a manifest body. Two layouts are accepted: a flat JSON array
// of releases, and the nested map published by Dragonwell. Release order in
// the result follows the order of the document.
func Decode(data []byte) ([]distributor.Release, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, ErrEmptyManifest
	}

	switch data[0] {
	case '[':
		return decodeList(data)
	case '{':
		return decodeNested(data)
	default:
		return nil, fmt.Errorf("unrecognized manifest format (starts with %q)", data[0])
	}
}

func decodeList(data []byte) ([]distributor.Release, error) {
	var releases []distributor.Release
	if err := json.Unmarshal(data, &releases); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	for i := range releases {
		r := &releases[i]
		if r.PackageType == "" {
			r.PackageType = distributor.PackageJDK
		}
		if r.MajorVersion == 0 {
			v, err := version.Parse(r.Version)
			if err != nil {
				log.Debug().Err(err).Str("url", r.URL).Msg("manifest entry without a usable major version")
				continue
			}
			r.MajorVersion = v.Major()
		}
	}
	return releases, nil
}

func decodeNested(data []byte) ([]distributor.Release, error) {
	majors := orderedmap.New[string, *versionMap]()
	if err := json.Unmarshal(data, majors); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	releases := make([]distributor.Release, 0)
	for m := majors.Oldest(); m != nil; m = m.Next() {
		if m.Value == nil {
			continue
		}
		major, err := strconv.Atoi(m.Key)
		if err != nil {
			log.Debug().Str("key", m.Key).Msg("skipping non-numeric major in manifest")
			continue
		}

		for v := m.Value.Oldest(); v != nil; v = v.Next() {
			// "latest" aliases another entry of the same major
			if v.Key == "latest" || v.Value == nil {
				continue
			}
			for p := v.Value.Oldest(); p != nil; p = p.Next() {
				if p.Value == nil {
					continue
				}
				for a := p.Value.Oldest(); a != nil; a = a.Next() {
					if a.Value == nil {
						continue
					}
					// first published edition wins: extended when there is one
					for e := a.Value.Oldest(); e != nil; e = e.Next() {
						if e.Value.DownloadURL == "" {
							continue
						}
						releases = append(releases, distributor.Release{
							MajorVersion: major,
							Version:      v.Key,
							Platform:     p.Key,
							Architecture: a.Key,
							PackageType:  distributor.PackageJDK,
							URL:          e.Value.DownloadURL,
							Checksum:     e.Value.SHA256,
							Edition:      e.Key,
						})
						break
					}
				}
			}
		}
	}
	return releases, nil
}
