package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdkfetch/internal/distributor"
)

const nestedManifest = `{
  "17": {
    "latest": {
      "linux": {"x64": {"standard": {"download_url": "https://example.com/latest.tar.gz"}}}
    },
    "17.0.5.0.5+8": {
      "linux": {
        "x64": {"standard": {"content_type": "application/gzip", "sha256": "abc", "download_url": "https://example.com/17.0.5_x64_linux.tar.gz"}},
        "aarch64": {"standard": {"download_url": "https://example.com/17.0.5_aarch64_linux.tar.gz"}}
      }
    }
  },
  "8": {
    "8.13.14": {
      "windows": {
        "x64": {
          "extended": {"download_url": "https://example.com/8.13.14_extended_x64_windows.zip"},
          "standard": {"download_url": "https://example.com/8.13.14_standard_x64_windows.zip"}
        }
      }
    },
    "8.12.13": {
      "windows": {
        "x64": {
          "extended": {"download_url": ""},
          "standard": {"download_url": "https://example.com/8.12.13_standard_x64_windows.zip"}
        }
      }
    }
  },
  "dragonwell": {}
}`

func TestDecodeNested(t *testing.T) {
	releases, err := Decode([]byte(nestedManifest))
	require.NoError(t, err)
	require.Len(t, releases, 4)

	assert.Equal(t, distributor.Release{
		MajorVersion: 17,
		Version:      "17.0.5.0.5+8",
		Platform:     "linux",
		Architecture: "x64",
		PackageType:  distributor.PackageJDK,
		URL:          "https://example.com/17.0.5_x64_linux.tar.gz",
		Checksum:     "abc",
		Edition:      "standard",
	}, releases[0])

	// document order is kept
	assert.Equal(t, "aarch64", releases[1].Architecture)
	assert.Equal(t, "8.13.14", releases[2].Version)
	assert.Equal(t, "8.12.13", releases[3].Version)

	// first edition with a link wins
	assert.Equal(t, "extended", releases[2].Edition)
	assert.Equal(t, "standard", releases[3].Edition)

	for _, r := range releases {
		assert.NotContains(t, r.URL, "latest")
	}
}

func TestDecodeList(t *testing.T) {
	data := []byte(`[
  {"version": "11.0.17.13.8", "platform": "linux", "architecture": "x64", "packageType": "jdk", "url": "https://example.com/a.tar.gz"},
  {"version": "17.0.5.0.5+8", "platform": "linux", "architecture": "x64", "url": "https://example.com/b.tar.gz"},
  {"majorVersion": 8, "version": "8.13.14", "platform": "windows", "architecture": "x86", "packageType": "jre", "url": "https://example.com/c.zip"},
  {"version": "nightly", "platform": "linux", "architecture": "x64", "url": "https://example.com/d.tar.gz"}
]`)

	releases, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, releases, 4)

	assert.Equal(t, 11, releases[0].MajorVersion)
	assert.Equal(t, 17, releases[1].MajorVersion)
	assert.Equal(t, distributor.PackageJDK, releases[1].PackageType)
	assert.Equal(t, 8, releases[2].MajorVersion)
	assert.Equal(t, distributor.PackageJRE, releases[2].PackageType)
	assert.Equal(t, 0, releases[3].MajorVersion)
}

func TestDecodeBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`[{"version": "8.13.14", "platform": "linux", "architecture": "x64", "url": "u.tar.gz"}]`)...)
	releases, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, 8, releases[0].MajorVersion)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("  \n"))
	assert.ErrorIs(t, err, ErrEmptyManifest)

	_, err = Decode([]byte("<html></html>"))
	assert.ErrorContains(t, err, "unrecognized manifest format")

	_, err = Decode([]byte(`[{"version": 8}]`))
	assert.ErrorContains(t, err, "failed to parse manifest")

	_, err = Decode([]byte(`{"8": [1, 2]}`))
	assert.ErrorContains(t, err, "failed to parse manifest")
}
