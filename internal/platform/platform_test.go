package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveExtension(t *testing.T) {
	assert.Equal(t, "zip", ArchiveExtension(Windows))
	for _, p := range []string{Linux, AlpineLinux, Anolis, Mac, "solaris"} {
		assert.Equal(t, "tar.gz", ArchiveExtension(p), p)
	}
}

func TestArchitecture(t *testing.T) {
	tests := map[string]string{
		"amd64":   "x64",
		"386":     "x86",
		"arm64":   "aarch64",
		"riscv64": "riscv",
		"ppc64le": "ppc64le",
	}
	for goarch, want := range tests {
		assert.Equal(t, want, Architecture(goarch), goarch)
	}
}

func TestName(t *testing.T) {
	dir := t.TempDir()
	setReleaseFiles(t, filepath.Join(dir, "alpine-release"), filepath.Join(dir, "anolis-release"))

	assert.Equal(t, Mac, Name("darwin"))
	assert.Equal(t, Windows, Name("windows"))
	assert.Equal(t, Linux, Name("linux"))
	assert.Equal(t, "freebsd", Name("freebsd"))

	require.NoError(t, os.WriteFile(anolisReleaseFile, []byte("Anolis OS release 8.6\n"), 0644))
	assert.Equal(t, Anolis, Name("linux"))

	require.NoError(t, os.WriteFile(alpineReleaseFile, []byte("3.18.4\n"), 0644))
	assert.Equal(t, AlpineLinux, Name("linux"))
}

func setReleaseFiles(t *testing.T, alpine, anolis string) {
	t.Helper()
	origAlpine, origAnolis := alpineReleaseFile, anolisReleaseFile
	alpineReleaseFile, anolisReleaseFile = alpine, anolis
	t.Cleanup(func() {
		alpineReleaseFile, anolisReleaseFile = origAlpine, origAnolis
	})
}
