package dragonwell

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/manifest"
	"jdkfetch/internal/version"
)

// countingSource records how often the manifest was requested
type countingSource struct {
	releases []distributor.Release
	calls    int
}

func (s *countingSource) Releases(context.Context) ([]distributor.Release, error) {
	s.calls++
	return s.releases, nil
}

func loadFixture(t *testing.T) []distributor.Release {
	t.Helper()
	data, err := os.ReadFile("testdata/dragonwell.json")
	require.NoError(t, err)
	releases, err := manifest.Decode(data)
	require.NoError(t, err)
	return releases
}

func newDistribution(t *testing.T) (*Distribution, *countingSource) {
	t.Helper()
	src := &countingSource{releases: loadFixture(t)}
	return New(src), src
}

func jdkRequest(version, arch, platform string) distributor.Request {
	return distributor.Request{
		Version:      version,
		Architecture: arch,
		Platform:     platform,
		PackageType:  distributor.PackageJDK,
	}
}

func TestGetAvailableVersions(t *testing.T) {
	tests := []struct {
		version  string
		arch     string
		platform string
		want     int
	}{
		{"8", "x86", "linux", 36},
		{"8", "aarch64", "linux", 33},
		{"8.6.6", "x64", "linux", 36},
		{"8", "x86", "anolis", 0},
		{"8", "x86", "windows", 35},
		{"8", "x86", "mac", 0},
		{"11", "x64", "linux", 36},
		{"11", "aarch64", "linux", 33},
		{"17", "riscv", "linux", 0},
	}

	for _, tc := range tests {
		t.Run(tc.version+"_"+tc.arch+"_"+tc.platform, func(t *testing.T) {
			d, _ := newDistribution(t)
			req := jdkRequest(tc.version, tc.arch, tc.platform)

			releases, err := d.GetAvailableVersions(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, releases)
			assert.Len(t, releases, tc.want)

			major, err := version.RequestedMajor(tc.version)
			require.NoError(t, err)
			for _, r := range releases {
				assert.Equal(t, tc.platform, r.Platform)
				assert.Equal(t, tc.arch, r.Architecture)
				assert.Equal(t, distributor.PackageJDK, r.PackageType)
				assert.Equal(t, major, r.MajorVersion)
			}
		})
	}
}

func TestGetAvailableVersionsPackageType(t *testing.T) {
	d, _ := newDistribution(t)

	req := jdkRequest("17", "x64", "linux")
	req.PackageType = distributor.PackageJRE
	releases, err := d.GetAvailableVersions(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Contains(t, releases[0].URL, "_JRE_")

	// the zip published for linux/x64 does not match the platform archive type
	releases, err = d.GetAvailableVersions(context.Background(), jdkRequest("17", "x64", "linux"))
	require.NoError(t, err)
	assert.Len(t, releases, 3)
}

func TestUnsupportedMajorVersion(t *testing.T) {
	for _, v := range []string{"16", "16.0.1", "19", "latest"} {
		t.Run(v, func(t *testing.T) {
			d, src := newDistribution(t)
			req := jdkRequest(v, "x86", "linux")

			_, err := d.GetAvailableVersions(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedMajorVersion)
			assert.Contains(t, err.Error(), "Support dragonwell versions: 8, 11, 17")

			_, err = d.FindPackageForDownload(context.Background(), req, v)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedMajorVersion)

			var unsupported *UnsupportedMajorVersionError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, v, unsupported.Requested)
			assert.Equal(t, []int{8, 11, 17}, unsupported.Supported)

			assert.Zero(t, src.calls, "manifest must not be read for unsupported majors")
		})
	}
}

func TestFindPackageForDownload(t *testing.T) {
	tests := []struct {
		version  string
		platform string
		arch     string
		want     string
	}{
		{"8", "linux", "x64", "https://github.com/alibaba/dragonwell8/releases/download/dragonwell-extended-8.13.14_jdk8u352-ga/Alibaba_Dragonwell_Extended_8.13.14_x64_linux.tar.gz"},
		{"8", "linux", "aarch64", "https://github.com/alibaba/dragonwell8/releases/download/dragonwell-extended-8.13.14_jdk8u352-ga/Alibaba_Dragonwell_Extended_8.13.14_aarch64_linux.tar.gz"},
		{"8", "windows", "x64", "https://github.com/alibaba/dragonwell8/releases/download/dragonwell-extended-8.13.14_jdk8u352-ga/Alibaba_Dragonwell_Extended_8.13.14_x64_windows.zip"},
		{"8.13.14", "linux", "x64", "https://github.com/alibaba/dragonwell8/releases/download/dragonwell-extended-8.13.14_jdk8u352-ga/Alibaba_Dragonwell_Extended_8.13.14_x64_linux.tar.gz"},
		{"8.6.6", "linux", "x64", "https://github.com/alibaba/dragonwell8/releases/download/dragonwell-extended-8.6.6_jdk8u308-ga/Alibaba_Dragonwell_Extended_8.6.6_x64_linux.tar.gz"},
		{"11", "linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_x64_linux.tar.gz"},
		{"11", "linux", "aarch64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_aarch64_linux.tar.gz"},
		{"11", "windows", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_x64_windows.zip"},
		{"11", "alpine-linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_x64_alpine-linux.tar.gz"},
		{"11.0.17", "linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_x64_linux.tar.gz"},
		{"11.0.16", "linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.16.12_jdk-11.0.16-ga/Alibaba_Dragonwell_Extended_11.0.16.12.8_x64_linux.tar.gz"},
		{"17", "linux", "x64", "https://github.com/alibaba/dragonwell17/releases/download/dragonwell-standard-17.0.5.0.5%2B8_jdk-17.0.5-ga/Alibaba_Dragonwell_Standard_17.0.5.0.5.8_x64_linux.tar.gz"},
		{"17", "linux", "aarch64", "https://github.com/alibaba/dragonwell17/releases/download/dragonwell-standard-17.0.5.0.5%2B8_jdk-17.0.5-ga/Alibaba_Dragonwell_Standard_17.0.5.0.5.8_aarch64_linux.tar.gz"},
		{"17", "windows", "x64", "https://github.com/alibaba/dragonwell17/releases/download/dragonwell-standard-17.0.5.0.5%2B8_jdk-17.0.5-ga/Alibaba_Dragonwell_Standard_17.0.5.0.5.8_x64_windows.zip"},
		{"17", "alpine-linux", "x64", "https://github.com/alibaba/dragonwell17/releases/download/dragonwell-standard-17.0.5.0.5%2B8_jdk-17.0.5-ga/Alibaba_Dragonwell_Standard_17.0.5.0.5.8_x64_alpine-linux.tar.gz"},
		{"17.0.4", "linux", "x64", "https://github.com/alibaba/dragonwell17/releases/download/dragonwell-standard-17.0.4.0.4%2B8_jdk-17.0.4-ga/Alibaba_Dragonwell_Standard_17.0.4.0.4%2B8_x64_linux.tar.gz"},
		{"^11", "linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.17.13_jdk-11.0.17-ga/Alibaba_Dragonwell_Extended_11.0.17.13.8_x64_linux.tar.gz"},
		{">=11.0.15 <11.0.17", "linux", "x64", "https://github.com/alibaba/dragonwell11/releases/download/dragonwell-extended-11.0.16.12_jdk-11.0.16-ga/Alibaba_Dragonwell_Extended_11.0.16.12.8_x64_linux.tar.gz"},
	}

	for _, tc := range tests {
		t.Run(tc.version+"_"+tc.platform+"_"+tc.arch, func(t *testing.T) {
			d, _ := newDistribution(t)
			req := jdkRequest(tc.version, tc.arch, tc.platform)

			release, err := d.FindPackageForDownload(context.Background(), req, tc.version)
			require.NoError(t, err)
			assert.Equal(t, tc.want, release.URL)
		})
	}
}

// fixtureFetcher serves testdata/dragonwell.json and counts fetches
type fixtureFetcher struct {
	data  []byte
	mu    sync.Mutex
	calls int
}

func (f *fixtureFetcher) Fetch(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, nil
}

func TestFindPackageForDownloadConcurrent(t *testing.T) {
	data, err := os.ReadFile("testdata/dragonwell.json")
	require.NoError(t, err)

	f := &fixtureFetcher{data: data}
	d := New(manifest.NewLoader("dragonwell", f, nil, false))
	req := jdkRequest("11", "x64", "linux")

	const workers = 32
	results := make([]distributor.Release, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.FindPackageForDownload(context.Background(), req, "11")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, f.calls)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, "11.0.17.13.8", results[0].Version)
}

func TestFullyQualifiedLatestMatchesBareMajor(t *testing.T) {
	d, _ := newDistribution(t)

	bare, err := d.FindPackageForDownload(context.Background(), jdkRequest("8", "x64", "linux"), "8")
	require.NoError(t, err)
	exact, err := d.FindPackageForDownload(context.Background(), jdkRequest("8.13.14", "x64", "linux"), "8.13.14")
	require.NoError(t, err)

	assert.Equal(t, "8.13.14", bare.Version)
	assert.Equal(t, bare, exact)
}

func TestFindPackageForDownloadUnsupported(t *testing.T) {
	tests := []struct {
		version  string
		platform string
		arch     string
	}{
		{"8", "alpine-linux", "x64"},
		{"8", "macos", "aarch64"},
		{"11", "macos", "aarch64"},
		{"17", "linux", "riscv"},
		{"8.99", "linux", "x64"},
	}

	for _, tc := range tests {
		t.Run(tc.version+"_"+tc.platform+"_"+tc.arch, func(t *testing.T) {
			d, _ := newDistribution(t)
			req := jdkRequest(tc.version, tc.arch, tc.platform)

			_, err := d.FindPackageForDownload(context.Background(), req, tc.version)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoSatisfyingVersion)
			assert.EqualError(t, err, "Cannot find satisfied version for "+tc.version+".")
		})
	}
}

func TestAvailableVersionsSatisfyBareMajor(t *testing.T) {
	d, _ := newDistribution(t)

	for _, major := range d.Matrix().SupportedMajors() {
		for _, e := range d.Matrix().Entries() {
			if e.Major != major {
				continue
			}
			req := jdkRequest(strconv.Itoa(major), e.Architecture, e.Platform)
			releases, err := d.GetAvailableVersions(context.Background(), req)
			require.NoError(t, err)

			r, err := version.ParseRange(req.Version)
			require.NoError(t, err)
			for _, rel := range releases {
				v, err := version.Parse(rel.Version)
				require.NoError(t, err, rel.URL)
				assert.True(t, r.Contains(v), rel.URL)

				// each candidate on its own still resolves to itself
				got, err := Match([]distributor.Release{rel}, req.Version, TieBreakFirst)
				require.NoError(t, err)
				assert.Equal(t, rel, got)
			}
		}
	}
}

func TestManifestErrorIsWrapped(t *testing.T) {
	d := New(failingSource{})
	_, err := d.GetAvailableVersions(context.Background(), jdkRequest("17", "x64", "linux"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dragonwell manifest")
	assert.ErrorIs(t, err, errOffline)
}

func TestName(t *testing.T) {
	var d distributor.Distributor = New(distributor.StaticSource(nil))
	assert.Equal(t, "Alibaba Dragonwell", d.Name())
}

var errOffline = errors.New("offline")

type failingSource struct{}

func (failingSource) Releases(context.Context) ([]distributor.Release, error) {
	return nil, errOffline
}
