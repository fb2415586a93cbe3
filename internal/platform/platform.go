// Package platform maps the host to the platform and architecture names used
// by Java distribution manifests.
package platform

import (
	"os"
	"runtime"
)

const (
	Linux       = "linux"
	AlpineLinux = "alpine-linux"
	Anolis      = "anolis"
	Windows     = "windows"
	Mac         = "mac"
)

// release files checked to tell linux flavours apart
var (
	alpineReleaseFile = "/etc/alpine-release"
	anolisReleaseFile = "/etc/anolis-release"
)

// ArchiveExtension returns the archive extension releases use on platform.
func ArchiveExtension(platform string) string {
	if platform == Windows {
		return "zip"
	}
	return "tar.gz"
}

// Current returns the manifest platform and architecture names of the host.
func Current() (string, string) {
	return Name(runtime.GOOS), Architecture(runtime.GOARCH)
}

// Name maps a GOOS value to a manifest platform.
func Name(goos string) string {
	switch goos {
	case "darwin":
		return Mac
	case "windows":
		return Windows
	case "linux":
		if exists(alpineReleaseFile) {
			return AlpineLinux
		}
		if exists(anolisReleaseFile) {
			return Anolis
		}
		return Linux
	default:
		return goos
	}
}

// Architecture maps a GOARCH value to a manifest architecture.
func Architecture(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	case "arm64":
		return "aarch64"
	case "riscv64":
		return "riscv"
	default:
		return goarch
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
