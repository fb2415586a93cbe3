package main

import (
	"errors"
	"fmt"
	"os"

	"jdkfetch/internal/distributor/dragonwell"
	"jdkfetch/internal/theme"
)

// Version is set during build time via ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorMessage(err.Error()))
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, theme.Faint.Render(hint))
		}
		os.Exit(1)
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, dragonwell.ErrNoSatisfyingVersion):
		return "Run 'jdkfetch versions <major>' to list the releases offered for this platform."
	case errors.Is(err, dragonwell.ErrUnsupportedMajorVersion):
		return "Run 'jdkfetch matrix' to see the supported platforms per major version."
	}
	return ""
}
