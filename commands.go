package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jdkfetch/internal/distributor"
	"jdkfetch/internal/distributor/dragonwell"
	"jdkfetch/internal/manifest"
	"jdkfetch/internal/download"
	"jdkfetch/internal/theme"
)

func newVersionsCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "versions [version]",
		Short: "List the releases available for a version and platform",
		Long: `List every release in the manifest offered for the requested major version,
platform, architecture and package type, in manifest order. Without a version
all supported majors are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist := opts.distribution()

			requests := args
			if len(requests) == 0 {
				for _, major := range dist.Matrix().SupportedMajors() {
					requests = append(requests, strconv.Itoa(major))
				}
			}

			var releases []distributor.Release
			err := withSpinner(output, "Loading Dragonwell releases...", func() error {
				for _, v := range requests {
					req, err := opts.request(v)
					if err != nil {
						return err
					}
					found, err := dist.GetAvailableVersions(cmd.Context(), req)
					if err != nil {
						return err
					}
					releases = append(releases, found...)
				}
				return nil
			})
			if err != nil {
				return err
			}

			return printReleases(cmd.OutOrStdout(), output, opts, releases)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "resolve [version]",
		Short: "Resolve a version request to a single release",
		Long: `Resolve a version request to the newest matching release. The request may be
a major (17), a dotted prefix (11.0.17, 8.x) or a semver range (^11, ">=11.0.15 <11.0.17").
Without a version an interactive selector offers the supported majors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist := opts.distribution()

			requested, err := requestedVersion(args, dist.Matrix())
			if err != nil {
				return err
			}

			release, err := resolve(cmd.Context(), opts, dist, output, requested)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "text" {
				return encode(out, output, release)
			}

			fmt.Fprintln(out, theme.SuccessMessage(fmt.Sprintf("%s %s", dist.Name(), release.Version)))
			printRelease(out, release)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download [version]",
		Short: "Resolve a version request and download the release archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist := opts.distribution()

			requested, err := requestedVersion(args, dist.Matrix())
			if err != nil {
				return err
			}

			release, err := resolve(cmd.Context(), opts, dist, "text", requested)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = opts.cfg.DownloadDir
			}
			if dir == "" {
				dir = "."
			}
			dest := filepath.Join(dir, archiveName(release))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, theme.InfoMessage(fmt.Sprintf("Downloading %s %s...", dist.Name(), release.Version)))

			n, err := download.DownloadFile(cmd.Context(), release.URL, dest, true)
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}

			fmt.Fprintln(out, theme.SuccessMessage(fmt.Sprintf("Downloaded %d bytes", n)))
			fmt.Fprintln(out, theme.KeyValue("Saved to:", 10, theme.PathStyle.Render(dest)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "destination directory (default from config, else the working directory)")
	return cmd
}

func newMatrixCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show the major versions, platforms and architectures Dragonwell offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := dragonwell.DefaultMatrix.Entries()
			out := cmd.OutOrStdout()

			if output != "text" {
				return encode(out, output, entries)
			}

			type key struct {
				major    int
				platform string
			}
			var order []key
			archs := make(map[key][]string)
			for _, e := range entries {
				k := key{e.Major, e.Platform}
				if _, ok := archs[k]; !ok {
					order = append(order, k)
				}
				archs[k] = append(archs[k], e.Architecture)
			}

			rows := make([][]string, 0, len(order))
			for _, k := range order {
				rows = append(rows, []string{strconv.Itoa(k.major), k.platform, strings.Join(archs[k], ", ")})
			}

			fmt.Fprintln(out, theme.Title.Render("Alibaba Dragonwell support matrix"))
			fmt.Fprintln(out)
			fmt.Fprint(out, theme.Table([]string{"MAJOR", "PLATFORM", "ARCHITECTURES"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the downloaded manifest cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := manifest.NewCache(opts.cfg.CacheDir, opts.cfg.CacheTTL)
			if err != nil {
				return err
			}
			if err := cache.Clean(); err != nil {
				return fmt.Errorf("failed to clean manifest cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessMessage("Manifest cache cleaned"))
			return nil
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				theme.Subtitle.Render("jdkfetch"),
				theme.Faint.Render("version"),
				theme.CurrentStyle.Render(Version))
		},
	}
}

// resolve runs FindPackageForDownload behind a spinner
func resolve(ctx context.Context, opts *rootOptions, dist *dragonwell.Distribution, output, requested string) (distributor.Release, error) {
	req, err := opts.request(requested)
	if err != nil {
		return distributor.Release{}, err
	}

	var release distributor.Release
	err = withSpinner(output, "Resolving "+requested+"...", func() error {
		var err error
		release, err = dist.FindPackageForDownload(ctx, req, requested)
		return err
	})
	return release, err
}

// requestedVersion returns the version argument, asking for a major when
// none was given and a terminal is attached
func requestedVersion(args []string, matrix *dragonwell.Matrix) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !download.IsTerminal() {
		return "", fmt.Errorf("a version argument is required")
	}

	majors := matrix.SupportedMajors()
	options := make([]huh.Option[string], len(majors))
	for i, m := range majors {
		v := strconv.Itoa(m)
		options[i] = huh.NewOption("Dragonwell "+v, v)
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select Dragonwell Version")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}

func withSpinner(output, message string, fn func() error) error {
	if output != "text" {
		return fn()
	}
	return download.WithSpinner(message, fn)
}

func printReleases(out io.Writer, output string, opts *rootOptions, releases []distributor.Release) error {
	if output != "text" {
		if releases == nil {
			releases = []distributor.Release{}
		}
		return encode(out, output, releases)
	}

	if len(releases) == 0 {
		fmt.Fprintln(out, theme.WarningMessage(fmt.Sprintf("No Dragonwell releases offered for %s/%s (%s)",
			opts.platform, opts.arch, opts.packageType)))
		return nil
	}

	fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Dragonwell releases for %s/%s", opts.platform, opts.arch)))
	fmt.Fprintln(out)

	rows := make([][]string, len(releases))
	for i, r := range releases {
		rows[i] = []string{strconv.Itoa(r.MajorVersion), r.Version, string(r.PackageType), archiveName(r)}
	}
	fmt.Fprint(out, theme.Table([]string{"MAJOR", "VERSION", "TYPE", "FILE"}, rows))
	return nil
}

func printRelease(out io.Writer, r distributor.Release) {
	const width = 10
	fmt.Fprintln(out, theme.KeyValue("Version:", width, r.Version))
	fmt.Fprintln(out, theme.KeyValue("Platform:", width, r.Platform+"/"+r.Architecture))
	fmt.Fprintln(out, theme.KeyValue("Type:", width, string(r.PackageType)))
	if r.Edition != "" {
		fmt.Fprintln(out, theme.KeyValue("Edition:", width, r.Edition))
	}
	fmt.Fprintln(out, theme.KeyValue("File:", width, archiveName(r)))
	fmt.Fprintln(out, theme.KeyValue("URL:", width, theme.PathStyle.Render(r.URL)))
	if r.Checksum != "" {
		fmt.Fprintln(out, theme.KeyValue("SHA256:", width, theme.Faint.Render(r.Checksum)))
	}
}

// archiveName returns the unescaped file name of the release artifact
func archiveName(r distributor.Release) string {
	name := r.FileName()
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
	}
}
