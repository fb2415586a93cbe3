package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"jdkfetch/internal/config"
	"jdkfetch/internal/distributor"
	"jdkfetch/internal/distributor/dragonwell"
	"jdkfetch/internal/manifest"
	"jdkfetch/internal/platform"
	"jdkfetch/internal/updater"
)

// rootOptions holds the global flags and the state derived from them
type rootOptions struct {
	configPath  string
	logLevel    string
	platform    string
	arch        string
	packageType string
	checkLatest bool

	cfg     *config.Config
	updates <-chan string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jdkfetch",
		Short: "Resolve and download Alibaba Dragonwell JDK releases",
		Long: `jdkfetch resolves a JDK version request such as 8, 11.0.17 or ^17 into the
matching Alibaba Dragonwell release for a platform and CPU architecture,
and can download the artifact.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging(opts.logLevel)

			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			if cmd.Name() != "update" {
				opts.updates = startUpdateCheck(cfg)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// stderr keeps json/yaml output on stdout parseable
			showUpdateNotice(cmd.ErrOrStderr(), opts.updates)
		},
	}

	hostPlatform, hostArch := platform.Current()

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jdkfetch/jdkfetch.json)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.platform, "platform", hostPlatform, "target platform (linux, alpine-linux, anolis, windows, mac)")
	flags.StringVar(&opts.arch, "arch", hostArch, "target architecture (x64, x86, aarch64, riscv)")
	flags.StringVar(&opts.packageType, "package-type", string(distributor.PackageJDK), "package type (jdk or jre)")
	flags.BoolVar(&opts.checkLatest, "check-latest", false, "ignore the cached manifest and fetch a fresh copy")

	cmd.AddCommand(
		newVersionsCmd(opts),
		newResolveCmd(opts),
		newDownloadCmd(opts),
		newMatrixCmd(),
		newCacheCmd(opts),
		newUpdateCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// initLogging configures the global logger
func initLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// request builds the version request from the global flags
func (o *rootOptions) request(version string) (distributor.Request, error) {
	pt, err := distributor.ParsePackageType(o.packageType)
	if err != nil {
		return distributor.Request{}, err
	}

	return distributor.Request{
		Version:      version,
		Platform:     o.platform,
		Architecture: o.arch,
		PackageType:  pt,
		CheckLatest:  o.checkLatest,
	}, nil
}

// distribution wires the resolver to the configured manifest source
func (o *rootOptions) distribution() *dragonwell.Distribution {
	cache, err := manifest.NewCache(o.cfg.CacheDir, o.cfg.CacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("manifest cache disabled")
		cache = nil
	}

	urls := o.cfg.ManifestURLs()
	fetcher := manifest.NewHTTPFetcher(urls, o.cfg.HTTPRetries, o.cfg.HTTPTimeout)
	return dragonwell.New(manifest.NewLoader(manifest.CacheKey("dragonwell", urls), fetcher, cache, o.checkLatest))
}

// startUpdateCheck looks for a newer jdkfetch release while the command
// runs. The returned channel receives at most one version.
var startUpdateCheck = func(cfg *config.Config) <-chan string {
	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil || !upd.Due() {
		return nil
	}

	ch := make(chan string, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		release, err := upd.Latest(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("background update check failed")
			return
		}
		if release != nil {
			ch <- release.Version()
		}
	}()
	return ch
}

func showUpdateNotice(w io.Writer, ch <-chan string) {
	if ch == nil {
		return
	}
	select {
	case latest := <-ch:
		updater.Notice(w, Version, latest)
	default:
	}
}
