// Package cli provides the command-line interface for tintd.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/tintd/internal/applier"
	"github.com/jmylchreest/tintd/internal/cache"
	"github.com/jmylchreest/tintd/internal/colour"
	"github.com/jmylchreest/tintd/internal/config"
	"github.com/jmylchreest/tintd/internal/image"
	"github.com/jmylchreest/tintd/internal/notify"
	"github.com/jmylchreest/tintd/internal/reactor"
	"github.com/jmylchreest/tintd/internal/version"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the theme daemon",
	Long: `Run the daemon: watch wallpaper and dark/light changes, synthesize palettes,
and apply them to the shell's appearance settings.

Palettes are cached per (wallpaper, mode) under the state directory as
hand-editable JSON; delete an entry to force a recompute, or edit it in
place to pin your own colours.`,
	RunE: runDaemon,
}

// runDaemon wires the daemon together and blocks until shutdown.
func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:       "tintd",
		Level:      hclog.LevelFromString(cfg.Logging.Level),
		JSONFormat: cfg.Logging.Format == "json",
	})
	log.Info("starting tintd", "version", version.Short(), "state_dir", cfg.StateDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cache.Open(cfg.StateDir, log.Named("cache"))
	if err != nil {
		return err
	}
	defer store.Close()

	extractor := colour.NewKMeansExtractorWith(
		cfg.Extraction.Clusters,
		cfg.Extraction.MaxIterations,
		cfg.Extraction.MaxSamples,
	)
	sampler := image.NewSampler(image.NewFileLoader(), extractor)
	app := applier.NewFileApplier(cfg.ApplyDir, log.Named("applier"))
	r := reactor.New(store, sampler, app, cfg.Debounce, log.Named("reactor"))

	events := make(chan notify.Event, 16)
	g, gctx := errgroup.WithContext(ctx)

	// Dark/light preference from the desktop portal. The daemon still runs
	// without it, defaulting to dark, so a missing portal only costs mode
	// switching.
	if portal, err := notify.ConnectPortal(log.Named("portal")); err != nil {
		log.Error("running without mode notifications", "error", err)
	} else {
		defer portal.Close()
		g.Go(func() error {
			// The session bus going away is the shell shutting down; wind
			// the daemon down with it.
			defer stop()
			return portal.Run(gctx, events)
		})
	}

	watcher := notify.NewWallpaperWatcher(cfg.WallpaperState, log.Named("wallpaper"))
	g.Go(func() error {
		return watcher.Run(gctx, events)
	})

	g.Go(func() error {
		return r.Run(gctx, events)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("tintd stopped")
	return nil
}
