package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/bridge"
	"github.com/dargueta/snowhost/host"
	"github.com/dargueta/snowhost/logging"
	"github.com/dargueta/snowhost/models"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

// environment provides the host import table and the filesystem ROMs are read
// from.
type environment func(logger *slog.Logger) (host.Host, afero.Fs)

func main() {
	app := newApp(platformEnvironment, os.Stderr)

	// Configuration errors are fatal and there's nothing to clean up yet.
	err := app.Run(os.Args)
	if err != nil {
		panic(err)
	}
}

func newApp(env environment, logOutput io.Writer) *cli.App {
	return &cli.App{
		Name:  "snowhost",
		Usage: "Run a classic Macintosh emulator core against a host bridge",
		Flags: appFlags(),
		Action: func(ctx *cli.Context) error {
			return runEmulator(ctx, env, logOutput)
		},
	}
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "rom",
			Usage:    "path to the Macintosh ROM image",
			Required: true,
			EnvVars:  []string{"SNOWHOST_ROM"},
		},
		&cli.StringSliceFlag{
			Name:     "disk",
			Usage:    "SCSI disk image to attach; repeat for more disks",
			Required: true,
			EnvVars:  []string{"SNOWHOST_DISK"},
		},
		&cli.StringSliceFlag{
			Name:    "floppy",
			Usage:   "floppy image to insert; at most 3 are used",
			EnvVars: []string{"SNOWHOST_FLOPPY"},
		},
		&cli.UintFlag{
			Name:     "gestalt-id",
			Usage:    "Gestalt ID of the Macintosh model to emulate",
			Required: true,
			EnvVars:  []string{"SNOWHOST_GESTALT_ID"},
		},
		&cli.IntFlag{
			Name:     "ram-size",
			Usage:    "RAM size in bytes; must be supported by the model",
			Required: true,
			EnvVars:  []string{"SNOWHOST_RAM_SIZE"},
		},
		&cli.StringFlag{
			Name:    "monitor",
			Usage:   "monitor to attach: RGB12, HiRes14, RGB21 or PortraitBW",
			EnvVars: []string{"SNOWHOST_MONITOR"},
		},
		&cli.StringSliceFlag{
			Name:    "extra-rom",
			Usage:   "auxiliary ROM image, named one of " + strings.Join(models.ExtraROMFilenames(), ", "),
			EnvVars: []string{"SNOWHOST_EXTRA_ROM"},
		},
		&cli.BoolFlag{
			Name:    "use-mouse-deltas",
			Usage:   "send relative mouse motion instead of absolute positions",
			EnvVars: []string{"SNOWHOST_USE_MOUSE_DELTAS"},
		},
		&cli.StringFlag{
			Name:    "core",
			Usage:   "name of the emulator core to use; optional if only one is built in",
			EnvVars: []string{"SNOWHOST_CORE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "minimum log level: trace, debug, info, warn or error",
			Value:   "trace",
			EnvVars: []string{"SNOWHOST_LOG_LEVEL"},
		},
	}
}

// configFromContext converts the command line into a bridge configuration.
// It doesn't validate anything the bridge validates itself.
func configFromContext(ctx *cli.Context) (bridge.Config, error) {
	gestaltID := ctx.Uint("gestalt-id")
	if uint64(gestaltID) > math.MaxUint32 {
		return bridge.Config{}, snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("Unknown gestalt ID %d (no matching Snow model)", gestaltID))
	}

	return bridge.Config{
		ROMPath:        ctx.String("rom"),
		DiskPaths:      ctx.StringSlice("disk"),
		FloppyNames:    ctx.StringSlice("floppy"),
		GestaltID:      uint32(gestaltID),
		RAMSize:        ctx.Int("ram-size"),
		Monitor:        ctx.String("monitor"),
		ExtraROMPaths:  ctx.StringSlice("extra-rom"),
		UseMouseDeltas: ctx.Bool("use-mouse-deltas"),
	}, nil
}

func runEmulator(ctx *cli.Context, env environment, logOutput io.Writer) error {
	level, err := logging.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return err
	}
	logger := logging.New(logOutput, level)
	slog.SetDefault(logger)

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	factory, err := snowhost.LookupCore(ctx.String("core"))
	if err != nil {
		return err
	}

	h, fs := env(logger)
	session, err := bridge.New(h, fs, factory, logger).Start(cfg)
	if err != nil {
		return err
	}

	// The loop only ends when the core fails, and Run has already logged why.
	_ = session.Run()
	return nil
}
