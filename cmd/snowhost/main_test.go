package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/bridge"
	"github.com/dargueta/snowhost/host"
	"github.com/dargueta/snowhost/host/filehost"
	hosttest "github.com/dargueta/snowhost/testing"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func parseConfig(t *testing.T, args ...string) (bridge.Config, error) {
	var cfg bridge.Config
	var cfgErr error

	app := &cli.App{
		Flags: appFlags(),
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = configFromContext(ctx)
			return nil
		},
	}
	err := app.Run(append([]string{"snowhost"}, args...))
	require.NoError(t, err)
	return cfg, cfgErr
}

func TestConfigFromContext(t *testing.T) {
	cfg, err := parseConfig(
		t,
		"--rom", "mac.rom",
		"--disk", "hd0.img",
		"--disk", "hd1.img",
		"--floppy", "system.img",
		"--gestalt-id", "6",
		"--ram-size", "8388608",
		"--monitor", "RGB12",
		"--extra-rom", "mac-ii-display-card-8-24.rom",
		"--use-mouse-deltas",
	)
	require.NoError(t, err)
	assert.Equal(
		t,
		bridge.Config{
			ROMPath:        "mac.rom",
			DiskPaths:      []string{"hd0.img", "hd1.img"},
			FloppyNames:    []string{"system.img"},
			GestaltID:      6,
			RAMSize:        8388608,
			Monitor:        "RGB12",
			ExtraROMPaths:  []string{"mac-ii-display-card-8-24.rom"},
			UseMouseDeltas: true,
		},
		cfg,
	)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromContext__Env(t *testing.T) {
	t.Setenv("SNOWHOST_ROM", "plus.rom")
	t.Setenv("SNOWHOST_DISK", "hd.img")
	t.Setenv("SNOWHOST_GESTALT_ID", "4")
	t.Setenv("SNOWHOST_RAM_SIZE", "4194304")

	cfg, err := parseConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "plus.rom", cfg.ROMPath)
	assert.Equal(t, []string{"hd.img"}, cfg.DiskPaths)
	assert.EqualValues(t, 4, cfg.GestaltID)
	assert.False(t, cfg.UseMouseDeltas)
}

func TestConfigFromContext__GestaltOverflow(t *testing.T) {
	_, err := parseConfig(
		t,
		"--rom", "mac.rom",
		"--disk", "hd.img",
		"--gestalt-id", "4294967300",
		"--ram-size", "4194304",
	)
	assert.ErrorIs(t, err, snowhost.ErrInvalidArgument)
}

type testRun struct {
	fs   afero.Fs
	host *filehost.Host
	logs *bytes.Buffer
	app  *cli.App
}

func newTestRun(t *testing.T) *testRun {
	run := &testRun{
		fs:   afero.NewMemMapFs(),
		logs: &bytes.Buffer{},
	}
	require.NoError(t, afero.WriteFile(run.fs, "plus.rom", hosttest.CreateRandomImage(1024, 128, t), 0o644))
	require.NoError(t, afero.WriteFile(run.fs, "hd.img", hosttest.CreateRandomImage(512, 64, t), 0o644))

	env := func(logger *slog.Logger) (host.Host, afero.Fs) {
		run.host = filehost.New(run.fs, logger)
		return run.host, run.fs
	}
	run.app = newApp(env, run.logs)
	return run
}

func TestRunEmulator__EndToEnd(t *testing.T) {
	emu := hosttest.NewFakeEmulator(4)
	emu.FailAfterTicks = 5
	emu.OnTick = func(int) {
		emu.Frames <- snowhost.DisplayBuffer{Width: 512, Height: 342, Pixels: make([]byte, 512*342)}
	}
	snowhost.RegisterCore("cmd-end-to-end", emu.Factory)

	run := newTestRun(t)
	err := run.app.Run([]string{
		"snowhost",
		"--rom", "plus.rom",
		"--disk", "hd.img",
		"--disk", "missing.img",
		"--gestalt-id", "4",
		"--ram-size", "4194304",
		"--core", "cmd-end-to-end",
		"--log-level", "info",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, emu.Ticks)
	require.Len(t, emu.Attached, 1)
	assert.Equal(t, "hd.img", emu.Attached[0].ImagePath())
	assert.EqualValues(t, 512, run.host.VideoWidth)
	assert.EqualValues(t, 342, run.host.VideoHeight)
	assert.Equal(t, 5, run.host.BlitCount)
	assert.Zero(t, run.host.OpenHandles())

	logs := run.logs.String()
	assert.Contains(t, logs, "Failed to open SCSI disk")
	assert.Contains(t, logs, "Emulator tick error")
	assert.NotContains(t, logs, "level=DEBUG")
}

func TestRunEmulator__ConfigErrors(t *testing.T) {
	cases := map[string][]string{
		"Unknown gestalt ID 12 (no matching Snow model)": {
			"--gestalt-id", "12", "--ram-size", "4194304",
		},
		"Unsupported RAM size 1 for Macintosh Plus (default 4194304)": {
			"--gestalt-id", "4", "--ram-size", "1",
		},
		"Unknown monitor ID 'CGA'": {
			"--gestalt-id", "4", "--ram-size", "4194304", "--monitor", "CGA",
		},
		"Unknown extra ROM 'rom.bin'": {
			"--gestalt-id", "4", "--ram-size", "4194304", "--extra-rom", "rom.bin",
		},
		"Unknown log level 'loud'": {
			"--gestalt-id", "4", "--ram-size", "4194304", "--log-level", "loud",
		},
	}

	for message, extraArgs := range cases {
		run := newTestRun(t)
		args := append([]string{"snowhost", "--rom", "plus.rom", "--disk", "hd.img"}, extraArgs...)
		err := run.app.Run(args)
		assert.EqualError(t, err, message)
		assert.Nil(t, run.host, "host was created despite a configuration error")
	}
}

func TestRunEmulator__MissingRequiredFlag(t *testing.T) {
	run := newTestRun(t)
	run.app.Writer = &bytes.Buffer{}
	run.app.ErrWriter = &bytes.Buffer{}

	err := run.app.Run([]string{"snowhost", "--disk", "hd.img", "--gestalt-id", "4"})
	assert.ErrorContains(t, err, "rom")
	assert.ErrorContains(t, err, "ram-size")
}

func TestRunEmulator__UnknownCore(t *testing.T) {
	run := newTestRun(t)
	err := run.app.Run([]string{
		"snowhost",
		"--rom", "plus.rom",
		"--disk", "hd.img",
		"--gestalt-id", "4",
		"--ram-size", "4194304",
		"--core", "no-such-core",
	})
	assert.ErrorIs(t, err, snowhost.ErrNoCore)
}

func TestRunEmulator__MissingROM(t *testing.T) {
	snowhost.RegisterCore("cmd-missing-rom", hosttest.NewFakeEmulator(1).Factory)

	run := newTestRun(t)
	err := run.app.Run([]string{
		"snowhost",
		"--rom", "absent.rom",
		"--disk", "hd.img",
		"--gestalt-id", "4",
		"--ram-size", "4194304",
		"--core", "cmd-missing-rom",
	})
	assert.ErrorIs(t, err, snowhost.ErrIOFailed)
	assert.ErrorContains(t, err, "Failed to read ROM")
}
