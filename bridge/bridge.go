// Package bridge wires an emulator core to the host: it builds the emulator from
// a Config, attaches disks and floppies, and then drives the core one tick at a
// time, sampling input before each tick and shipping frames after it.
package bridge

import (
	"fmt"
	"log/slog"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/audio"
	"github.com/dargueta/snowhost/disk"
	"github.com/dargueta/snowhost/floppy"
	"github.com/dargueta/snowhost/framebuffer"
	"github.com/dargueta/snowhost/host"
	"github.com/dargueta/snowhost/input"
	"github.com/dargueta/snowhost/romfile"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// MaxFloppyDrives is the number of floppies that can be inserted at startup.
const MaxFloppyDrives = 3

// Bridge builds emulator sessions on top of a host.
type Bridge struct {
	host    host.Host
	fs      afero.Fs
	factory snowhost.CoreFactory
	logger  *slog.Logger
}

// New creates a bridge. ROMs are read from `fs`; disks and floppies go through
// the host's disk imports.
func New(
	h host.Host, fs afero.Fs, factory snowhost.CoreFactory, logger *slog.Logger,
) *Bridge {
	return &Bridge{
		host:    h,
		fs:      fs,
		factory: factory,
		logger:  logger,
	}
}

// Start validates `cfg`, builds the emulator, attaches storage, and tells the
// core to run. Configuration and ROM errors are returned; disks and floppies
// that fail to attach are logged and skipped, and can be inspected afterwards
// with [Session.AttachErrors].
func (b *Bridge) Start(cfg Config) (*Session, error) {
	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	emulatorConfig, err := b.readROMs(&cfg, resolved)
	if err != nil {
		return nil, err
	}

	b.logger.Info(
		"Starting emulator",
		"model", resolved.model,
		"ram_size", cfg.RAMSize,
		"mouse_mode", emulatorConfig.MouseMode,
		"extra_roms", len(emulatorConfig.ExtraROMs),
	)

	emulator, frames, err := b.factory(emulatorConfig)
	if err != nil {
		return nil, snowhost.ErrNoCore.WithMessage("Failed to create emulator").Wrap(err)
	}
	emulator.SetAudioSink(audio.NewHostSink(b.host))

	session := &Session{
		emulator: emulator,
		logger:   b.logger,
	}

	b.attachDisks(session, cfg.DiskPaths)

	sender := emulator.CreateCmdSender()
	b.insertFloppies(session, sender, cfg.FloppyNames)

	if err = sender.Send(snowhost.RunCommand{}); err != nil {
		session.closeDisks()
		return nil, snowhost.ErrCoreShutDown.Wrap(err)
	}

	session.input = input.NewSampler(b.host, sender, emulatorConfig.MouseMode)
	session.frames = framebuffer.NewShipper(frames, b.host)
	return session, nil
}

func (b *Bridge) readROMs(
	cfg *Config, resolved resolvedConfig,
) (snowhost.EmulatorConfig, error) {
	emulatorConfig := snowhost.EmulatorConfig{
		Model:     resolved.model,
		Monitor:   resolved.monitor,
		MouseMode: cfg.MouseMode(),
		RAMSize:   cfg.RAMSize,
		SafeMode:  false,
	}

	rom, err := romfile.Load(b.fs, cfg.ROMPath)
	if err != nil {
		return emulatorConfig, snowhost.ErrIOFailed.WithMessage("Failed to read ROM").Wrap(err)
	}
	emulatorConfig.ROM = rom

	for i, path := range cfg.ExtraROMPaths {
		data, err := romfile.Load(b.fs, path)
		if err != nil {
			return emulatorConfig, snowhost.ErrIOFailed.WithMessage(
				fmt.Sprintf("Failed to read extra ROM '%s'", path)).Wrap(err)
		}
		emulatorConfig.ExtraROMs = append(
			emulatorConfig.ExtraROMs,
			snowhost.ExtraROM{Kind: resolved.extraROMKinds[i], Data: data},
		)
	}
	return emulatorConfig, nil
}

// attachDisks attaches disks at consecutive SCSI IDs starting from 0. A disk
// that fails to open or attach doesn't use up an ID.
func (b *Bridge) attachDisks(session *Session, paths []string) {
	scsiID := 0
	for _, path := range paths {
		image, err := disk.Open(b.host, path)
		if err != nil {
			b.logger.Error("Failed to open SCSI disk", "disk", path, "error", err)
			session.attachErrors = multierror.Append(session.attachErrors, err)
			continue
		}

		err = session.emulator.AttachDiskImageAt(image, scsiID)
		if err != nil {
			b.logger.Error("Failed to attach SCSI disk", "disk", path, "error", err)
			session.attachErrors = multierror.Append(
				session.attachErrors,
				fmt.Errorf("Failed to attach SCSI disk '%s': %w", path, err),
			)
			image.Close()
			continue
		}

		b.logger.Debug("Attached SCSI disk", "disk", path, "scsi_id", scsiID)
		session.disks = append(session.disks, image)
		scsiID++
	}
}

// insertFloppies inserts floppies into consecutive drives. A floppy that fails
// to load or insert doesn't use up a drive.
func (b *Bridge) insertFloppies(
	session *Session, sender snowhost.CommandSender, names []string,
) {
	drive := 0
	for _, name := range names {
		if drive >= MaxFloppyDrives {
			b.logger.Warn(
				"Skipping floppy: no free drive",
				"floppy", name,
				"max_drives", MaxFloppyDrives,
			)
			continue
		}

		image, err := floppy.Load(b.host, name)
		if err != nil {
			b.logger.Error("Failed to open floppy", "floppy", name, "error", err)
			session.attachErrors = multierror.Append(session.attachErrors, err)
			continue
		}

		cmd := snowhost.InsertFloppyImage{Drive: drive, Image: image, WriteProtect: false}
		if err = sender.Send(cmd); err != nil {
			b.logger.Error("Failed to insert floppy", "floppy", name, "error", err)
			session.attachErrors = multierror.Append(
				session.attachErrors,
				fmt.Errorf("Failed to insert floppy '%s': %w", name, err),
			)
			continue
		}

		b.logger.Debug("Inserted floppy", "floppy", name, "drive", drive, "image", image)
		drive++
	}
	session.floppyCount = drive
}
