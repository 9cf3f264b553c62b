package bridge

import (
	"log/slog"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/disk"
	"github.com/dargueta/snowhost/framebuffer"
	"github.com/dargueta/snowhost/input"
	"github.com/hashicorp/go-multierror"
)

// Session is a running emulator and the host-side state that feeds it.
type Session struct {
	emulator     snowhost.Emulator
	input        *input.Sampler
	frames       *framebuffer.Shipper
	logger       *slog.Logger
	disks        []*disk.HostDiskImage
	floppyCount  int
	attachErrors *multierror.Error
}

// Step runs one iteration of the main loop: sample input, advance the core by
// one tick, then ship any frames it produced. Frames aren't shipped if the tick
// fails.
func (s *Session) Step() error {
	s.input.Tick()
	if err := s.emulator.Tick(1); err != nil {
		return err
	}
	s.frames.Tick()
	return nil
}

// Run calls Step until the core reports an error, then releases the disks the
// session attached and returns that error.
func (s *Session) Run() error {
	defer s.closeDisks()

	for {
		if err := s.Step(); err != nil {
			s.logger.Error("Emulator tick error", "error", err)
			return err
		}
	}
}

// AttachErrors returns the reasons disks or floppies were skipped during
// startup, or nil if everything attached.
func (s *Session) AttachErrors() error {
	return s.attachErrors.ErrorOrNil()
}

// SCSIDisks returns the disks attached to the emulator, indexed by SCSI ID.
func (s *Session) SCSIDisks() []*disk.HostDiskImage {
	return s.disks
}

// FloppyCount returns the number of floppies inserted at startup.
func (s *Session) FloppyCount() int {
	return s.floppyCount
}

func (s *Session) closeDisks() {
	for _, image := range s.disks {
		if err := image.Close(); err != nil {
			s.logger.Warn("Error closing disk", "disk", image.ImagePath(), "error", err)
		}
	}
}
