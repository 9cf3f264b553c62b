package snowhost

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dargueta/snowhost/models"
)

// DiskImage is the random-access disk interface the emulator's SCSI targets
// read and write through.
//
// Reads never fail: ReadBytes always returns exactly `length` bytes. If the
// backing storage cannot supply all of them, the bytes it didn't fill are zero.
type DiskImage interface {
	// ByteLen returns the size of the image in bytes.
	ByteLen() int
	ReadBytes(offset, length int) []byte
	WriteBytes(offset int, data []byte)
	// MediaBytes returns a contiguous view of the whole image if the
	// implementation keeps one in memory, or nil otherwise.
	MediaBytes() []byte
	// ImagePath returns the path the image was opened from, or an empty string
	// if it has none.
	ImagePath() string
}

// FloppyImage is a parsed floppy image ready to be inserted into a drive. The
// bridge treats it as opaque.
type FloppyImage interface {
	Title() string
}

// AudioSink receives audio produced by the emulator.
type AudioSink interface {
	Enqueue(samples []float32)
}

// DisplayBuffer is one rendered frame.
type DisplayBuffer struct {
	Width  uint16
	Height uint16
	Pixels []byte
}

// MouseMode selects which host mouse inputs are sampled and which commands are
// sent to the emulator.
type MouseMode int

const (
	MouseDisabled MouseMode = iota
	// MouseAbsolute means the host supplies absolute pointer coordinates.
	MouseAbsolute
	// MouseRelativeHw means the host supplies raw movement deltas.
	MouseRelativeHw
)

func (m MouseMode) String() string {
	switch m {
	case MouseDisabled:
		return "Disabled"
	case MouseAbsolute:
		return "Absolute"
	case MouseRelativeHw:
		return "RelativeHw"
	default:
		return fmt.Sprintf("MouseMode(%d)", int(m))
	}
}

////////////////////////////////////////////////////////////////////////////////
// Commands

// Command is a message sent to the emulator core. The set of commands is
// closed; see the types in this file.
type Command interface {
	isCommand()
}

// RunCommand starts emulation.
type RunCommand struct{}

// InsertFloppyImage inserts a parsed floppy into drive `Drive` (0-based).
type InsertFloppyImage struct {
	Drive        int
	Image        FloppyImage
	WriteProtect bool
}

// MouseUpdateRelative moves the mouse by a delta. A nil Button leaves the
// button state unchanged.
type MouseUpdateRelative struct {
	RelX   int16
	RelY   int16
	Button *bool
}

// MouseUpdateAbsolute moves the pointer to an absolute screen position.
type MouseUpdateAbsolute struct {
	X uint16
	Y uint16
}

func (RunCommand) isCommand()          {}
func (InsertFloppyImage) isCommand()   {}
func (MouseUpdateRelative) isCommand() {}
func (MouseUpdateAbsolute) isCommand() {}

// CommandSender delivers commands to a running core. Send returns an error
// once the core has shut down.
type CommandSender interface {
	Send(cmd Command) error
}

////////////////////////////////////////////////////////////////////////////////
// Core

// Emulator is the subset of the emulator core the bridge drives.
type Emulator interface {
	SetAudioSink(sink AudioSink)
	// AttachDiskImageAt attaches a disk as the SCSI target `scsiID`. The core
	// takes ownership of `image` only if this succeeds.
	AttachDiskImageAt(image DiskImage, scsiID int) error
	CreateCmdSender() CommandSender
	// Tick advances the emulation by `ticks` quanta.
	Tick(ticks int) error
}

// ExtraROM is an auxiliary ROM image and the slot it's loaded into.
type ExtraROM struct {
	Kind models.ExtraROMKind
	Data []byte
}

// EmulatorConfig holds everything a core needs to construct an emulator.
type EmulatorConfig struct {
	ROM       []byte
	ExtraROMs []ExtraROM
	Model     models.Model
	// Monitor is nil for models with built-in video or when the core should
	// pick its default.
	Monitor   *models.Monitor
	MouseMode MouseMode
	// RAMSize is the RAM size in bytes, or 0 for the model default.
	RAMSize    int
	SafeMode   bool
	DiskImages []DiskImage
}

// CoreFactory constructs an emulator. The returned channel delivers rendered
// frames; it is bounded and the core drops or blocks on its own side when it
// is full.
type CoreFactory func(config EmulatorConfig) (Emulator, <-chan DisplayBuffer, error)

var (
	coresMu sync.RWMutex
	cores   = make(map[string]CoreFactory)
)

// RegisterCore makes an emulator core available by name. It's intended to be
// called from the init function of the package implementing the core. It
// panics if called twice with the same name or with a nil factory.
func RegisterCore(name string, factory CoreFactory) {
	coresMu.Lock()
	defer coresMu.Unlock()

	if factory == nil {
		panic("snowhost: RegisterCore factory is nil")
	}
	if _, exists := cores[name]; exists {
		panic("snowhost: RegisterCore called twice for core " + name)
	}
	cores[name] = factory
}

// LookupCore returns the factory registered under `name`. An empty name selects
// the only registered core, and fails if there isn't exactly one.
func LookupCore(name string) (CoreFactory, error) {
	coresMu.RLock()
	defer coresMu.RUnlock()

	if name == "" {
		switch len(cores) {
		case 0:
			return nil, ErrNoCore.WithMessage("no emulator core is linked into this build")
		case 1:
			for _, factory := range cores {
				return factory, nil
			}
		}
		return nil, ErrInvalidArgument.WithMessage(
			fmt.Sprintf("several emulator cores are available, pick one of %v", sortedCoreNames()))
	}

	factory, ok := cores[name]
	if !ok {
		return nil, ErrNoCore.WithMessage(fmt.Sprintf("unknown emulator core %q", name))
	}
	return factory, nil
}

// Cores returns the names of the registered cores in sorted order.
func Cores() []string {
	coresMu.RLock()
	defer coresMu.RUnlock()
	return sortedCoreNames()
}

func sortedCoreNames() []string {
	names := make([]string, 0, len(cores))
	for name := range cores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
