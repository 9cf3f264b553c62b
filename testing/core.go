package testing

import (
	"fmt"

	"github.com/dargueta/snowhost"
)

// CommandRecorder is a [snowhost.CommandSender] that keeps every command it's
// given. If Err is set, Send fails with it and records nothing.
type CommandRecorder struct {
	Commands []snowhost.Command
	Err      error
}

func (r *CommandRecorder) Send(cmd snowhost.Command) error {
	if r.Err != nil {
		return r.Err
	}
	r.Commands = append(r.Commands, cmd)
	return nil
}

// FakeEmulator is a scriptable [snowhost.Emulator]. Use its Factory method as a
// [snowhost.CoreFactory].
type FakeEmulator struct {
	// Config is the configuration the emulator was built with.
	Config snowhost.EmulatorConfig
	// FactoryErr, if set, makes Factory fail.
	FactoryErr error
	// AttachErrs maps SCSI IDs to the error AttachDiskImageAt returns for them.
	AttachErrs map[int]error
	Attached   map[int]snowhost.DiskImage
	AudioSink  snowhost.AudioSink
	Sender     CommandRecorder

	// FailAfterTicks makes Tick fail once this many ticks have run. Zero
	// means never.
	FailAfterTicks int
	Ticks          int
	// OnTick is called at the end of every successful Tick with the running
	// tick count.
	OnTick func(tick int)

	// Frames is the frame channel handed back by Factory.
	Frames chan snowhost.DisplayBuffer

	// Events records commands and ticks in the order they happened, e.g.
	// "tick" or "cmd:snowhost.RunCommand".
	Events []string
}

// NewFakeEmulator creates an emulator whose frame channel holds up to
// `frameCapacity` frames.
func NewFakeEmulator(frameCapacity int) *FakeEmulator {
	emu := &FakeEmulator{
		AttachErrs: make(map[int]error),
		Attached:   make(map[int]snowhost.DiskImage),
		Frames:     make(chan snowhost.DisplayBuffer, frameCapacity),
	}
	return emu
}

// Factory implements [snowhost.CoreFactory].
func (e *FakeEmulator) Factory(
	config snowhost.EmulatorConfig,
) (snowhost.Emulator, <-chan snowhost.DisplayBuffer, error) {
	if e.FactoryErr != nil {
		return nil, nil, e.FactoryErr
	}
	e.Config = config
	return e, e.Frames, nil
}

func (e *FakeEmulator) SetAudioSink(sink snowhost.AudioSink) {
	e.AudioSink = sink
}

func (e *FakeEmulator) AttachDiskImageAt(image snowhost.DiskImage, scsiID int) error {
	if err := e.AttachErrs[scsiID]; err != nil {
		return err
	}
	if _, taken := e.Attached[scsiID]; taken {
		return fmt.Errorf("SCSI ID %d already in use", scsiID)
	}
	e.Attached[scsiID] = image
	return nil
}

func (e *FakeEmulator) CreateCmdSender() snowhost.CommandSender {
	return eventSender{emu: e}
}

func (e *FakeEmulator) Tick(ticks int) error {
	e.Events = append(e.Events, "tick")
	if e.FailAfterTicks > 0 && e.Ticks >= e.FailAfterTicks {
		return fmt.Errorf("emulator halted after %d ticks", e.Ticks)
	}
	e.Ticks += ticks
	if e.OnTick != nil {
		e.OnTick(e.Ticks)
	}
	return nil
}

type eventSender struct {
	emu *FakeEmulator
}

func (s eventSender) Send(cmd snowhost.Command) error {
	if err := s.emu.Sender.Send(cmd); err != nil {
		return err
	}
	s.emu.Events = append(s.emu.Events, fmt.Sprintf("cmd:%T", cmd))
	return nil
}
