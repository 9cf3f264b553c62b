// Package input samples the host's mouse state and turns it into emulator
// commands.
package input

import (
	"math"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/host"
)

// Sampler reads the host's mouse once per tick.
type Sampler struct {
	host      host.InputHost
	sender    snowhost.CommandSender
	mouseMode snowhost.MouseMode
}

// NewSampler creates a sampler that sends commands through `sender` according
// to `mouseMode`.
func NewSampler(
	h host.InputHost, sender snowhost.CommandSender, mouseMode snowhost.MouseMode,
) *Sampler {
	return &Sampler{
		host:      h,
		sender:    sender,
		mouseMode: mouseMode,
	}
}

// Tick samples the mouse if the host's input lock is free, and does nothing
// otherwise. Within one tick a button update is always sent before a motion
// update.
func (s *Sampler) Tick() {
	if s.host.AcquireInputLock() == 0 {
		return
	}
	defer s.host.ReleaseInputLock()

	s.handleMouse()
}

// Send failures mean the core has shut down. The next core tick reports that,
// so they're dropped here.
func (s *Sampler) handleMouse() {
	buttonState := s.host.MouseButtonState()
	if buttonState >= 0 {
		pressed := buttonState != 0
		_ = s.sender.Send(snowhost.MouseUpdateRelative{Button: &pressed})
	}

	if s.host.HasMousePosition() == 0 {
		return
	}

	switch s.mouseMode {
	case snowhost.MouseRelativeHw:
		deltaX := s.host.MouseDeltaX()
		deltaY := s.host.MouseDeltaY()
		if deltaX != 0 || deltaY != 0 {
			_ = s.sender.Send(snowhost.MouseUpdateRelative{
				RelX: ClampToInt16(deltaX),
				RelY: ClampToInt16(deltaY),
			})
		}
	case snowhost.MouseAbsolute:
		x := s.host.MouseXPosition()
		y := s.host.MouseYPosition()
		_ = s.sender.Send(snowhost.MouseUpdateAbsolute{
			X: ClampToUint16(x),
			Y: ClampToUint16(y),
		})
	case snowhost.MouseDisabled:
	}
}

// ClampToInt16 saturates `value` to the range of an int16.
func ClampToInt16(value int32) int16 {
	return int16(min(max(value, math.MinInt16), math.MaxInt16))
}

// ClampToUint16 saturates `value` to the range of a uint16.
func ClampToUint16(value int32) uint16 {
	return uint16(min(max(value, 0), math.MaxUint16))
}
