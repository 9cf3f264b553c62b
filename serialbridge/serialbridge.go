// Package serialbridge defines the serial port bridge types the emulator core
// refers to. Bridging an emulated SCC channel to a PTY, a TCP socket or
// LocalTalk needs native platform facilities, so on this target the types only
// exist to keep the core's API intact and New always fails.
package serialbridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dargueta/snowhost"
)

// ErrUnsupported is returned by New on this target.
var ErrUnsupported = snowhost.ErrNotSupported.WithMessage(
	"Serial bridges are not supported on this target")

////////////////////////////////////////////////////////////////////////////////
// Configuration

// Config selects what a serial port is bridged to. The implementations are
// ConfigPty, ConfigTCP and ConfigLocalTalk.
type Config interface {
	fmt.Stringer
	isConfig()
}

// ConfigPty bridges the port to a pseudo-terminal.
type ConfigPty struct{}

// ConfigTCP bridges the port to a TCP listener on Port.
type ConfigTCP struct {
	Port uint16
}

// ConfigLocalTalk bridges the port to LocalTalk over UDP.
type ConfigLocalTalk struct{}

func (ConfigPty) isConfig()       {}
func (ConfigTCP) isConfig()       {}
func (ConfigLocalTalk) isConfig() {}

func (ConfigPty) String() string       { return "SerialBridgeConfig" }
func (ConfigTCP) String() string       { return "SerialBridgeConfig" }
func (ConfigLocalTalk) String() string { return "SerialBridgeConfig" }

// MarshalConfig encodes a Config as "pty", "tcp:PORT" or "localtalk".
func MarshalConfig(config Config) (string, error) {
	switch c := config.(type) {
	case ConfigPty:
		return "pty", nil
	case ConfigTCP:
		return "tcp:" + strconv.FormatUint(uint64(c.Port), 10), nil
	case ConfigLocalTalk:
		return "localtalk", nil
	default:
		return "", snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown serial bridge configuration %T", config))
	}
}

// ParseConfig decodes the text form written by MarshalConfig.
func ParseConfig(text string) (Config, error) {
	switch {
	case text == "pty":
		return ConfigPty{}, nil
	case text == "localtalk":
		return ConfigLocalTalk{}, nil
	case strings.HasPrefix(text, "tcp:"):
		port, err := strconv.ParseUint(strings.TrimPrefix(text, "tcp:"), 10, 16)
		if err != nil {
			return nil, snowhost.ErrInvalidArgument.Wrap(err)
		}
		return ConfigTCP{Port: uint16(port)}, nil
	default:
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown serial bridge configuration %q", text))
	}
}

////////////////////////////////////////////////////////////////////////////////
// Status

// Status describes an active bridge. The implementations are StatusPty,
// StatusTCPListening, StatusTCPConnected and StatusLocalTalk.
type Status interface {
	fmt.Stringer
	isStatus()
}

type StatusPty struct {
	Path string
}

type StatusTCPListening struct {
	Port uint16
}

type StatusTCPConnected struct {
	Port uint16
	Peer string
}

type StatusLocalTalk struct {
	Interface string
}

func (StatusPty) isStatus()          {}
func (StatusTCPListening) isStatus() {}
func (StatusTCPConnected) isStatus() {}
func (StatusLocalTalk) isStatus()    {}

func (StatusPty) String() string          { return "SerialBridgeStatus" }
func (StatusTCPListening) String() string { return "SerialBridgeStatus" }
func (StatusTCPConnected) String() string { return "SerialBridgeStatus" }
func (StatusLocalTalk) String() string    { return "SerialBridgeStatus" }

////////////////////////////////////////////////////////////////////////////////
// Bridge

// Bridge connects an SCC channel to the outside world. It can't be
// constructed on this target.
type Bridge struct{}

// New always fails with ErrUnsupported.
func New(config Config) (*Bridge, error) {
	return nil, ErrUnsupported
}

func (b *Bridge) WriteFromSCC(data []byte) {}

func (b *Bridge) ReadToSCC() []byte {
	return []byte{}
}

func (b *Bridge) Poll() bool {
	return false
}

func (b *Bridge) Status() Status {
	return StatusTCPListening{Port: 0}
}

func (b *Bridge) IsLocalTalk() bool {
	return false
}
