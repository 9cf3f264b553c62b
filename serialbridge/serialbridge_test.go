package serialbridge_test

import (
	"testing"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/serialbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew__AlwaysUnsupported(t *testing.T) {
	configs := []serialbridge.Config{
		serialbridge.ConfigPty{},
		serialbridge.ConfigTCP{Port: 1984},
		serialbridge.ConfigLocalTalk{},
	}
	for _, config := range configs {
		bridge, err := serialbridge.New(config)
		assert.Nil(t, bridge)
		assert.ErrorIs(t, err, snowhost.ErrNotSupported)
		assert.EqualError(t, err, "Serial bridges are not supported on this target")
	}
}

func TestBridgeMethods(t *testing.T) {
	var bridge serialbridge.Bridge

	bridge.WriteFromSCC([]byte("ATZ\r"))
	assert.Empty(t, bridge.ReadToSCC())
	assert.False(t, bridge.Poll())
	assert.False(t, bridge.IsLocalTalk())
	assert.Equal(t, serialbridge.StatusTCPListening{Port: 0}, bridge.Status())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "SerialBridgeConfig", serialbridge.ConfigTCP{Port: 5}.String())
	assert.Equal(t, "SerialBridgeStatus", serialbridge.StatusPty{Path: "/dev/ttys003"}.String())
	assert.Equal(
		t, "SerialBridgeStatus", serialbridge.StatusTCPConnected{Port: 5, Peer: "10.0.0.2"}.String())
}

func TestConfigText(t *testing.T) {
	cases := map[string]serialbridge.Config{
		"pty":       serialbridge.ConfigPty{},
		"tcp:6502":  serialbridge.ConfigTCP{Port: 6502},
		"localtalk": serialbridge.ConfigLocalTalk{},
	}
	for text, config := range cases {
		encoded, err := serialbridge.MarshalConfig(config)
		require.NoError(t, err)
		assert.Equal(t, text, encoded)

		decoded, err := serialbridge.ParseConfig(text)
		require.NoError(t, err)
		assert.Equal(t, config, decoded)
	}
}

func TestParseConfig__Invalid(t *testing.T) {
	for _, text := range []string{"", "serial", "tcp:", "tcp:70000", "tcp:-1"} {
		_, err := serialbridge.ParseConfig(text)
		assert.ErrorIsf(t, err, snowhost.ErrInvalidArgument, "input %q", text)
	}
}
