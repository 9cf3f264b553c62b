// Package audio forwards sample batches produced by the emulator core to the
// host's audio queue.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/host"
)

// BytesPerSample is the encoded size of one sample handed to the host.
const BytesPerSample = 4

// HostSink encodes samples as little-endian float32 and enqueues them on the
// host.
type HostSink struct {
	host    host.AudioHost
	scratch []byte
}

var _ snowhost.AudioSink = (*HostSink)(nil)

func NewHostSink(h host.AudioHost) *HostSink {
	return &HostSink{host: h}
}

// Enqueue forwards `samples` to the host. Empty batches are dropped.
func (s *HostSink) Enqueue(samples []float32) {
	if len(samples) == 0 {
		return
	}

	s.scratch = EncodeSamples(s.scratch[:0], samples)
	s.host.EnqueueAudio(s.scratch)
}

// EncodeSamples appends the little-endian float32 encoding of `samples` to
// `dst` and returns the extended slice.
func EncodeSamples(dst []byte, samples []float32) []byte {
	for _, sample := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(sample))
	}
	return dst
}

type discardSink struct{}

func (discardSink) Enqueue([]float32) {}

// Discard is a sink that drops every batch.
var Discard snowhost.AudioSink = discardSink{}
