// Package host describes the import table the embedding runtime provides to the
// bridge.
//
// Every call is synchronous. The host is single-threaded with respect to the
// bridge: no import is ever called concurrently with another, and no import may
// suspend the caller.
package host

import (
	"bytes"
	"fmt"
)

// InvalidHandle is the disk handle value meaning "not open". Hosts return a
// negative handle from DiskOpen when the disk doesn't exist.
const InvalidHandle int32 = -1

// DiskHost is the part of the host that serves disk images.
//
// Offsets, lengths and sizes cross the boundary as float64 because some hosts
// can't pass 64-bit integers. Callers truncate them back to integers.
type DiskHost interface {
	// DiskOpen opens the disk named by the NUL-terminated string in `cPath` and
	// returns a non-negative handle, or a negative value if it isn't found.
	DiskOpen(cPath []byte) int32
	// DiskClose releases a handle. Hosts aren't required to tolerate closing a
	// handle twice.
	DiskClose(id int32)
	DiskSize(id int32) float64
	// DiskRead fills `buf` with `length` bytes starting at `offset` and returns
	// the number of bytes read.
	DiskRead(id int32, buf []byte, offset, length float64) float64
	DiskWrite(id int32, buf []byte, offset, length float64) float64
}

// VideoHost is the part of the host that displays frames.
type VideoHost interface {
	// DidOpenVideo tells the host the display resolution changed.
	DidOpenVideo(width, height uint32)
	// Blit uploads one frame of pixels. The host must copy `buf` before
	// returning.
	Blit(buf []byte)
}

// InputHost is the part of the host that exposes mouse state.
type InputHost interface {
	// AcquireInputLock tries to take the host's input lock without blocking.
	// It returns 0 if the lock isn't available.
	AcquireInputLock() int32
	ReleaseInputLock()
	HasMousePosition() int32
	MouseXPosition() int32
	MouseYPosition() int32
	MouseDeltaX() int32
	MouseDeltaY() int32
	// MouseButtonState returns 0 for released, non-zero for pressed, and a
	// negative value if no sample is available.
	MouseButtonState() int32
}

// AudioHost is the part of the host that plays audio.
type AudioHost interface {
	// EnqueueAudio queues little-endian float32 samples for playback. The host
	// must copy `buf` before returning.
	EnqueueAudio(buf []byte)
}

// Host is the complete import table.
type Host interface {
	DiskHost
	VideoHost
	InputHost
	AudioHost
}

// CString encodes `s` as a NUL-terminated byte string for passing to the host.
// It fails if `s` already contains a NUL byte.
func CString(s string) ([]byte, error) {
	if index := bytes.IndexByte([]byte(s), 0); index >= 0 {
		return nil, fmt.Errorf("string contains an embedded null byte at offset %d", index)
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf, nil
}
