// Package testing provides fakes of the host import table and the emulator
// core for use in tests.
package testing

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dargueta/snowhost/host"
	"github.com/xaionaro-go/bytesextra"
)

type recordedDisk struct {
	data   []byte
	stream io.ReadWriteSeeker
}

// RecordingHost is a [host.Host] that serves disks from memory and records
// every call made to it. The zero value is not usable; create one with
// [NewRecordingHost].
type RecordingHost struct {
	// NextHandle is the handle the next successful DiskOpen returns. Handles
	// are assigned sequentially from here.
	NextHandle int32
	// SizeOverrides replaces the size DiskSize reports for the named disk.
	SizeOverrides map[string]float64
	// ReadLimit, if positive, caps how many bytes a single DiskRead delivers,
	// simulating a host that returns short reads.
	ReadLimit int

	// Calls is the name of every import called, in order.
	Calls []string
	// OpenedPaths holds the path of every DiskOpen call, successful or not.
	OpenedPaths []string
	Opened      []int32
	Closed      []int32
	Writes      int

	VideoOpens [][2]uint32
	Blits      [][]byte
	Audio      [][]byte

	LockAvailable bool
	LockAcquired  int
	LockReleased  int
	ButtonState   int32
	HasPosition   int32
	PositionX     int32
	PositionY     int32
	DeltaX        int32
	DeltaY        int32

	disks   map[string]*recordedDisk
	handles map[int32]*recordedDisk
}

var _ host.Host = (*RecordingHost)(nil)

// NewRecordingHost creates a host with no disks, the input lock available and
// no mouse button sample.
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{
		SizeOverrides: make(map[string]float64),
		LockAvailable: true,
		ButtonState:   -1,
		disks:         make(map[string]*recordedDisk),
		handles:       make(map[int32]*recordedDisk),
	}
}

// AddDisk makes `data` available under `name`. Writes through the host modify
// `data` in place; its size is fixed.
func (h *RecordingHost) AddDisk(name string, data []byte) {
	h.disks[name] = &recordedDisk{
		data:   data,
		stream: bytesextra.NewReadWriteSeeker(data),
	}
}

// Disk returns the current contents of the named disk.
func (h *RecordingHost) Disk(name string) []byte {
	if disk, ok := h.disks[name]; ok {
		return disk.data
	}
	return nil
}

// CloseCount returns how many times DiskClose was called with `id`.
func (h *RecordingHost) CloseCount(id int32) int {
	count := 0
	for _, closed := range h.Closed {
		if closed == id {
			count++
		}
	}
	return count
}

// OpenHandles returns the handles that were opened and not yet closed.
func (h *RecordingHost) OpenHandles() []int32 {
	var open []int32
	for _, id := range h.Opened {
		if h.CloseCount(id) == 0 {
			open = append(open, id)
		}
	}
	return open
}

// CountCalls returns how many times the named import was called.
func (h *RecordingHost) CountCalls(name string) int {
	count := 0
	for _, call := range h.Calls {
		if call == name {
			count++
		}
	}
	return count
}

func (h *RecordingHost) record(name string) {
	h.Calls = append(h.Calls, name)
}

func (h *RecordingHost) DiskOpen(cPath []byte) int32 {
	h.record("disk_open")
	path := string(bytes.TrimSuffix(cPath, []byte{0}))
	h.OpenedPaths = append(h.OpenedPaths, path)

	disk, ok := h.disks[path]
	if !ok {
		return -1
	}

	id := h.NextHandle
	h.NextHandle++
	h.handles[id] = disk
	h.Opened = append(h.Opened, id)
	return id
}

func (h *RecordingHost) DiskClose(id int32) {
	h.record("disk_close")
	h.Closed = append(h.Closed, id)
	delete(h.handles, id)
}

func (h *RecordingHost) DiskSize(id int32) float64 {
	h.record("disk_size")
	disk, ok := h.handles[id]
	if !ok {
		return 0
	}
	for name, candidate := range h.disks {
		if candidate == disk {
			if size, overridden := h.SizeOverrides[name]; overridden {
				return size
			}
		}
	}
	return float64(len(disk.data))
}

func (h *RecordingHost) transferSize(
	disk *recordedDisk, buf []byte, offset, length float64,
) (int, error) {
	start := int(offset)
	if start < 0 || start > len(disk.data) {
		return 0, fmt.Errorf("offset %d not in [0, %d]", start, len(disk.data))
	}
	size := max(0, min(int(length), len(buf), len(disk.data)-start))
	if _, err := disk.stream.Seek(int64(start), io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}

func (h *RecordingHost) DiskRead(id int32, buf []byte, offset, length float64) float64 {
	h.record("disk_read")
	disk, ok := h.handles[id]
	if !ok {
		return -1
	}
	size, err := h.transferSize(disk, buf, offset, length)
	if err != nil {
		return -1
	}
	if h.ReadLimit > 0 {
		size = min(size, h.ReadLimit)
	}
	n, _ := io.ReadFull(disk.stream, buf[:size])
	return float64(n)
}

func (h *RecordingHost) DiskWrite(id int32, buf []byte, offset, length float64) float64 {
	h.record("disk_write")
	h.Writes++
	disk, ok := h.handles[id]
	if !ok {
		return -1
	}
	size, err := h.transferSize(disk, buf, offset, length)
	if err != nil {
		return -1
	}
	n, _ := disk.stream.Write(buf[:size])
	return float64(n)
}

func (h *RecordingHost) DidOpenVideo(width, height uint32) {
	h.record("did_open_video")
	h.VideoOpens = append(h.VideoOpens, [2]uint32{width, height})
}

func (h *RecordingHost) Blit(buf []byte) {
	h.record("blit")
	h.Blits = append(h.Blits, bytes.Clone(buf))
}

func (h *RecordingHost) EnqueueAudio(buf []byte) {
	h.record("enqueue_audio")
	h.Audio = append(h.Audio, bytes.Clone(buf))
}

func (h *RecordingHost) AcquireInputLock() int32 {
	h.record("acquire_input_lock")
	if !h.LockAvailable {
		return 0
	}
	h.LockAcquired++
	return 1
}

func (h *RecordingHost) ReleaseInputLock() {
	h.record("release_input_lock")
	h.LockReleased++
}

func (h *RecordingHost) HasMousePosition() int32 {
	h.record("has_mouse_position")
	return h.HasPosition
}

func (h *RecordingHost) MouseXPosition() int32 {
	h.record("get_mouse_x_position")
	return h.PositionX
}

func (h *RecordingHost) MouseYPosition() int32 {
	h.record("get_mouse_y_position")
	return h.PositionY
}

func (h *RecordingHost) MouseDeltaX() int32 {
	h.record("get_mouse_delta_x")
	return h.DeltaX
}

func (h *RecordingHost) MouseDeltaY() int32 {
	h.record("get_mouse_delta_y")
	return h.DeltaY
}

func (h *RecordingHost) MouseButtonState() int32 {
	h.record("get_mouse_button_state")
	return h.ButtonState
}
