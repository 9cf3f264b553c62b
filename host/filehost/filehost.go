// Package filehost implements the host import table on top of an ordinary
// filesystem, so the bridge can run headless outside a browser. Disks are files,
// video output is counted and discarded, there's never any input, and audio is
// dropped.
package filehost

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/dargueta/snowhost/host"
	"github.com/noxer/bytewriter"
	"github.com/spf13/afero"
)

// DefaultMaxHandles is the size of the handle table used by New.
const DefaultMaxHandles = 64

type Host struct {
	fs      afero.Fs
	handles handleTable
	logger  *slog.Logger

	// VideoWidth and VideoHeight are the dimensions last announced through
	// DidOpenVideo.
	VideoWidth  uint32
	VideoHeight uint32
	// BlitCount is the number of frames received through Blit.
	BlitCount int
}

var _ host.Host = (*Host)(nil)

func New(fs afero.Fs, logger *slog.Logger) *Host {
	return NewWithMaxHandles(fs, logger, DefaultMaxHandles)
}

// NewWithMaxHandles is like New but allows at most `maxHandles` disks to be open
// at the same time.
func NewWithMaxHandles(fs afero.Fs, logger *slog.Logger, maxHandles int) *Host {
	return &Host{
		fs:      fs,
		handles: newHandleTable(maxHandles),
		logger:  logger,
	}
}

// OpenHandles returns the number of disk handles currently open.
func (h *Host) OpenHandles() int {
	return h.handles.openCount()
}

////////////////////////////////////////////////////////////////////////////////
// Disks

// DiskOpen opens the file named by the NUL-terminated path in `cPath`. Files
// are opened for writing if possible and read-only otherwise.
func (h *Host) DiskOpen(cPath []byte) int32 {
	path := string(cPath)
	if i := bytes.IndexByte(cPath, 0); i >= 0 {
		path = string(cPath[:i])
	}

	file, err := h.fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		file, err = h.fs.Open(path)
	}
	if err != nil {
		h.logger.Debug("Cannot open disk file", "path", path, "error", err)
		return host.InvalidHandle
	}

	handle, err := h.handles.allocate(file)
	if err != nil {
		h.logger.Error("Cannot open disk file", "path", path, "error", err)
		file.Close()
		return host.InvalidHandle
	}
	return handle
}

// DiskClose closes a handle. Closing a handle that isn't open does nothing.
func (h *Host) DiskClose(id int32) {
	file, err := h.handles.free(id)
	if err != nil {
		return
	}
	if err = file.Close(); err != nil {
		h.logger.Warn("Error closing disk file", "handle", id, "error", err)
	}
}

func (h *Host) DiskSize(id int32) float64 {
	file := h.handles.lookup(id)
	if file == nil {
		return -1
	}

	stat, err := file.Stat()
	if err != nil {
		return -1
	}
	return float64(stat.Size())
}

// DiskRead copies up to `length` bytes at `offset` into `buf` and returns how
// many were copied, or -1 on error.
func (h *Host) DiskRead(id int32, buf []byte, offset, length float64) float64 {
	file := h.handles.lookup(id)
	if file == nil || offset < 0 || length < 0 {
		return -1
	}

	stat, err := file.Stat()
	if err != nil {
		return -1
	}

	start := int64(offset)
	count := min(int64(length), int64(len(buf)), max(stat.Size()-start, 0))

	writer := bytewriter.New(buf)
	copied, err := io.CopyN(writer, io.NewSectionReader(file, start, count), count)
	if err != nil && err != io.EOF {
		h.logger.Warn("Disk read failed", "handle", id, "offset", start, "error", err)
		return -1
	}
	return float64(copied)
}

// DiskWrite writes up to `length` bytes from `buf` at `offset` and returns how
// many were written, or -1 on error.
func (h *Host) DiskWrite(id int32, buf []byte, offset, length float64) float64 {
	file := h.handles.lookup(id)
	if file == nil || offset < 0 || length < 0 {
		return -1
	}

	count := min(int(length), len(buf))
	written, err := file.WriteAt(buf[:count], int64(offset))
	if err != nil {
		h.logger.Warn("Disk write failed", "handle", id, "offset", int64(offset), "error", err)
		return -1
	}
	return float64(written)
}

////////////////////////////////////////////////////////////////////////////////
// Video

func (h *Host) DidOpenVideo(width, height uint32) {
	h.VideoWidth = width
	h.VideoHeight = height
	h.logger.Info("Video mode changed", "width", width, "height", height)
}

func (h *Host) Blit(buf []byte) {
	h.BlitCount++
}

////////////////////////////////////////////////////////////////////////////////
// Input

// AcquireInputLock always fails, so the bridge never samples input.
func (h *Host) AcquireInputLock() int32 { return 0 }
func (h *Host) ReleaseInputLock()       {}
func (h *Host) HasMousePosition() int32 { return 0 }
func (h *Host) MouseXPosition() int32   { return 0 }
func (h *Host) MouseYPosition() int32   { return 0 }
func (h *Host) MouseDeltaX() int32      { return 0 }
func (h *Host) MouseDeltaY() int32      { return 0 }
func (h *Host) MouseButtonState() int32 { return -1 }

////////////////////////////////////////////////////////////////////////////////
// Audio

func (h *Host) EnqueueAudio(buf []byte) {}
