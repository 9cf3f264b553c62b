// Package disk adapts a disk image held by the host into the emulator's
// random-access [snowhost.DiskImage] interface.
package disk

import (
	"fmt"
	"log/slog"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/host"
)

// BlockSize is the size of a SCSI block, in bytes. Host disk images must be a
// whole number of blocks.
const BlockSize = 512

// HostDiskImage is a disk image stored by the host and accessed through its
// disk imports. It exclusively owns its host handle; call Close to release it.
type HostDiskImage struct {
	host      host.DiskHost
	diskID    int32
	sizeBytes int
	path      string
}

var _ snowhost.DiskImage = (*HostDiskImage)(nil)

// Open asks the host for the disk at `path`.
//
// The image's size must be a multiple of [BlockSize]. If it isn't, the handle
// is closed again before Open returns the error.
func Open(h host.DiskHost, path string) (*HostDiskImage, error) {
	cPath, err := host.CString(path)
	if err != nil {
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			"Disk name contains an embedded null byte")
	}

	diskID := h.DiskOpen(cPath)
	if diskID < 0 {
		return nil, snowhost.ErrNotFound.WithMessage(
			fmt.Sprintf("Disk not found: %s", path))
	}

	sizeBytes := int(h.DiskSize(diskID))
	if sizeBytes < 0 || sizeBytes%BlockSize != 0 {
		h.DiskClose(diskID)
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"Cannot load disk image %s: not multiple of %d", path, BlockSize))
	}

	return &HostDiskImage{
		host:      h,
		diskID:    diskID,
		sizeBytes: sizeBytes,
		path:      path,
	}, nil
}

// ByteLen returns the size of the image in bytes.
func (d *HostDiskImage) ByteLen() int {
	return d.sizeBytes
}

// ReadBytes returns `length` bytes starting at `offset`. The buffer is always
// exactly `length` bytes long; anything the host doesn't fill in stays zero.
func (d *HostDiskImage) ReadBytes(offset, length int) []byte {
	buffer := make([]byte, max(length, 0))
	n := d.host.DiskRead(d.diskID, buffer, float64(offset), float64(len(buffer)))
	if int(n) < len(buffer) {
		slog.Debug(
			"short read from host disk",
			slog.String("path", d.path),
			slog.Int("offset", offset),
			slog.Int("requested", len(buffer)),
			slog.Float64("returned", n),
		)
	}
	return buffer
}

// WriteBytes writes `data` at `offset`. The host's result is not checked.
func (d *HostDiskImage) WriteBytes(offset int, data []byte) {
	d.host.DiskWrite(d.diskID, data, float64(offset), float64(len(data)))
}

// MediaBytes always returns nil; the image lives in the host, not in memory.
func (d *HostDiskImage) MediaBytes() []byte {
	return nil
}

// ImagePath returns the path the image was opened with.
func (d *HostDiskImage) ImagePath() string {
	return d.path
}

// Close releases the host handle. Calling it more than once is harmless; the
// host only ever sees one close per open.
func (d *HostDiskImage) Close() error {
	if d.diskID >= 0 {
		d.host.DiskClose(d.diskID)
		d.diskID = host.InvalidHandle
	}
	return nil
}
