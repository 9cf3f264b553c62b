// Package floppy loads floppy images from the host and identifies their format.
package floppy

import (
	"fmt"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/host"
)

var _ snowhost.FloppyImage = (*Image)(nil)

// Load reads the whole floppy image `name` from the host and parses it.
//
// Unlike SCSI disks, floppies are copied into emulator memory when they're
// inserted, so the host handle is closed before the image is parsed.
func Load(h host.DiskHost, name string) (*Image, error) {
	cName, err := host.CString(name)
	if err != nil {
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			"Floppy name contains an embedded null byte")
	}

	diskID := h.DiskOpen(cName)
	if diskID < 0 {
		return nil, snowhost.ErrNotFound.WithMessage(
			fmt.Sprintf("Floppy not found: %s", name))
	}

	sizeBytes := max(int(h.DiskSize(diskID)), 0)
	buffer := make([]byte, sizeBytes)
	if sizeBytes > 0 {
		h.DiskRead(diskID, buffer, 0, float64(sizeBytes))
	}
	h.DiskClose(diskID)

	image, err := Autodetect(buffer, name)
	if err != nil {
		return nil, fmt.Errorf("Cannot load floppy image %s: %w", name, err)
	}
	return image, nil
}
