package disk

import (
	"fmt"
)

// BlockID is the index of a 512-byte block on a disk.
type BlockID uint

// BlockCount returns the number of whole blocks in the image.
func (d *HostDiskImage) BlockCount() uint {
	return uint(d.sizeBytes / BlockSize)
}

// BlockIDToOffset converts a block ID into a byte offset into the image.
func (d *HostDiskImage) BlockIDToOffset(blockID BlockID) (int, error) {
	if uint(blockID) >= d.BlockCount() {
		return -1,
			fmt.Errorf(
				"invalid block ID %d: not in range [0, %d)",
				blockID,
				d.BlockCount())
	}
	return int(blockID) * BlockSize, nil
}

// CheckIOBounds checks to see if `dataLength` bytes can be read from or written
// to the image, starting at blockID. If the bounds check fails, it returns an
// error indicating exactly what went wrong.
func (d *HostDiskImage) CheckIOBounds(blockID BlockID, dataLength uint) error {
	if uint(blockID) >= d.BlockCount() {
		return fmt.Errorf(
			"invalid block ID %d: not in range [0, %d)",
			blockID,
			d.BlockCount())
	}

	if dataLength%BlockSize != 0 {
		return fmt.Errorf(
			"data must be a multiple of the block size (%d B), got %d (remainder %d)",
			BlockSize,
			dataLength,
			dataLength%BlockSize)
	}

	dataSizeInBlocks := dataLength / BlockSize
	if uint(blockID)+dataSizeInBlocks > d.BlockCount() {
		return fmt.Errorf(
			"block %d plus %d blocks of data extends past end of image",
			blockID,
			dataSizeInBlocks)
	}

	return nil
}

// ReadBlocks reads `count` whole blocks starting from `blockID`.
func (d *HostDiskImage) ReadBlocks(blockID BlockID, count uint) ([]byte, error) {
	err := d.CheckIOBounds(blockID, count*BlockSize)
	if err != nil {
		return nil, err
	}
	return d.ReadBytes(int(blockID)*BlockSize, int(count*BlockSize)), nil
}

// WriteBlocks writes data to the image starting at `blockID`. `data` must be a
// multiple of the block size.
func (d *HostDiskImage) WriteBlocks(blockID BlockID, data []byte) error {
	err := d.CheckIOBounds(blockID, uint(len(data)))
	if err != nil {
		return err
	}
	d.WriteBytes(int(blockID)*BlockSize, data)
	return nil
}
