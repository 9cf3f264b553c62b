package disk_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/snowhost"
	"github.com/dargueta/snowhost/disk"
	hosttest "github.com/dargueta/snowhost/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floppySizedImage = 1_474_560

func newHostWithDisk(t *testing.T, name string, totalBlocks uint) *hosttest.RecordingHost {
	h := hosttest.NewRecordingHost()
	h.NextHandle = 7
	h.AddDisk(name, hosttest.CreateRandomImage(disk.BlockSize, totalBlocks, t))
	return h
}

func TestOpen__Aligned(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", floppySizedImage/disk.BlockSize)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)

	assert.Equal(t, floppySizedImage, image.ByteLen())
	assert.Nil(t, image.MediaBytes())
	assert.Equal(t, "boot.img", image.ImagePath())
	assert.EqualValues(t, floppySizedImage/disk.BlockSize, image.BlockCount())
	assert.Equal(t, []int32{7}, h.Opened)
	assert.Empty(t, h.Closed, "handle closed while the image is still open")
}

func TestOpen__Misaligned(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)
	h.SizeOverrides["boot.img"] = floppySizedImage + 1

	image, err := disk.Open(h, "boot.img")
	assert.Nil(t, image)
	assert.ErrorContains(t, err, "not multiple of 512")
	assert.ErrorIs(t, err, snowhost.ErrInvalidArgument)
	assert.Equal(t, []int32{7}, h.Closed, "handle must be closed on failure")
}

// Every size that isn't a whole number of blocks is rejected, and the handle is
// closed exactly once each time.
func TestOpen__MisalignedSizes(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	for _, size := range []float64{1, 511, 513, 1023, 2047.9, 819201} {
		h.SizeOverrides["boot.img"] = size
		_, err := disk.Open(h, "boot.img")
		require.Errorf(t, err, "size %v was accepted", size)
	}

	assert.Len(t, h.Opened, 6)
	for _, id := range h.Opened {
		assert.Equalf(t, 1, h.CloseCount(id), "handle %d close count", id)
	}
}

func TestOpen__FractionalSizeTruncated(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)
	h.SizeOverrides["boot.img"] = 2048.75

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	assert.Equal(t, 2048, image.ByteLen())
}

func TestOpen__EmbeddedNull(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "foo\x00bar")
	assert.Nil(t, image)
	assert.ErrorContains(t, err, "embedded null byte")
	assert.Zero(t, h.CountCalls("disk_open"), "host must not see the path")
}

func TestOpen__NotFound(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "missing.img")
	assert.Nil(t, image)
	assert.ErrorIs(t, err, snowhost.ErrNotFound)
	assert.EqualError(t, err, "Disk not found: missing.img")
	assert.Zero(t, h.CountCalls("disk_close"))
	assert.Zero(t, h.CountCalls("disk_size"))
}

func TestClose__Idempotent(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)

	assert.NoError(t, image.Close())
	assert.NoError(t, image.Close())
	assert.Equal(t, []int32{7}, h.Closed)
	assert.Empty(t, h.OpenHandles())
}

func TestReadBytes(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 8)
	expected := h.Disk("boot.img")

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	data := image.ReadBytes(100, 1000)
	assert.Len(t, data, 1000)
	assert.True(t, bytes.Equal(expected[100:1100], data), "read returned wrong data")
}

func TestReadBytes__ExactLengthRegardlessOfHost(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 2)
	h.ReadLimit = 10
	expected := h.Disk("boot.img")

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	for _, length := range []int{0, 1, 10, 11, 512, 1024} {
		data := image.ReadBytes(0, length)
		require.Lenf(t, data, length, "read of %d bytes", length)

		filled := min(length, 10)
		assert.Equal(t, expected[:filled], data[:filled])
		assert.Equalf(
			t,
			make([]byte, length-filled),
			data[filled:],
			"bytes the host didn't fill must be zero (length %d)",
			length)
	}
}

func TestReadBytes__PastEnd(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 1)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	data := image.ReadBytes(4096, 16)
	assert.Equal(t, make([]byte, 16), data)
}

func TestWriteBytes(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	payload := []byte("Welcome to Macintosh")
	image.WriteBytes(600, payload)

	assert.Equal(t, 1, h.Writes)
	assert.Equal(t, payload, h.Disk("boot.img")[600:600+len(payload)])
	assert.Equal(t, payload, image.ReadBytes(600, len(payload)))
}

func TestBlocks(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	block := bytes.Repeat([]byte{0xA5}, disk.BlockSize)
	require.NoError(t, image.WriteBlocks(3, block))

	data, err := image.ReadBlocks(3, 1)
	require.NoError(t, err)
	assert.Equal(t, block, data)

	all, err := image.ReadBlocks(0, 4)
	require.NoError(t, err)
	assert.Len(t, all, 4*disk.BlockSize)

	offset, err := image.BlockIDToOffset(2)
	require.NoError(t, err)
	assert.Equal(t, 1024, offset)
}

func TestBlocks__OutOfBounds(t *testing.T) {
	h := newHostWithDisk(t, "boot.img", 4)

	image, err := disk.Open(h, "boot.img")
	require.NoError(t, err)
	defer image.Close()

	_, err = image.ReadBlocks(4, 1)
	assert.ErrorContains(t, err, "invalid block ID 4: not in range [0, 4)")

	_, err = image.ReadBlocks(3, 2)
	assert.ErrorContains(t, err, "extends past end of image")

	err = image.WriteBlocks(0, make([]byte, 100))
	assert.ErrorContains(t, err, "multiple of the block size")

	_, err = image.BlockIDToOffset(9)
	assert.Error(t, err)
	assert.Zero(t, h.Writes, "out-of-bounds writes must not reach the host")
}
