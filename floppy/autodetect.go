package floppy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"path/filepath"
	"strings"

	"github.com/dargueta/snowhost"
	"github.com/klauspost/compress/gzip"
)

// Largest decompressed image we'll accept from a gzip stream. Flux captures of
// high-density disks are the biggest thing we expect to see.
const maxImageSize = 64 * 1024 * 1024

var (
	magicGzip = []byte{0x1F, 0x8B}
	magicMOOF = []byte("MOOF\xFF\n\r\n")
	magicWOZ1 = []byte("WOZ1\xFF\n\r\n")
	magicWOZ2 = []byte("WOZ2\xFF\n\r\n")
	magicA2R2 = []byte("A2R2\xFF\n\r\n")
	magicA2R3 = []byte("A2R3\xFF\n\r\n")
)

// Disk Copy 4.2 header layout.
const (
	dc42NameOffset       = 0x00
	dc42MaxNameLength    = 63
	dc42DataSizeOffset   = 0x40
	dc42TagSizeOffset    = 0x44
	dc42DataSumOffset    = 0x48
	dc42TagSumOffset     = 0x4C
	dc42DiskFormatOffset = 0x50
	dc42MagicOffset      = 0x52
	dc42HeaderSize       = 0x54
	dc42Magic            = 0x0100
	// The tag checksum famously skips the first sector's tags.
	dc42TagChecksumSkip = 12
)

// The MOOF INFO chunk always comes first: "INFO", a 32-bit size, then the
// payload, whose second byte is the disk type.
const (
	moofInfoChunkOffset    = 12
	moofInfoDiskTypeOffset = moofInfoChunkOffset + 8 + 1
)

var extensionFormats = map[string]Format{
	".dc42":  FormatDiskCopy42,
	".image": FormatDiskCopy42,
	".moof":  FormatMOOF,
	".woz":   FormatWOZ,
	".a2r":   FormatA2R,
	".img":   FormatRaw,
	".dsk":   FormatRaw,
	".raw":   FormatRaw,
}

// Autodetect identifies the format of a floppy image and parses it. `hint` is
// the image's file name; its extension is used when the contents alone don't
// settle the format. Gzip-compressed images are decompressed first.
func Autodetect(data []byte, hint string) (*Image, error) {
	if bytes.HasPrefix(data, magicGzip) {
		expanded, err := gunzip(data)
		if err != nil {
			return nil, err
		}
		data = expanded
		if strings.EqualFold(filepath.Ext(hint), ".gz") {
			hint = hint[:len(hint)-3]
		}
	}

	title := titleFromHint(hint)

	switch {
	case bytes.HasPrefix(data, magicMOOF):
		return parseMOOF(data, title)
	case bytes.HasPrefix(data, magicWOZ1), bytes.HasPrefix(data, magicWOZ2):
		return parseChecksummedContainer(data, title, FormatWOZ)
	case bytes.HasPrefix(data, magicA2R2), bytes.HasPrefix(data, magicA2R3):
		return &Image{format: FormatA2R, title: title, data: data}, nil
	case isDiskCopy42(data):
		return parseDiskCopy42(data)
	}

	expected := extensionFormats[strings.ToLower(filepath.Ext(hint))]
	if expected != FormatUnknown && expected != FormatRaw {
		return nil, snowhost.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("%q has no valid %s header", hint, expected))
	}

	if kind, ok := kindsBySize[len(data)]; ok {
		return &Image{format: FormatRaw, kind: kind, title: title, data: data}, nil
	}

	if expected == FormatRaw {
		return nil, snowhost.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("%d bytes is not the size of any supported raw floppy image", len(data)))
	}
	return nil, snowhost.ErrUnknownFormat.WithMessage(
		fmt.Sprintf("can't identify a %d-byte image", len(data)))
}

func titleFromHint(hint string) string {
	base := filepath.Base(hint)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." || title == string(filepath.Separator) {
		return "Untitled"
	}
	return title
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, snowhost.ErrUnknownFormat.Wrap(err)
	}
	defer reader.Close()

	expanded, err := io.ReadAll(io.LimitReader(reader, maxImageSize+1))
	if err != nil {
		return nil, snowhost.ErrIOFailed.Wrap(err)
	}
	if len(expanded) > maxImageSize {
		return nil, snowhost.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("decompressed image exceeds %d bytes", maxImageSize))
	}
	return expanded, nil
}

// parseChecksummedContainer handles the Applesauce containers that store a
// CRC32 of everything after the 12-byte header. A stored CRC of 0 means none
// was computed.
func parseChecksummedContainer(data []byte, title string, format Format) (*Image, error) {
	if len(data) < 12 {
		return nil, snowhost.ErrUnknownFormat.WithMessage(
			fmt.Sprintf("%s header truncated", format))
	}

	stored := binary.LittleEndian.Uint32(data[8:12])
	if stored != 0 {
		actual := crc32.ChecksumIEEE(data[12:])
		if actual != stored {
			return nil, snowhost.ErrChecksumMismatch.WithMessage(
				fmt.Sprintf("%s CRC is 0x%08x, expected 0x%08x", format, actual, stored))
		}
	}
	return &Image{format: format, title: title, data: data}, nil
}

func parseMOOF(data []byte, title string) (*Image, error) {
	image, err := parseChecksummedContainer(data, title, FormatMOOF)
	if err != nil {
		return nil, err
	}

	if len(data) > moofInfoDiskTypeOffset &&
		bytes.Equal(data[moofInfoChunkOffset:moofInfoChunkOffset+4], []byte("INFO")) {
		switch data[moofInfoDiskTypeOffset] {
		case 1:
			image.kind = KindGCR400K
		case 2:
			image.kind = KindGCR800K
		case 3:
			image.kind = KindMFM1440K
		}
	}
	return image, nil
}

func isDiskCopy42(data []byte) bool {
	if len(data) < dc42HeaderSize {
		return false
	}
	if binary.BigEndian.Uint16(data[dc42MagicOffset:]) != dc42Magic {
		return false
	}
	return int(data[dc42NameOffset]) <= dc42MaxNameLength
}

// diskCopyChecksum implements Disk Copy's checksum: add each big-endian 16-bit
// word, then rotate the 32-bit sum right by one bit.
func diskCopyChecksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i+1 < len(data); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(data[i:]))
		sum = (sum >> 1) | (sum << 31)
	}
	return sum
}

func parseDiskCopy42(data []byte) (*Image, error) {
	nameLength := int(data[dc42NameOffset])
	title := string(data[dc42NameOffset+1 : dc42NameOffset+1+nameLength])

	dataSize := int(binary.BigEndian.Uint32(data[dc42DataSizeOffset:]))
	tagSize := int(binary.BigEndian.Uint32(data[dc42TagSizeOffset:]))
	if dataSize < 0 || tagSize < 0 || len(data) < dc42HeaderSize+dataSize+tagSize {
		return nil, snowhost.ErrUnknownFormat.WithMessage(
			fmt.Sprintf(
				"Disk Copy image truncated: header claims %d data and %d tag bytes, file has %d",
				dataSize,
				tagSize,
				len(data)-dc42HeaderSize))
	}

	sectors := data[dc42HeaderSize : dc42HeaderSize+dataSize]
	tags := data[dc42HeaderSize+dataSize : dc42HeaderSize+dataSize+tagSize]

	expected := binary.BigEndian.Uint32(data[dc42DataSumOffset:])
	if actual := diskCopyChecksum(sectors); actual != expected {
		return nil, snowhost.ErrChecksumMismatch.WithMessage(
			fmt.Sprintf("Disk Copy data checksum is 0x%08x, expected 0x%08x", actual, expected))
	}
	if len(tags) > dc42TagChecksumSkip {
		expected = binary.BigEndian.Uint32(data[dc42TagSumOffset:])
		if actual := diskCopyChecksum(tags[dc42TagChecksumSkip:]); actual != expected {
			return nil, snowhost.ErrChecksumMismatch.WithMessage(
				fmt.Sprintf("Disk Copy tag checksum is 0x%08x, expected 0x%08x", actual, expected))
		}
	}

	kind := KindUnknown
	switch data[dc42DiskFormatOffset] {
	case 0:
		kind = KindGCR400K
	case 1:
		kind = KindGCR800K
	case 2:
		kind = KindMFM720K
	case 3:
		kind = KindMFM1440K
	}
	if bySize, ok := kindsBySize[dataSize]; ok && kind == KindUnknown {
		kind = bySize
	}

	if title == "" {
		title = "Untitled"
	}
	return &Image{
		format: FormatDiskCopy42,
		kind:   kind,
		title:  title,
		data:   sectors,
		tags:   tags,
	}, nil
}
