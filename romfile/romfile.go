// Package romfile reads ROM images from the host filesystem. ROMs shipped inside
// ZIP, 7z, gzip or RAR archives are detected by their magic bytes and the first
// file in the archive is extracted. Anything else is loaded as-is.
package romfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dargueta/snowhost"
	"github.com/spf13/afero"
)

// MaxROMSize caps the size of a ROM, extracted or not.
const MaxROMSize = 16 * 1024 * 1024

var ErrNoROMFile = snowhost.ErrNotFound.WithMessage("no ROM file found in archive")
var ErrFileTooLarge = snowhost.ErrInvalidArgument.WithMessage(
	fmt.Sprintf("file exceeds maximum ROM size of %d bytes", MaxROMSize))

var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21}
)

// Container identifies how a ROM file is packaged.
type Container int

const (
	ContainerRaw Container = iota
	ContainerZIP
	Container7z
	ContainerGzip
	ContainerRAR
)

func (c Container) String() string {
	switch c {
	case ContainerRaw:
		return "raw"
	case ContainerZIP:
		return "zip"
	case Container7z:
		return "7z"
	case ContainerGzip:
		return "gzip"
	case ContainerRAR:
		return "rar"
	default:
		return fmt.Sprintf("Container(%d)", int(c))
	}
}

// DetectContainer identifies a container from the first few bytes of a file.
func DetectContainer(header []byte) Container {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEmpty):
		return ContainerZIP
	case bytes.HasPrefix(header, magicRAR):
		return ContainerRAR
	case bytes.HasPrefix(header, magic7z):
		return Container7z
	case bytes.HasPrefix(header, magicGzip):
		return ContainerGzip
	default:
		return ContainerRaw
	}
}

// Load reads the ROM at `path` on `fs`, unpacking it if it's in an archive.
func Load(fs afero.Fs, path string) ([]byte, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open ROM %s: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("Cannot stat ROM %s: %w", path, err)
	}

	header := make([]byte, 8)
	n, err := file.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("Cannot read ROM %s: %w", path, err)
	}

	container := DetectContainer(header[:n])
	var data []byte

	switch container {
	case ContainerZIP:
		data, err = extractFromZIP(file, stat.Size())
	case Container7z:
		data, err = extractFrom7z(file, stat.Size())
	case ContainerGzip:
		data, err = extractFromGzip(file)
	case ContainerRAR:
		data, err = extractFromRAR(file)
	default:
		data, err = limitedRead(file)
	}

	if err != nil {
		return nil, fmt.Errorf("Cannot read ROM %s (%s): %w", path, container, err)
	}
	return data, nil
}

// limitedRead reads all of `r`, failing with ErrFileTooLarge if there's more
// than MaxROMSize bytes.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
